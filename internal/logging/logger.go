package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"k8s.io/klog/v2"

	"walkerga/internal/ga"
)

// Logger handles per-generation training output
type Logger struct {
	csvFile       *os.File
	jsonFile      *os.File
	headerWritten bool
}

// NewLogger creates generations.csv and generations.jsonl inside dir
func NewLogger(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	l := &Logger{}
	var err error
	l.csvFile, err = os.Create(filepath.Join(dir, "generations.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating generations.csv: %w", err)
	}
	l.jsonFile, err = os.Create(filepath.Join(dir, "generations.jsonl"))
	if err != nil {
		l.csvFile.Close()
		return nil, fmt.Errorf("creating generations.jsonl: %w", err)
	}
	return l, nil
}

// Close closes all log files
func (l *Logger) Close() {
	if l.csvFile != nil {
		l.csvFile.Close()
	}
	if l.jsonFile != nil {
		l.jsonFile.Close()
	}
}

// LogGeneration appends one summary to both files and the console
func (l *Logger) LogGeneration(s GenerationSummary) error {
	records := []GenerationSummary{s}
	if !l.headerWritten {
		if err := gocsv.Marshal(records, l.csvFile); err != nil {
			return fmt.Errorf("writing generation csv: %w", err)
		}
		l.headerWritten = true
	} else if err := gocsv.MarshalWithoutHeaders(records, l.csvFile); err != nil {
		return fmt.Errorf("writing generation csv: %w", err)
	}

	line, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding generation summary: %w", err)
	}
	if _, err := l.jsonFile.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing generation jsonl: %w", err)
	}

	klog.InfoS("Generation",
		"gen", s.Generation,
		"best", fmt.Sprintf("%.1f", s.BestScore),
		"mean", fmt.Sprintf("%.1f", s.MeanScore),
		"globalBest", fmt.Sprintf("%.1f", s.GlobalBest),
		"finished", s.Finished,
		"diverged", s.Diverged)
	return nil
}

// LogTopK logs debug info for the first k individuals of a sorted population
func LogTopK(inds []*ga.Individual, k int) {
	if k > len(inds) {
		k = len(inds)
	}
	for i := 0; i < k; i++ {
		ind := inds[i]
		klog.V(1).InfoS("Top individual",
			"rank", i+1,
			"score", ind.Score,
			"distance", ind.Stats.Distance,
			"overlap", ind.Stats.Overlap,
			"outcome", ind.Stats.Outcome.String())
	}
}
