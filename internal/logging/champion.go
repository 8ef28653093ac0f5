package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"walkerga/internal/env"
	"walkerga/internal/ga"
)

// Champion is the saved form of a genome together with how it scored
type Champion struct {
	RunID      string           `json:"run_id,omitempty"`
	Generation int              `json:"generation"`
	Score      float64          `json:"score"`
	Stats      env.RolloutStats `json:"stats"`
	Timing     env.ReplayTiming `json:"timing"`
	Genome     []env.Action     `json:"genome"`
}

// NewChampion captures an individual found in generation gen
func NewChampion(runID string, ind *ga.Individual, gen int, timing env.ReplayTiming) Champion {
	return Champion{
		RunID:      runID,
		Generation: gen,
		Score:      ind.Score,
		Stats:      ind.Stats,
		Timing:     timing,
		Genome:     ind.Genome.Clone(),
	}
}

// SaveChampion saves the champion to a file
func SaveChampion(path string, c Champion) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding champion: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadChampion loads a champion from a file
func LoadChampion(path string) (*Champion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Champion
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding champion %s: %w", path, err)
	}
	if len(c.Genome) == 0 {
		return nil, fmt.Errorf("champion %s has an empty genome", path)
	}
	return &c, nil
}
