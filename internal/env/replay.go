package env

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Replay stores a deterministic action schedule for playback
type Replay struct {
	Label      string       `json:"label"`
	Actions    []Action     `json:"actions"`
	FinalStats RolloutStats `json:"final_stats"`
	Timing     ReplayTiming `json:"timing"`
}

// ReplayTiming stores the clock the schedule was scored with
type ReplayTiming struct {
	Runtime        float64 `json:"runtime"`
	FPS            float64 `json:"fps"`
	MovesPerSecond float64 `json:"moves_per_second"`
}

// NewReplay creates a new replay recorder
func NewReplay(label string, timing ReplayTiming) *Replay {
	return &Replay{
		Label:   label,
		Actions: make([]Action, 0, 64),
		Timing:  timing,
	}
}

// Record adds an action to the replay
func (r *Replay) Record(action Action) {
	r.Actions = append(r.Actions, action)
}

// SetFinalStats sets the final rollout statistics
func (r *Replay) SetFinalStats(stats RolloutStats) {
	r.FinalStats = stats
}

// Save writes the replay to a file
func (r *Replay) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadReplay loads a replay from a file
func LoadReplay(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Replay
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding replay %s: %w", path, err)
	}
	return &r, nil
}
