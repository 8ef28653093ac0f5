package render

import (
	"fmt"

	"walkerga/internal/env"
	"walkerga/internal/eval"
)

// Display re-runs a finished genome with per-frame observers. It owns its
// own universes and never touches GA state.
type Display struct {
	newUniverse env.UniverseFactory
	timing      eval.Timing
	scorer      eval.Scorer
	label       string

	stats env.RolloutStats
	done  bool
}

// NewDisplay binds a display to an evaluator's configuration
func NewDisplay(ev *eval.Evaluator, generation int) *Display {
	return &Display{
		newUniverse: ev.UniverseFactory(),
		timing:      ev.Timing(),
		scorer:      ev.Scorer(),
		label:       GenerationLabel(generation),
	}
}

// GenerationLabel is the caption shown above a replay
func GenerationLabel(generation int) string {
	return fmt.Sprintf("Generation %d", generation)
}

// Label returns the replay caption
func (d *Display) Label() string {
	return d.label
}

// Run replays actions and fans every frame out to the observers
func (d *Display) Run(actions []env.Action, observers ...eval.FrameFunc) env.RolloutStats {
	frame := func(snap env.Snapshot) {
		for _, o := range observers {
			o(snap)
		}
	}
	d.stats = eval.Rollout(actions, d.newUniverse, d.timing, d.scorer, frame)
	d.done = true
	return d.stats
}

// CurrentScore returns the score of the last completed replay
func (d *Display) CurrentScore() (float64, bool) {
	return d.stats.Score, d.done
}

// Stats returns the statistics of the last completed replay
func (d *Display) Stats() env.RolloutStats {
	return d.stats
}
