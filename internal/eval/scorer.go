package eval

import (
	"fmt"

	"walkerga/internal/config"
	"walkerga/internal/env"
)

// Scorer turns rollout observations into a score. Lower is better.
type Scorer interface {
	Score(stats env.RolloutStats) float64
	Name() string
}

// DistanceScorer scores by the remaining distance to the finish line
type DistanceScorer struct{}

// Score implements Scorer
func (DistanceScorer) Score(stats env.RolloutStats) float64 {
	return stats.Distance
}

// Name implements Scorer
func (DistanceScorer) Name() string { return config.ScoringDistance }

// OverlapScorer adds weighted accumulated obstacle overlap to the remaining
// distance
type OverlapScorer struct {
	Weight float64
}

// Score implements Scorer
func (s OverlapScorer) Score(stats env.RolloutStats) float64 {
	return stats.Overlap*s.Weight + stats.Distance
}

// Name implements Scorer
func (OverlapScorer) Name() string { return config.ScoringDistanceOverlap }

// NewScorer builds the scorer for a scoring mode
func NewScorer(sc config.ScoringConfig) (Scorer, error) {
	switch sc.Mode {
	case config.ScoringDistance:
		return DistanceScorer{}, nil
	case config.ScoringDistanceOverlap:
		return OverlapScorer{Weight: sc.OverlapWeight}, nil
	default:
		return nil, fmt.Errorf("%w: unknown scoring mode %q", config.ErrInvalidConfig, sc.Mode)
	}
}
