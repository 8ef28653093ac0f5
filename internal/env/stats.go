package env

// Outcome indicates how a rollout ended
type Outcome int

const (
	OutcomeNone     Outcome = iota
	OutcomeTimeUp           // runtime elapsed short of the finish line
	OutcomeFinished         // reference point at or past the finish line
	OutcomeDiverged         // physics produced a non-finite position
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeTimeUp:
		return "time_up"
	case OutcomeFinished:
		return "finished"
	case OutcomeDiverged:
		return "diverged"
	default:
		return "unknown"
	}
}

// RolloutStats captures all metrics from a single rollout
type RolloutStats struct {
	Score        float64 `json:"score"`        // computed fitness, lower is better
	Distance     float64 `json:"distance"`     // remaining distance to the finish line
	Overlap      float64 `json:"overlap"`      // accumulated obstacle overlap
	Displacement float64 `json:"displacement"` // net horizontal travel of the reference point
	Actions      int     `json:"actions"`      // genome entries dispatched
	Steps        int     `json:"steps"`        // physics steps taken
	SimTime      float64 `json:"sim_time"`     // simulated seconds elapsed
	Outcome      Outcome `json:"outcome"`
}

// Diverged reports whether the rollout was aborted
func (s RolloutStats) Diverged() bool {
	return s.Outcome == OutcomeDiverged
}

// CountOutcomes tallies outcomes across rollouts
func CountOutcomes(stats []RolloutStats) map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, s := range stats {
		counts[s.Outcome]++
	}
	return counts
}
