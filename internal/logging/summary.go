package logging

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"walkerga/internal/env"
	"walkerga/internal/ga"
)

// GenerationSummary holds per-generation statistics
type GenerationSummary struct {
	Generation   int     `csv:"generation" json:"generation"`
	BestScore    float64 `csv:"best_score" json:"best_score"`
	MeanScore    float64 `csv:"mean_score" json:"mean_score"`
	StdScore     float64 `csv:"std_score" json:"std_score"`
	WorstScore   float64 `csv:"worst_score" json:"worst_score"`
	GlobalBest   float64 `csv:"global_best" json:"global_best"`
	BestDistance float64 `csv:"best_distance" json:"best_distance"`
	BestOverlap  float64 `csv:"best_overlap" json:"best_overlap"`
	Finished     int     `csv:"finished" json:"finished"`
	TimeUp       int     `csv:"time_up" json:"time_up"`
	Diverged     int     `csv:"diverged" json:"diverged"`
}

// Summarize computes statistics over an evaluated population. Diverged
// rollouts are counted but left out of the mean and spread so one sentinel
// score does not swamp the rest.
func Summarize(gen int, pop *ga.Population, globalBest float64) GenerationSummary {
	s := GenerationSummary{Generation: gen, GlobalBest: globalBest}
	if pop.Size() == 0 {
		return s
	}

	stats := make([]env.RolloutStats, 0, pop.Size())
	healthy := make([]float64, 0, pop.Size())
	for _, ind := range pop.Individuals {
		stats = append(stats, ind.Stats)
		if !ind.Stats.Diverged() {
			healthy = append(healthy, ind.Score)
		}
	}

	all := pop.Scores()
	s.BestScore = floats.Min(all)
	s.WorstScore = floats.Max(all)
	if len(healthy) > 0 {
		s.MeanScore, s.StdScore = stat.MeanStdDev(healthy, nil)
		if len(healthy) == 1 {
			s.StdScore = 0
		}
	}

	best := pop.Best()
	s.BestDistance = best.Stats.Distance
	s.BestOverlap = best.Stats.Overlap

	counts := env.CountOutcomes(stats)
	s.Finished = counts[env.OutcomeFinished]
	s.TimeUp = counts[env.OutcomeTimeUp]
	s.Diverged = counts[env.OutcomeDiverged]
	return s
}
