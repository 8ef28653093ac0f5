package ga

import (
	"math/rand"
	"sort"

	"walkerga/internal/env"
)

// Individual is a genome with its cached rollout result
type Individual struct {
	Genome    Genome
	Score     float64 // lower is better
	Evaluated bool
	Stats     env.RolloutStats
}

// Population manages the collection of individuals
type Population struct {
	Individuals []*Individual
}

// NewPopulation creates a new random population
func NewPopulation(size, genomeSize int, rng *rand.Rand) *Population {
	p := &Population{
		Individuals: make([]*Individual, size),
	}

	for i := 0; i < size; i++ {
		p.Individuals[i] = &Individual{
			Genome: RandomGenome(genomeSize, rng),
		}
	}

	return p
}

// Size returns the population size
func (p *Population) Size() int {
	return len(p.Individuals)
}

// SortByScore orders individuals best-first (ascending score). Ties keep
// their previous order so sorting is reproducible.
func (p *Population) SortByScore() {
	sort.SliceStable(p.Individuals, func(i, j int) bool {
		return p.Individuals[i].Score < p.Individuals[j].Score
	})
}

// TopK returns the best K individuals
func (p *Population) TopK(k int) []*Individual {
	p.SortByScore()
	if k > len(p.Individuals) {
		k = len(p.Individuals)
	}
	return p.Individuals[:k]
}

// Best returns the individual with the lowest score
func (p *Population) Best() *Individual {
	if len(p.Individuals) == 0 {
		return nil
	}
	best := p.Individuals[0]
	for _, ind := range p.Individuals[1:] {
		if ind.Score < best.Score {
			best = ind
		}
	}
	return best
}

// Unevaluated returns individuals without a cached score
func (p *Population) Unevaluated() []*Individual {
	var out []*Individual
	for _, ind := range p.Individuals {
		if !ind.Evaluated {
			out = append(out, ind)
		}
	}
	return out
}

// Scores returns every score in population order
func (p *Population) Scores() []float64 {
	s := make([]float64, len(p.Individuals))
	for i, ind := range p.Individuals {
		s[i] = ind.Score
	}
	return s
}

// Clone creates a deep copy of an individual, cached score included
func (ind *Individual) Clone() *Individual {
	return &Individual{
		Genome:    ind.Genome.Clone(),
		Score:     ind.Score,
		Evaluated: ind.Evaluated,
		Stats:     ind.Stats,
	}
}

// SetResult stores a rollout result as the cached score
func (ind *Individual) SetResult(stats env.RolloutStats) {
	ind.Stats = stats
	ind.Score = stats.Score
	ind.Evaluated = true
}

// Invalidate drops the cached score after the genome changed
func (ind *Individual) Invalidate() {
	ind.Score = 0
	ind.Evaluated = false
	ind.Stats = env.RolloutStats{}
}
