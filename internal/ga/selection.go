package ga

import (
	"math/rand"

	"walkerga/internal/config"
)

// Selector picks one parent from a population sorted best-first
type Selector interface {
	Select(ranked []*Individual, rng *rand.Rand) *Individual
}

// TournamentSelector samples K individuals and keeps the lowest score
type TournamentSelector struct {
	K int
}

// Select implements Selector
func (ts TournamentSelector) Select(ranked []*Individual, rng *rand.Rand) *Individual {
	if len(ranked) == 0 {
		return nil
	}
	k := ts.K
	if k > len(ranked) {
		k = len(ranked)
	}

	best := ranked[rng.Intn(len(ranked))]
	for i := 1; i < k; i++ {
		candidate := ranked[rng.Intn(len(ranked))]
		if candidate.Score < best.Score {
			best = candidate
		}
	}
	return best
}

// RankSelector implements linear ranking. With pressure s in [1,2] the best
// of n individuals is drawn with weight s and the worst with 2-s; s=1 is
// uniform. Only rank matters, so raw score scale and sign never bias it.
type RankSelector struct {
	Pressure float64
}

// Weight returns the unnormalized selection weight of rank r (0 = best)
func (rs RankSelector) Weight(r, n int) float64 {
	if n <= 1 {
		return 1
	}
	s := rs.Pressure
	return s - (2*s-2)*float64(r)/float64(n-1)
}

// Select implements Selector
func (rs RankSelector) Select(ranked []*Individual, rng *rand.Rand) *Individual {
	n := len(ranked)
	if n == 0 {
		return nil
	}
	// weights sum to n by construction
	spin := rng.Float64() * float64(n)
	var cum float64
	for r := 0; r < n; r++ {
		cum += rs.Weight(r, n)
		if spin < cum {
			return ranked[r]
		}
	}
	return ranked[n-1]
}

// SelectParents draws two parents from the ranked population
func SelectParents(sel Selector, ranked []*Individual, rng *rand.Rand) (*Individual, *Individual) {
	p1 := sel.Select(ranked, rng)
	p2 := sel.Select(ranked, rng)
	return p1, p2
}

// NewSelector builds the selector named by cfg.GA.Selection
func NewSelector(cfg config.GAConfig) Selector {
	if cfg.Selection == config.SelectionTournament {
		return TournamentSelector{K: cfg.TournamentK}
	}
	return RankSelector{Pressure: cfg.SelectionPressure}
}
