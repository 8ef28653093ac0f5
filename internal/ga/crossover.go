package ga

import (
	"math/rand"
)

// BiasedCrossover builds one child gene by gene: each position comes from
// fitter with probability rate and from other otherwise
func BiasedCrossover(fitter, other Genome, rate float64, rng *rand.Rand) Genome {
	size := len(fitter)
	child := make(Genome, size)

	for i := 0; i < size; i++ {
		if rng.Float64() < rate {
			child[i] = fitter[i]
		} else {
			child[i] = other[i]
		}
	}

	return child
}

// CreateChild orders the parents by score and breeds an unevaluated child
func CreateChild(p1, p2 *Individual, rate float64, rng *rand.Rand) *Individual {
	fitter, other := p1, p2
	if p2.Score < p1.Score {
		fitter, other = p2, p1
	}
	return &Individual{Genome: BiasedCrossover(fitter.Genome, other.Genome, rate, rng)}
}
