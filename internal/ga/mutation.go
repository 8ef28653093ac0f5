package ga

import (
	"math/rand"

	"walkerga/internal/env"
)

// Mutate redraws each position with probability rate, in place. Returns
// how many positions were redrawn.
func Mutate(genome Genome, rate float64, rng *rand.Rand) int {
	n := 0
	for i := range genome {
		if rng.Float64() < rate {
			genome[i] = env.RandomAction(rng)
			n++
		}
	}
	return n
}

// MutatedCopy clones parent and mutates the copy, unevaluated. When no
// position was redrawn one is forced to a different action.
func MutatedCopy(parent *Individual, rate float64, rng *rand.Rand) *Individual {
	child := &Individual{Genome: parent.Genome.Clone()}
	if Mutate(child.Genome, rate, rng) == 0 && len(child.Genome) > 0 {
		i := rng.Intn(len(child.Genome))
		child.Genome[i] = otherAction(child.Genome[i], rng)
	}
	return child
}

func otherAction(a env.Action, rng *rand.Rand) env.Action {
	for {
		if b := env.RandomAction(rng); b != a {
			return b
		}
	}
}
