package ga

import (
	"math/rand"
	"strings"

	"walkerga/internal/env"
)

// Genome is a fixed-length action schedule, one entry per dispatch slot
type Genome []env.Action

// RandomGenome draws every position uniformly from the genome alphabet
func RandomGenome(size int, rng *rand.Rand) Genome {
	g := make(Genome, size)
	for i := range g {
		g[i] = env.RandomAction(rng)
	}
	return g
}

// Clone returns an independent copy
func (g Genome) Clone() Genome {
	c := make(Genome, len(g))
	copy(c, g)
	return c
}

// Key returns a compact string identifying the genome's content
func (g Genome) Key() string {
	b := make([]byte, len(g))
	for i, a := range g {
		b[i] = byte(a)
	}
	return string(b)
}

func (g Genome) String() string {
	parts := make([]string, len(g))
	for i, a := range g {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}
