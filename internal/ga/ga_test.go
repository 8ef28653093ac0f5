package ga

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkerga/internal/config"
	"walkerga/internal/env"
)

// countingEvaluator scores a genome by how many positions differ from
// all-LeftUp, so the optimum is zero
type countingEvaluator struct {
	calls int
}

func (c *countingEvaluator) EvaluatePopulation(ctx context.Context, pop *Population) error {
	for _, ind := range pop.Unevaluated() {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.calls++
		var miss float64
		for _, a := range ind.Genome {
			if a != env.ActionLeftUp {
				miss++
			}
		}
		ind.SetResult(env.RolloutStats{Score: miss, Distance: miss, Outcome: env.OutcomeTimeUp})
	}
	return nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.GA.Population = 20
	cfg.GA.Generations = 15
	return cfg
}

func TestRandomGenome(t *testing.T) {
	g := RandomGenome(54, rand.New(rand.NewSource(1)))
	require.Len(t, g, 54)
	for _, a := range g {
		assert.Contains(t, env.GenomeAlphabet, a)
	}

	c := g.Clone()
	assert.True(t, slices.Equal(g, c))
	assert.Equal(t, g.Key(), c.Key())
	c[0] = env.ActionRightDown
	if g[0] == env.ActionRightDown {
		c[0] = env.ActionLeftUp
	}
	assert.False(t, slices.Equal(g, c))
	assert.NotEqual(t, g.Key(), c.Key())
}

func TestSortByScoreAscending(t *testing.T) {
	pop := &Population{Individuals: []*Individual{
		{Score: 3}, {Score: -1}, {Score: 2}, {Score: -1},
	}}
	first := pop.Individuals[1]
	pop.SortByScore()

	assert.Equal(t, []float64{-1, -1, 2, 3}, pop.Scores())
	assert.Same(t, first, pop.Individuals[0], "ties keep their order")
	assert.Equal(t, -1.0, pop.Best().Score)
	assert.Len(t, pop.TopK(10), 4)
}

func TestIndividualCloneAndInvalidate(t *testing.T) {
	ind := &Individual{Genome: Genome{env.ActionLeftUp}}
	ind.SetResult(env.RolloutStats{Score: 4})

	c := ind.Clone()
	assert.True(t, c.Evaluated)
	assert.Equal(t, 4.0, c.Score)
	c.Genome[0] = env.ActionRightUp
	assert.Equal(t, env.ActionLeftUp, ind.Genome[0])

	c.Invalidate()
	assert.False(t, c.Evaluated)
	assert.Zero(t, c.Score)
}

func TestBiasedCrossover(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	fitter := Genome{env.ActionLeftUp, env.ActionLeftUp, env.ActionLeftUp, env.ActionLeftUp}
	other := Genome{env.ActionRightDown, env.ActionRightDown, env.ActionRightDown, env.ActionRightDown}

	assert.Equal(t, fitter, BiasedCrossover(fitter, other, 1, rng))
	assert.Equal(t, other, BiasedCrossover(fitter, other, 0, rng))

	child := BiasedCrossover(fitter, other, 0.5, rng)
	for i := range child {
		assert.True(t, child[i] == fitter[i] || child[i] == other[i])
	}
}

func TestCreateChildFavoursLowerScore(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	good := &Individual{Genome: Genome{env.ActionLeftUp, env.ActionLeftUp}, Score: 1, Evaluated: true}
	bad := &Individual{Genome: Genome{env.ActionRightUp, env.ActionRightUp}, Score: 9, Evaluated: true}

	child := CreateChild(bad, good, 1, rng)
	assert.Equal(t, good.Genome, child.Genome)
	assert.False(t, child.Evaluated)
}

func TestMutate(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	g := RandomGenome(100, rng)
	orig := g.Clone()

	assert.Zero(t, Mutate(g, 0, rng))
	assert.Equal(t, orig, g)
	assert.Equal(t, 100, Mutate(g, 1, rng))
}

func TestMutatedCopyAlwaysChanges(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	parent := &Individual{Genome: RandomGenome(30, rng), Score: 2, Evaluated: true}

	child := MutatedCopy(parent, 0, rng)
	assert.False(t, child.Evaluated)

	diff := 0
	for i := range child.Genome {
		if child.Genome[i] != parent.Genome[i] {
			diff++
		}
	}
	assert.Equal(t, 1, diff)
}

func TestRankSelectorWeights(t *testing.T) {
	rs := RankSelector{Pressure: 1.8}
	n := 10
	var sum float64
	for r := 0; r < n; r++ {
		sum += rs.Weight(r, n)
	}
	assert.InDelta(t, float64(n), sum, 1e-9)
	assert.InDelta(t, 1.8, rs.Weight(0, n), 1e-12)
	assert.InDelta(t, 0.2, rs.Weight(n-1, n), 1e-12)
	assert.Equal(t, 1.0, RankSelector{Pressure: 1}.Weight(3, n))
}

func TestSelectorsPreferBetterRanks(t *testing.T) {
	ranked := make([]*Individual, 10)
	for i := range ranked {
		ranked[i] = &Individual{Score: float64(i)}
	}

	for _, sel := range []Selector{RankSelector{Pressure: 2}, TournamentSelector{K: 3}} {
		rng := rand.New(rand.NewSource(6))
		counts := make(map[*Individual]int)
		for i := 0; i < 5000; i++ {
			counts[sel.Select(ranked, rng)]++
		}
		assert.Greater(t, counts[ranked[0]], counts[ranked[9]], "%T", sel)
	}

	assert.Nil(t, RankSelector{Pressure: 1.5}.Select(nil, rand.New(rand.NewSource(1))))
	assert.Nil(t, TournamentSelector{K: 2}.Select(nil, rand.New(rand.NewSource(1))))
}

func TestNewSelector(t *testing.T) {
	cfg := config.Default().GA
	assert.Equal(t, RankSelector{Pressure: cfg.SelectionPressure}, NewSelector(cfg))
	cfg.Selection = config.SelectionTournament
	assert.Equal(t, TournamentSelector{K: cfg.TournamentK}, NewSelector(cfg))
}

func TestNewEngineFailsFast(t *testing.T) {
	cfg := testConfig()
	cfg.GA.MutationRate = 2
	ev := &countingEvaluator{}

	_, err := NewEngine(cfg, cfg.GenomeLength(), ev, nil)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))

	_, err = NewEngine(testConfig(), 0, ev, nil)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
	assert.Zero(t, ev.calls)
}

func TestEngineInvariants(t *testing.T) {
	cfg := testConfig()
	ev := &countingEvaluator{}
	engine, err := NewEngine(cfg, cfg.GenomeLength(), ev, rand.New(rand.NewSource(cfg.Seed)))
	require.NoError(t, err)
	assert.Equal(t, StateInit, engine.State())

	elites := cfg.EliteCount()
	var prevElites []*Individual
	generations := 0

	engine.OnGeneration = func(r GenerationReport) {
		generations++
		assert.Equal(t, StateEvaluate, engine.State())
		require.Equal(t, cfg.GA.Population, r.Population.Size())
		for _, ind := range r.Population.Individuals {
			assert.Len(t, ind.Genome, cfg.GenomeLength())
			assert.True(t, ind.Evaluated)
		}

		// last generation's elites survive with their scores
		keys := make(map[string]float64)
		for _, ind := range r.Population.Individuals {
			keys[ind.Genome.Key()] = ind.Score
		}
		for _, e := range prevElites {
			score, ok := keys[e.Genome.Key()]
			if assert.True(t, ok, "elite lost in generation %d", r.Generation) {
				assert.Equal(t, e.Score, score)
			}
		}
		prevElites = nil
		for _, ind := range r.Population.Individuals[:elites] {
			prevElites = append(prevElites, ind.Clone())
		}

		assert.LessOrEqual(t, r.Best.Score, r.Population.Individuals[0].Score)
	}

	best, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, engine.State())
	assert.Equal(t, cfg.GA.Generations, generations)

	history := engine.History()
	require.Len(t, history, cfg.GA.Generations)
	for i, rec := range history {
		assert.Equal(t, i+1, rec.Generation)
		assert.LessOrEqual(t, rec.GlobalBest, rec.Best)
		assert.LessOrEqual(t, rec.Best, rec.Mean)
		assert.LessOrEqual(t, rec.Mean, rec.Worst)
		if i > 0 {
			assert.LessOrEqual(t, rec.GlobalBest, history[i-1].GlobalBest, "global best regressed")
		}
	}
	assert.Equal(t, history[len(history)-1].GlobalBest, best.Score)
	assert.Same(t, best, engine.Best())

	// elites are never re-scored
	maxCalls := cfg.GA.Population + (cfg.GA.Generations-1)*(cfg.GA.Population-elites)
	assert.Equal(t, maxCalls, ev.calls)
}

func TestEngineImproves(t *testing.T) {
	cfg := testConfig()
	cfg.GA.Population = 40
	cfg.GA.Generations = 40
	engine, err := NewEngine(cfg, cfg.GenomeLength(), &countingEvaluator{}, rand.New(rand.NewSource(cfg.Seed)))
	require.NoError(t, err)

	best, err := engine.Run(context.Background())
	require.NoError(t, err)
	history := engine.History()
	assert.Less(t, best.Score, history[0].Best)
}

func TestEngineDeterministic(t *testing.T) {
	run := func() (Genome, []GenerationRecord) {
		cfg := testConfig()
		engine, err := NewEngine(cfg, cfg.GenomeLength(), &countingEvaluator{}, rand.New(rand.NewSource(42)))
		require.NoError(t, err)
		best, err := engine.Run(context.Background())
		require.NoError(t, err)
		return best.Genome, engine.History()
	}

	g1, h1 := run()
	g2, h2 := run()
	assert.Equal(t, g1, g2)
	if diff := cmp.Diff(h1, h2); diff != "" {
		t.Errorf("history differs between identical runs (-first +second):\n%s", diff)
	}
}

func TestEngineTournamentSelection(t *testing.T) {
	cfg := testConfig()
	cfg.GA.Selection = config.SelectionTournament
	engine, err := NewEngine(cfg, cfg.GenomeLength(), &countingEvaluator{}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	_, err = engine.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, engine.History(), cfg.GA.Generations)
}

func TestEngineStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	ev := &countingEvaluator{}
	engine, err := NewEngine(cfg, cfg.GenomeLength(), ev, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	engine.OnGeneration = func(r GenerationReport) {
		if r.Generation == 3 {
			cancel()
		}
	}

	best, err := engine.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, best)
	assert.Len(t, engine.History(), 3)
}
