package eval

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sourcegraph/conc/pool"
	"k8s.io/klog/v2"

	"walkerga/internal/config"
	"walkerga/internal/env"
	"walkerga/internal/ga"
	"walkerga/internal/logging"
	"walkerga/internal/physics"
)

// Evaluator scores genomes against one fixed configuration
type Evaluator struct {
	timing      Timing
	scorer      Scorer
	newUniverse env.UniverseFactory
	workers     int
	memo        *cache.Cache
	memoLimit   int
	metrics     *logging.Metrics
}

// NewEvaluator creates a new evaluator. metrics may be nil.
func NewEvaluator(cfg *config.Config, newWorld physics.Factory, metrics *logging.Metrics) (*Evaluator, error) {
	scorer, err := NewScorer(cfg.Scoring)
	if err != nil {
		return nil, err
	}
	if newWorld == nil {
		return nil, fmt.Errorf("nil physics factory")
	}

	workers := cfg.Eval.Workers
	if workers <= 0 {
		workers = 1
	}

	e := &Evaluator{
		timing:      TimingFrom(cfg),
		scorer:      scorer,
		newUniverse: env.NewUniverseFactory(cfg, newWorld),
		workers:     workers,
		memoLimit:   cfg.Eval.CacheSize,
		metrics:     metrics,
	}
	if cfg.Eval.CacheSize >= 0 {
		e.memo = cache.New(cache.NoExpiration, 0)
	}
	return e, nil
}

// Timing returns the rollout clock
func (e *Evaluator) Timing() Timing { return e.timing }

// Scorer returns the scoring strategy
func (e *Evaluator) Scorer() Scorer { return e.scorer }

// UniverseFactory returns the factory every rollout starts from
func (e *Evaluator) UniverseFactory() env.UniverseFactory { return e.newUniverse }

// EvaluateGenome runs one rollout, or returns the memoized result for a
// genome already scored. Rollouts are deterministic so the memo is exact.
func (e *Evaluator) EvaluateGenome(g ga.Genome) env.RolloutStats {
	key := g.Key()
	if e.memo != nil {
		if v, ok := e.memo.Get(key); ok {
			e.metrics.ObserveCacheHit()
			return v.(env.RolloutStats)
		}
	}

	start := time.Now()
	stats := Rollout(g, e.newUniverse, e.timing, e.scorer, nil)
	e.metrics.ObserveRollout(time.Since(start), stats.Diverged())
	if stats.Diverged() {
		klog.V(2).InfoS("Rollout diverged", "steps", stats.Steps, "simTime", stats.SimTime)
	}

	if e.memo != nil && (e.memoLimit == 0 || e.memo.ItemCount() < e.memoLimit) {
		e.memo.Set(key, stats, cache.NoExpiration)
	}
	return stats
}

// EvaluatePopulation scores every unevaluated individual in place. Each
// rollout owns its universe and writes only its own individual.
func (e *Evaluator) EvaluatePopulation(ctx context.Context, pop *ga.Population) error {
	pending := pop.Unevaluated()

	if e.workers <= 1 {
		for _, ind := range pending {
			if err := ctx.Err(); err != nil {
				return err
			}
			ind.SetResult(e.EvaluateGenome(ind.Genome))
		}
		return nil
	}

	p := pool.New().WithMaxGoroutines(e.workers)
	for _, ind := range pending {
		ind := ind
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			ind.SetResult(e.EvaluateGenome(ind.Genome))
		})
	}
	p.Wait()
	return ctx.Err()
}

// Replay re-runs a genome and records the actions it dispatched
func (e *Evaluator) Replay(g ga.Genome, label string) *env.Replay {
	stats := Rollout(g, e.newUniverse, e.timing, e.scorer, nil)
	replay := env.NewReplay(label, e.timing.Replay())
	for _, a := range g[:stats.Actions] {
		replay.Record(a)
	}
	replay.SetFinalStats(stats)
	return replay
}

// CacheLen returns the number of memoized genomes
func (e *Evaluator) CacheLen() int {
	if e.memo == nil {
		return 0
	}
	return e.memo.ItemCount()
}
