package ga

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"walkerga/internal/config"
)

// State is the engine's lifecycle phase
type State int

const (
	StateInit State = iota
	StateEvaluate
	StateBreed
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateEvaluate:
		return "evaluate"
	case StateBreed:
		return "breed"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Evaluator scores every unevaluated individual of a population in place
type Evaluator interface {
	EvaluatePopulation(ctx context.Context, pop *Population) error
}

// GenerationRecord is one entry of the engine's history
type GenerationRecord struct {
	Generation int
	Best       float64 // best score of this generation
	Mean       float64
	Worst      float64
	GlobalBest float64 // best score seen so far
}

// GenerationReport is handed to the OnGeneration hook after each
// evaluation, with the population sorted best-first
type GenerationReport struct {
	Generation int
	Population *Population
	Best       *Individual // global best so far
	Record     GenerationRecord
}

// Engine runs the evaluate/breed cycle for a fixed number of generations
type Engine struct {
	cfg       config.GAConfig
	genomeLen int
	elites    int
	crossover int
	selector  Selector
	evaluator Evaluator
	rng       *rand.Rand

	state   State
	pop     *Population
	best    *Individual
	history []GenerationRecord

	// OnGeneration runs synchronously after every evaluated generation
	OnGeneration func(GenerationReport)
}

// NewEngine validates cfg and builds an engine. No rollout is run here, so a
// malformed configuration never reaches the evaluator.
func NewEngine(cfg *config.Config, genomeLen int, evaluator Evaluator, rng *rand.Rand) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if genomeLen <= 0 {
		return nil, fmt.Errorf("%w: genome length must be positive, got %d", config.ErrInvalidConfig, genomeLen)
	}
	if evaluator == nil {
		return nil, errors.New("nil evaluator")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}

	return &Engine{
		cfg:       cfg.GA,
		genomeLen: genomeLen,
		elites:    cfg.EliteCount(),
		crossover: cfg.CrossoverCount(),
		selector:  NewSelector(cfg.GA),
		evaluator: evaluator,
		rng:       rng,
		state:     StateInit,
	}, nil
}

// State returns the current lifecycle phase
func (e *Engine) State() State {
	return e.state
}

// Best returns the best individual seen in any generation, or nil before
// the first evaluation
func (e *Engine) Best() *Individual {
	return e.best
}

// Population returns the current population
func (e *Engine) Population() *Population {
	return e.pop
}

// History returns one record per evaluated generation
func (e *Engine) History() []GenerationRecord {
	return e.history
}

// Run executes every generation and returns the global best. The context is
// checked between generations and handed to the evaluator.
func (e *Engine) Run(ctx context.Context) (*Individual, error) {
	if e.state == StateDone {
		return e.best, nil
	}

	e.pop = NewPopulation(e.cfg.Population, e.genomeLen, e.rng)

	for gen := 1; gen <= e.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return e.best, err
		}

		e.state = StateEvaluate
		if err := e.evaluator.EvaluatePopulation(ctx, e.pop); err != nil {
			return e.best, fmt.Errorf("evaluating generation %d: %w", gen, err)
		}
		if left := len(e.pop.Unevaluated()); left > 0 {
			return e.best, fmt.Errorf("generation %d: %d individuals left unevaluated", gen, left)
		}
		e.pop.SortByScore()

		e.track(e.pop.Individuals[0])
		record := e.record(gen)
		e.history = append(e.history, record)

		if e.OnGeneration != nil {
			e.OnGeneration(GenerationReport{
				Generation: gen,
				Population: e.pop,
				Best:       e.best,
				Record:     record,
			})
		}

		if gen < e.cfg.Generations {
			e.state = StateBreed
			e.pop.Individuals = e.breed(e.pop.Individuals)
		}
	}

	e.state = StateDone
	return e.best, nil
}

// track replaces the global best only on strict improvement
func (e *Engine) track(candidate *Individual) {
	if e.best == nil || candidate.Score < e.best.Score {
		e.best = candidate.Clone()
	}
}

func (e *Engine) record(gen int) GenerationRecord {
	scores := e.pop.Scores()
	return GenerationRecord{
		Generation: gen,
		Best:       floats.Min(scores),
		Mean:       stat.Mean(scores, nil),
		Worst:      floats.Max(scores),
		GlobalBest: e.best.Score,
	}
}

// breed builds the next generation from a population sorted best-first
func (e *Engine) breed(ranked []*Individual) []*Individual {
	n := e.cfg.Population
	next := make([]*Individual, 0, n)

	// elites keep their cached score
	for i := 0; i < e.elites && i < len(ranked); i++ {
		next = append(next, ranked[i].Clone())
	}

	for i := 0; i < e.crossover && len(next) < n; i++ {
		p1, p2 := SelectParents(e.selector, ranked, e.rng)
		next = append(next, CreateChild(p1, p2, e.cfg.CrossoverRate, e.rng))
	}

	for len(next) < n {
		if e.rng.Float64() < e.cfg.FreshFraction {
			next = append(next, &Individual{Genome: RandomGenome(e.genomeLen, e.rng)})
			continue
		}
		parent := e.selector.Select(ranked, e.rng)
		next = append(next, MutatedCopy(parent, e.cfg.MutationRate, e.rng))
	}

	return next
}
