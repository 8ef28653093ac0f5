package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig marks parameter combinations rejected before any rollout
var ErrInvalidConfig = errors.New("invalid configuration")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func checkFraction(name string, v float64) error {
	if v < 0 || v > 1 {
		return invalid("%s must be within [0,1], got %v", name, v)
	}
	return nil
}

// Validate reports the first malformed parameter. Callers must run it
// before building an engine.
func (c *Config) Validate() error {
	if c.Sim.Runtime <= 0 {
		return invalid("sim.runtime must be positive, got %v", c.Sim.Runtime)
	}
	if c.Sim.FPS <= 0 {
		return invalid("sim.fps must be positive, got %v", c.Sim.FPS)
	}
	if c.Sim.MovesPerSecond <= 0 {
		return invalid("sim.moves_per_second must be positive, got %v", c.Sim.MovesPerSecond)
	}
	if moves := c.Sim.MovesPerSecond * c.Sim.Runtime; math.Abs(moves-math.Round(moves)) > 1e-9 {
		return invalid("moves_per_second*runtime must be a whole number of actions, got %v", moves)
	}
	if n := c.GenomeLength(); n <= 0 {
		return invalid("genome length moves_per_second*runtime must be positive, got %d", n)
	}
	if c.Physics.UnitsPerMeter <= 0 {
		return invalid("physics.units_per_meter must be positive, got %v", c.Physics.UnitsPerMeter)
	}
	if c.Physics.MaxMotorTorque < 0 {
		return invalid("physics.max_motor_torque must not be negative, got %v", c.Physics.MaxMotorTorque)
	}
	if c.Figure.CenterMass <= 0 || c.Figure.LimbMass <= 0 {
		return invalid("figure masses must be positive, got center=%v limb=%v", c.Figure.CenterMass, c.Figure.LimbMass)
	}
	if c.Obstacle.Enabled && (c.Obstacle.Size.X <= 0 || c.Obstacle.Size.Y <= 0) {
		return invalid("obstacle.size must be positive, got %+v", c.Obstacle.Size)
	}

	switch c.Scoring.Mode {
	case ScoringDistance, ScoringDistanceOverlap:
	default:
		return invalid("unknown scoring.mode %q", c.Scoring.Mode)
	}
	if c.Scoring.OverlapWeight < 0 {
		return invalid("scoring.overlap_weight must not be negative, got %v", c.Scoring.OverlapWeight)
	}

	if c.GA.Population <= 0 {
		return invalid("ga.population must be positive, got %d", c.GA.Population)
	}
	if c.GA.Generations <= 0 {
		return invalid("ga.generations must be positive, got %d", c.GA.Generations)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"ga.elitism_size", c.GA.ElitismSize},
		{"ga.crossover_size", c.GA.CrossoverSize},
		{"ga.crossover_rate", c.GA.CrossoverRate},
		{"ga.mutation_rate", c.GA.MutationRate},
		{"ga.fresh_fraction", c.GA.FreshFraction},
	} {
		if err := checkFraction(f.name, f.v); err != nil {
			return err
		}
	}
	if c.GA.ElitismSize+c.GA.CrossoverSize > 1 {
		return invalid("ga.elitism_size + ga.crossover_size must not exceed 1, got %v",
			c.GA.ElitismSize+c.GA.CrossoverSize)
	}
	switch c.GA.Selection {
	case SelectionRank:
		if c.GA.SelectionPressure < 1 || c.GA.SelectionPressure > 2 {
			return invalid("ga.selection_pressure must be within [1,2], got %v", c.GA.SelectionPressure)
		}
	case SelectionTournament:
		if c.GA.TournamentK < 1 {
			return invalid("ga.tournament_k must be at least 1, got %d", c.GA.TournamentK)
		}
	default:
		return invalid("unknown ga.selection %q", c.GA.Selection)
	}

	if c.Eval.Workers < 1 {
		return invalid("eval.workers must be at least 1, got %d", c.Eval.Workers)
	}
	return nil
}
