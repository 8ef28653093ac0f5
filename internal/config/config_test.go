package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkerga/internal/physics"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 54, cfg.GenomeLength())
	assert.Equal(t, 10, cfg.EliteCount())
	assert.Equal(t, 60, cfg.CrossoverCount())
	assert.Equal(t, ScoringDistance, cfg.Scoring.Mode)
	assert.Equal(t, SelectionRank, cfg.GA.Selection)
	assert.Equal(t, 1, cfg.Eval.Workers)
}

func TestParseOverridesAndDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
seed: 7
sim:
  runtime: 10
  moves_per_second: 2
obstacle:
  enabled: true
ga:
  population: 30
  elitism_size: 0.05
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 20, cfg.GenomeLength())
	assert.Equal(t, 30.0, cfg.Sim.FPS)
	// obstacle runs default to the overlap-aware scorer
	assert.Equal(t, ScoringDistanceOverlap, cfg.Scoring.Mode)
	// ceil(0.05 * 30)
	assert.Equal(t, 2, cfg.EliteCount())
}

func TestParseKeepsExplicitZeros(t *testing.T) {
	cfg, err := Parse([]byte(`
seed: 0
physics:
  gravity: {x: 0, y: 0}
ga:
  elitism_size: 0
  mutation_rate: 0
  fresh_fraction: 0
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(0), cfg.Seed)
	assert.Equal(t, physics.Vec2{}, cfg.Physics.Gravity)
	assert.Equal(t, 0.0, cfg.GA.ElitismSize)
	assert.Equal(t, 0.0, cfg.GA.MutationRate)
	assert.Equal(t, 0.0, cfg.GA.FreshFraction)
	assert.Equal(t, 0, cfg.EliteCount())

	// untouched keys keep their defaults
	def := Default()
	assert.Equal(t, def.Physics.MotorRate, cfg.Physics.MotorRate)
	assert.Equal(t, def.GA.CrossoverSize, cfg.GA.CrossoverSize)
	assert.Equal(t, def.Figure.Start, cfg.Figure.Start)
}

func TestParseDerivesDependentDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
sim:
  ground_y: 100
obstacle:
  enabled: true
  start: {x: 400, y: 150}
scoring:
  mode: distance
`))
	require.NoError(t, err)

	assert.Equal(t, physics.Vec2{X: 100, Y: 131}, cfg.Figure.Start)
	assert.Equal(t, physics.Vec2{X: 400, Y: 150}, cfg.Obstacle.Start)
	// an explicit mode wins over the obstacle-driven default
	assert.Equal(t, ScoringDistance, cfg.Scoring.Mode)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("ga: [unterminated"))
	assert.Error(t, err)
}

func TestCrossoverCountCapped(t *testing.T) {
	cfg := Default()
	cfg.GA.Population = 10
	cfg.GA.ElitismSize = 0.15 // ceil -> 2
	cfg.GA.CrossoverSize = 0.85
	assert.Equal(t, 2, cfg.EliteCount())
	assert.Equal(t, 8, cfg.CrossoverCount())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero population", func(c *Config) { c.GA.Population = 0 }},
		{"negative generations", func(c *Config) { c.GA.Generations = -1 }},
		{"zero runtime", func(c *Config) { c.Sim.Runtime = 0 }},
		{"negative fps", func(c *Config) { c.Sim.FPS = -30 }},
		{"empty genome", func(c *Config) { c.Sim.MovesPerSecond = 0.01; c.Sim.Runtime = 1 }},
		{"mutation rate above one", func(c *Config) { c.GA.MutationRate = 1.5 }},
		{"negative crossover rate", func(c *Config) { c.GA.CrossoverRate = -0.1 }},
		{"elitism plus crossover above one", func(c *Config) { c.GA.ElitismSize = 0.5; c.GA.CrossoverSize = 0.6 }},
		{"unknown scoring", func(c *Config) { c.Scoring.Mode = "speed" }},
		{"unknown selection", func(c *Config) { c.GA.Selection = "roulette" }},
		{"pressure out of range", func(c *Config) { c.GA.SelectionPressure = 2.5 }},
		{"tournament without k", func(c *Config) { c.GA.Selection = SelectionTournament; c.GA.TournamentK = 0 }},
		{"zero units per meter", func(c *Config) { c.Physics.UnitsPerMeter = 0 }},
		{"zero limb mass", func(c *Config) { c.Figure.LimbMass = 0 }},
		{"flat obstacle", func(c *Config) { c.Obstacle.Enabled = true; c.Obstacle.Size.Y = 0 }},
		{"zero workers", func(c *Config) { c.Eval.Workers = 0 }},
		{"fractional genome length", func(c *Config) { c.Sim.MovesPerSecond = 2.5; c.Sim.Runtime = 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Obstacle.Enabled = true
	cfg.Scoring.Mode = ScoringDistanceOverlap
	cfg.GA.Selection = SelectionTournament
	cfg.Logging.MetricsAddr = ":9090"

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("config changed after round trip (-want +got):\n%s", diff)
	}
}
