package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"walkerga/internal/physics"
)

// Config is the root configuration structure
type Config struct {
	Seed     int64          `yaml:"seed"`
	Sim      SimConfig      `yaml:"sim"`
	Physics  physics.Tuning `yaml:"physics"`
	Figure   FigureConfig   `yaml:"figure"`
	Obstacle ObstacleConfig `yaml:"obstacle"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	GA       GAConfig       `yaml:"ga"`
	Eval     EvalConfig     `yaml:"eval"`
	Logging  LogConfig      `yaml:"logging"`
}

// SimConfig defines rollout timing and the finish line
type SimConfig struct {
	Runtime        float64 `yaml:"runtime"`          // simulated seconds per rollout
	FPS            float64 `yaml:"fps"`              // physics steps per simulated second
	MovesPerSecond float64 `yaml:"moves_per_second"` // genome entries dispatched per second
	FinishX        float64 `yaml:"finish_x"`
	GroundY        float64 `yaml:"ground_y"`
	WallX          float64 `yaml:"wall_x"`
	WallHeight     float64 `yaml:"wall_height"`
}

// FigureConfig places the walker and sets its segment masses
type FigureConfig struct {
	Start      physics.Vec2 `yaml:"start"`
	CenterMass float64      `yaml:"center_mass"`
	LimbMass   float64      `yaml:"limb_mass"`
}

// ObstacleConfig describes the optional moving obstacle
type ObstacleConfig struct {
	Enabled         bool         `yaml:"enabled"`
	Size            physics.Vec2 `yaml:"size"`
	Start           physics.Vec2 `yaml:"start"`
	Velocity        physics.Vec2 `yaml:"velocity"`
	AngularVelocity float64      `yaml:"angular_velocity"`
}

// ScoringConfig selects the fitness strategy
type ScoringConfig struct {
	Mode          string  `yaml:"mode"` // distance|distance_overlap
	OverlapWeight float64 `yaml:"overlap_weight"`
}

// Scoring modes
const (
	ScoringDistance        = "distance"
	ScoringDistanceOverlap = "distance_overlap"
)

// GAConfig defines genetic algorithm parameters
type GAConfig struct {
	Population        int     `yaml:"population"`
	Generations       int     `yaml:"generations"`
	ElitismSize       float64 `yaml:"elitism_size"`   // fraction copied unchanged
	CrossoverSize     float64 `yaml:"crossover_size"` // fraction bred by crossover
	CrossoverRate     float64 `yaml:"crossover_rate"` // chance a gene comes from the fitter parent
	MutationRate      float64 `yaml:"mutation_rate"`  // per-gene redraw probability
	FreshFraction     float64 `yaml:"fresh_fraction"` // share of fill slots given brand new genomes
	Selection         string  `yaml:"selection"`      // rank|tournament
	TournamentK       int     `yaml:"tournament_k"`
	SelectionPressure float64 `yaml:"selection_pressure"` // linear ranking s in [1,2]
}

// Selection policies
const (
	SelectionRank       = "rank"
	SelectionTournament = "tournament"
)

// EvalConfig defines evaluation parameters
type EvalConfig struct {
	Workers   int `yaml:"workers"`
	CacheSize int `yaml:"cache_size"` // 0 unbounded, <0 disabled
}

// LogConfig defines logging and artifact parameters
type LogConfig struct {
	EveryGenSummary   bool   `yaml:"every_gen_summary"`
	TopNDebug         int    `yaml:"topn_debug"`
	OutDir            string `yaml:"out_dir"`
	SaveChampionEvery int    `yaml:"save_champion_every"`
	Chart             bool   `yaml:"chart"`
	MetricsAddr       string `yaml:"metrics_addr"`
}

// Load reads a YAML config file on top of the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes onto Default(). Keys present in data win, zero
// values included; missing keys keep their default.
func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	var set presence
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	derive(cfg, set)
	return cfg, nil
}

// Default returns the reference configuration
func Default() *Config {
	cfg := defaults()
	derive(cfg, presence{})
	return cfg
}

// WriteYAML writes the configuration to a YAML file
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// GenomeLength returns moves_per_second * runtime. Validate rejects
// products that are not whole; rounding only absorbs float error.
func (c *Config) GenomeLength() int {
	return int(math.Round(c.Sim.MovesPerSecond * c.Sim.Runtime))
}

// EliteCount returns ceil(elitism_size * population)
func (c *Config) EliteCount() int {
	return int(math.Ceil(c.GA.ElitismSize * float64(c.GA.Population)))
}

// CrossoverCount returns the number of crossover children bred per
// generation, capped so elites always fit
func (c *Config) CrossoverCount() int {
	n := int(math.Round(c.GA.CrossoverSize * float64(c.GA.Population)))
	if free := c.GA.Population - c.EliteCount(); n > free {
		n = free
	}
	if n < 0 {
		n = 0
	}
	return n
}

func defaults() *Config {
	return &Config{
		Seed: 1337,
		Sim: SimConfig{
			Runtime:        18,
			FPS:            30,
			MovesPerSecond: 3,
			FinishX:        950,
			GroundY:        50,
			WallX:          1000,
			WallHeight:     350,
		},
		Physics: physics.DefaultTuning(),
		Figure: FigureConfig{
			CenterMass: 0.05,
			LimbMass:   1.0,
		},
		Obstacle: ObstacleConfig{
			Size:     physics.Vec2{X: 40, Y: 40},
			Velocity: physics.Vec2{X: -15, Y: 0},
		},
		Scoring: ScoringConfig{
			OverlapWeight: 1.0,
		},
		GA: GAConfig{
			Population:        100,
			Generations:       50,
			ElitismSize:       0.1,
			CrossoverSize:     0.6,
			CrossoverRate:     0.5,
			MutationRate:      0.05,
			FreshFraction:     0.25,
			Selection:         SelectionRank,
			TournamentK:       3,
			SelectionPressure: 1.8,
		},
		Eval: EvalConfig{
			Workers: 1,
		},
		Logging: LogConfig{
			TopNDebug:         5,
			OutDir:            "runs",
			SaveChampionEvery: 10,
		},
	}
}

// presence records which keys with derived defaults a document sets
type presence struct {
	Figure struct {
		Start *physics.Vec2 `yaml:"start"`
	} `yaml:"figure"`
	Obstacle struct {
		Start *physics.Vec2 `yaml:"start"`
	} `yaml:"obstacle"`
	Scoring struct {
		Mode *string `yaml:"mode"`
	} `yaml:"scoring"`
}

// derive fills defaults that depend on other keys, unless set explicitly
func derive(cfg *Config, set presence) {
	if set.Figure.Start == nil {
		// limbs reach 30 units below the center segment's origin
		cfg.Figure.Start = physics.Vec2{X: 100, Y: cfg.Sim.GroundY + 31}
	}
	if set.Obstacle.Start == nil {
		cfg.Obstacle.Start = physics.Vec2{X: 600, Y: cfg.Sim.GroundY + 40}
	}
	if set.Scoring.Mode == nil {
		if cfg.Obstacle.Enabled {
			cfg.Scoring.Mode = ScoringDistanceOverlap
		} else {
			cfg.Scoring.Mode = ScoringDistance
		}
	}
}
