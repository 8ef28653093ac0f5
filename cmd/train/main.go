package main

import (
	"context"
	"errors"
	goflag "flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"walkerga/internal/config"
	"walkerga/internal/eval"
	"walkerga/internal/ga"
	"walkerga/internal/logging"
	"walkerga/internal/physics"
	"walkerga/internal/render"
)

type options struct {
	configPath  string
	generations int
	population  int
	seed        int64
	seedSet     bool
	workers     int
	outDir      string
	display     bool
	metricsAddr string
}

func main() {
	klog.InitFlags(nil)
	pflag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	var o options
	pflag.StringVar(&o.configPath, "config", "configs/default.yaml", "path to config file, empty for built-in defaults")
	pflag.IntVar(&o.generations, "generations", 0, "override ga.generations")
	pflag.IntVar(&o.population, "population", 0, "override ga.population")
	pflag.Int64Var(&o.seed, "seed", 0, "override seed")
	pflag.IntVar(&o.workers, "workers", 0, "override eval.workers")
	pflag.StringVar(&o.outDir, "out", "", "override logging.out_dir")
	pflag.BoolVar(&o.display, "display", false, "replay the champion in the terminal after training")
	pflag.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	pflag.Parse()
	o.seedSet = pflag.CommandLine.Changed("seed")
	defer klog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o); err != nil {
		klog.ErrorS(err, "Training failed")
		klog.Flush()
		os.Exit(1)
	}
}

func loadConfig(o options) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}

	if o.generations > 0 {
		cfg.GA.Generations = o.generations
	}
	if o.population > 0 {
		cfg.GA.Population = o.population
	}
	if o.seedSet {
		cfg.Seed = o.seed
	}
	if o.workers > 0 {
		cfg.Eval.Workers = o.workers
	}
	if o.outDir != "" {
		cfg.Logging.OutDir = o.outDir
	}
	if o.metricsAddr != "" {
		cfg.Logging.MetricsAddr = o.metricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, o options) error {
	cfg, err := loadConfig(o)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	runID, dir, err := logging.NewRunDir(cfg.Logging.OutDir)
	if err != nil {
		return err
	}
	if err := cfg.WriteYAML(filepath.Join(dir, "config.yaml")); err != nil {
		return err
	}

	metrics := logging.NewMetrics()
	if cfg.Logging.MetricsAddr != "" {
		metrics.Serve(ctx, cfg.Logging.MetricsAddr)
	}

	evaluator, err := eval.NewEvaluator(cfg, physics.Box2DFactory(cfg.Physics), metrics)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	engine, err := ga.NewEngine(cfg, cfg.GenomeLength(), evaluator, rng)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(dir)
	if err != nil {
		return err
	}
	defer logger.Close()

	klog.InfoS("Starting training",
		"run", runID,
		"dir", dir,
		"population", cfg.GA.Population,
		"generations", cfg.GA.Generations,
		"genomeLength", cfg.GenomeLength(),
		"elites", cfg.EliteCount(),
		"crossover", cfg.CrossoverCount(),
		"selection", cfg.GA.Selection,
		"scoring", cfg.Scoring.Mode,
		"workers", cfg.Eval.Workers)

	timing := evaluator.Timing().Replay()
	bestGen := 0
	bestScore := 0.0

	engine.OnGeneration = func(r ga.GenerationReport) {
		if bestGen == 0 || r.Best.Score < bestScore {
			bestGen, bestScore = r.Generation, r.Best.Score
		}

		summary := logging.Summarize(r.Generation, r.Population, r.Best.Score)
		metrics.ObserveGeneration(r.Generation, r.Best.Score, summary.MeanScore)
		if cfg.Logging.EveryGenSummary || r.Generation == cfg.GA.Generations {
			if err := logger.LogGeneration(summary); err != nil {
				klog.ErrorS(err, "Failed to log generation", "gen", r.Generation)
			}
		} else {
			klog.V(1).InfoS("Generation", "gen", r.Generation, "best", r.Record.Best, "globalBest", r.Best.Score)
		}

		if cfg.Logging.TopNDebug > 0 && r.Generation%10 == 0 {
			logging.LogTopK(r.Population.Individuals, cfg.Logging.TopNDebug)
		}

		if cfg.Logging.SaveChampionEvery > 0 && r.Generation%cfg.Logging.SaveChampionEvery == 0 {
			path := filepath.Join(dir, fmt.Sprintf("champion_gen%d.json", r.Generation))
			if err := logging.SaveChampion(path, logging.NewChampion(runID, r.Best, bestGen, timing)); err != nil {
				klog.ErrorS(err, "Failed to save champion", "path", path)
			}
		}
	}

	start := time.Now()
	best, runErr := engine.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if best == nil {
		return fmt.Errorf("no generation completed: %w", runErr)
	}
	if runErr != nil {
		klog.InfoS("Training interrupted, saving best so far", "generation", bestGen)
	}

	klog.InfoS("Training complete",
		"generations", len(engine.History()),
		"elapsed", time.Since(start).Round(time.Millisecond),
		"rollouts", humanize.Comma(metrics.RolloutCount()),
		"cached", humanize.Comma(int64(evaluator.CacheLen())),
		"bestScore", best.Score,
		"bestGeneration", bestGen,
		"outcome", best.Stats.Outcome.String())

	if err := logging.SaveChampion(filepath.Join(dir, "champion_final.json"), logging.NewChampion(runID, best, bestGen, timing)); err != nil {
		return err
	}
	replay := evaluator.Replay(best.Genome, render.GenerationLabel(bestGen))
	if err := replay.Save(filepath.Join(dir, "replay_final.json")); err != nil {
		return err
	}
	if cfg.Logging.Chart {
		if err := logging.WriteChart(filepath.Join(dir, "history.html"), engine.History()); err != nil {
			klog.ErrorS(err, "Failed to write chart")
		}
	}

	if o.display && ctx.Err() == nil {
		display := render.NewDisplay(evaluator, bestGen)
		stats, err := render.PlayInTerminal(ctx, display, best.Genome, 1)
		if err != nil {
			return err
		}
		klog.InfoS("Replay finished", "score", int(stats.Score))
	}
	return nil
}
