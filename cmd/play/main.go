package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"walkerga/internal/config"
	"walkerga/internal/env"
	"walkerga/internal/eval"
	"walkerga/internal/logging"
	"walkerga/internal/physics"
	"walkerga/internal/render"
)

type options struct {
	configPath   string
	championPath string
	noDisplay    bool
	speed        float64
	pngPath      string
	plotPath     string
	sound        bool
}

func main() {
	klog.InitFlags(nil)
	pflag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	var o options
	pflag.StringVar(&o.configPath, "config", "configs/default.yaml", "path to config file, empty for built-in defaults")
	pflag.StringVar(&o.championPath, "champion", "", "path to champion JSON (required)")
	pflag.BoolVar(&o.noDisplay, "no-display", false, "run without display, just print stats")
	pflag.Float64Var(&o.speed, "speed", 1, "playback speed relative to real time, 0 for as fast as possible")
	pflag.StringVar(&o.pngPath, "png", "", "save the final frame as a PNG")
	pflag.StringVar(&o.plotPath, "plot", "", "save the trajectory plot (png, svg or pdf)")
	pflag.BoolVar(&o.sound, "sound", false, "play a cue when the replay ends")
	pflag.Parse()
	defer klog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o); err != nil {
		klog.ErrorS(err, "Playback failed")
		klog.Flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	if o.championPath == "" {
		return fmt.Errorf("--champion is required")
	}

	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return err
		}
	}

	champion, err := logging.LoadChampion(o.championPath)
	if err != nil {
		return fmt.Errorf("loading champion: %w", err)
	}
	// replay on the clock the champion was scored with
	if champion.Timing.FPS > 0 {
		cfg.Sim.Runtime = champion.Timing.Runtime
		cfg.Sim.FPS = champion.Timing.FPS
		cfg.Sim.MovesPerSecond = champion.Timing.MovesPerSecond
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if n := cfg.GenomeLength(); n != len(champion.Genome) {
		klog.InfoS("Champion length differs from configured genome length", "champion", len(champion.Genome), "config", n)
	}

	evaluator, err := eval.NewEvaluator(cfg, physics.Box2DFactory(cfg.Physics), nil)
	if err != nil {
		return err
	}

	klog.InfoS("Loaded champion",
		"generation", champion.Generation,
		"score", champion.Score,
		"actions", len(champion.Genome))

	display := render.NewDisplay(evaluator, champion.Generation)
	trajectory := &render.Trajectory{}

	var stats env.RolloutStats
	if o.noDisplay {
		stats = display.Run(champion.Genome, trajectory.Frame)
	} else {
		stats, err = render.PlayInTerminal(ctx, display, champion.Genome, o.speed, trajectory.Frame)
		if err != nil {
			return err
		}
	}

	if o.pngPath != "" {
		if err := render.SavePNG(o.pngPath, trajectory.Last, 1000, 400); err != nil {
			return fmt.Errorf("saving png: %w", err)
		}
	}
	if o.plotPath != "" {
		if err := render.PlotTrajectory(o.plotPath, display.Label(), trajectory); err != nil {
			return fmt.Errorf("saving plot: %w", err)
		}
	}
	if o.sound {
		render.NewChime().Outcome(stats.Outcome == env.OutcomeFinished)
	}

	fmt.Printf("%s\n", display.Label())
	fmt.Printf("Outcome: %s\n", stats.Outcome)
	fmt.Printf("Distance: %.1f, Overlap: %.1f, Displacement: %.1f\n", stats.Distance, stats.Overlap, stats.Displacement)
	fmt.Printf("Score: %d\n", int(stats.Score))
	if stats.Score != champion.Score {
		klog.InfoS("Replayed score differs from saved score", "saved", champion.Score, "replayed", stats.Score)
	}
	return nil
}
