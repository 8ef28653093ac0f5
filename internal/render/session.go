package render

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"walkerga/internal/env"
	"walkerga/internal/eval"
)

// PlayInTerminal replays actions on a fresh tcell screen at speed times
// real time. Escape, q or Ctrl+C skip to the end; after the final frame the
// screen stays up until a key is pressed. Extra observers see every frame.
func PlayInTerminal(ctx context.Context, d *Display, actions []env.Action, speed float64, observers ...eval.FrameFunc) (env.RolloutStats, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return env.RolloutStats{}, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return env.RolloutStats{}, fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	return playOn(ctx, screen, d, actions, speed, observers...), nil
}

func playOn(ctx context.Context, screen tcell.Screen, d *Display, actions []env.Action, speed float64, observers ...eval.FrameFunc) env.RolloutStats {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := make(chan struct{}, 1)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if _, ok := ev.(*tcell.EventKey); ok {
				select {
				case keys <- struct{}{}:
				default:
				}
			}
		}
	}()

	skip, stopSkip := context.WithCancel(ctx)
	defer stopSkip()
	go func() {
		select {
		case <-keys:
			stopSkip()
		case <-skip.Done():
		}
	}()

	var delay time.Duration
	if speed > 0 {
		delay = time.Duration(float64(time.Second) / (d.timing.FPS * speed))
	}
	term := NewTerminal(skip, screen, d.Label(), delay)

	stats := d.Run(actions, append([]eval.FrameFunc{term.Frame}, observers...)...)
	stopSkip()
	term.Finish(stats)

	if ctx.Err() == nil {
		select {
		case <-keys:
		case <-ctx.Done():
		}
	}
	return stats
}
