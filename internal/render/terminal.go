package render

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"walkerga/internal/env"
	"walkerga/internal/physics"
)

var (
	styleBoundary = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleFinish   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleObstacle = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleCenter   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleLimb     = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// Terminal draws replay frames with tcell
type Terminal struct {
	ctx    context.Context
	screen tcell.Screen
	label  string
	delay  time.Duration

	view  Viewport
	viewW int
	viewH int
}

// NewTerminal draws on an initialized screen, pausing delay after each
// frame. Once ctx is done frames are skipped so the replay finishes at
// full speed.
func NewTerminal(ctx context.Context, screen tcell.Screen, label string, delay time.Duration) *Terminal {
	return &Terminal{ctx: ctx, screen: screen, label: label, delay: delay}
}

// Frame implements eval.FrameFunc
func (t *Terminal) Frame(snap env.Snapshot) {
	if t.ctx.Err() != nil {
		return
	}

	w, h := t.screen.Size()
	if w != t.viewW || h != t.viewH {
		// bottom row is the status line
		t.view = NewViewport(Pad(snap.Bounds(), 0.02), float64(w), float64(h-1), 2)
		t.viewW, t.viewH = w, h
	}

	t.screen.Clear()

	for _, b := range snap.Boundaries {
		t.line(b.A, b.B, '#', styleBoundary)
	}
	world := t.view.World
	t.line(physics.Vec2{X: snap.FinishX, Y: world.Min.Y}, physics.Vec2{X: snap.FinishX, Y: world.Max.Y}, ':', styleFinish)

	if len(snap.Obstacle) > 0 {
		t.polygon(snap.Obstacle, 'x', styleObstacle)
	}
	for i, seg := range snap.Segments {
		if i == 0 {
			t.polygon(seg, '=', styleCenter)
		} else {
			t.polygon(seg, 'o', styleLimb)
		}
	}

	status := fmt.Sprintf(" %s | t=%5.2fs | action %d | distance %.0f | overlap %.0f ",
		t.label, snap.Time, snap.Actions, snap.FinishX-snap.Reference.X, snap.Overlap)
	t.text(0, h-1, status, styleStatus)
	t.screen.Show()

	if t.delay > 0 {
		select {
		case <-t.ctx.Done():
		case <-time.After(t.delay):
		}
	}
}

// Finish writes the final score on the status line
func (t *Terminal) Finish(stats env.RolloutStats) {
	_, h := t.screen.Size()
	msg := fmt.Sprintf(" %s | %s | score %d | press any key ", t.label, stats.Outcome, int(stats.Score))
	t.text(0, h-1, msg, styleStatus)
	t.screen.Show()
}

func (t *Terminal) text(x, y int, s string, style tcell.Style) {
	w, _ := t.screen.Size()
	for _, r := range s {
		if x >= w {
			return
		}
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (t *Terminal) polygon(pts []physics.Vec2, r rune, style tcell.Style) {
	for i := range pts {
		t.line(pts[i], pts[(i+1)%len(pts)], r, style)
	}
}

// line rasterizes a world-space segment onto cells
func (t *Terminal) line(a, b physics.Vec2, r rune, style tcell.Style) {
	x0, y0 := t.view.Map(a)
	x1, y1 := t.view.Map(b)
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		t.cell(int(math.Round(x0+(x1-x0)*f)), int(math.Round(y0+(y1-y0)*f)), r, style)
	}
}

func (t *Terminal) cell(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= t.viewW || y >= t.viewH-1 {
		return
	}
	t.screen.SetContent(x, y, r, nil, style)
}
