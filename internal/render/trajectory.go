package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"walkerga/internal/env"
	"walkerga/internal/physics"
)

// Trajectory records the reference point and the obstacle center of every
// frame, and keeps the last snapshot
type Trajectory struct {
	Figure   []physics.Vec2
	Obstacle []physics.Vec2
	Last     env.Snapshot
	frames   int
}

// Frame implements eval.FrameFunc
func (tr *Trajectory) Frame(snap env.Snapshot) {
	tr.Figure = append(tr.Figure, snap.Reference)
	if len(snap.Obstacle) > 0 {
		tr.Obstacle = append(tr.Obstacle, physics.BoundsOf(snap.Obstacle).Center())
	}
	tr.Last = snap
	tr.frames++
}

// Frames returns how many frames were observed
func (tr *Trajectory) Frames() int {
	return tr.frames
}

func toXYs(pts []physics.Vec2) plotter.XYs {
	xy := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xy[i].X = p.X
		xy[i].Y = p.Y
	}
	return xy
}

// PlotTrajectory saves the recorded paths, the ground and the finish line
// as an image; the format follows the file extension
func PlotTrajectory(path, title string, tr *Trajectory) error {
	if len(tr.Figure) == 0 {
		return fmt.Errorf("no frames recorded")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	for _, b := range tr.Last.Boundaries {
		wall, err := plotter.NewLine(plotter.XYs{{X: b.A.X, Y: b.A.Y}, {X: b.B.X, Y: b.B.Y}})
		if err != nil {
			return err
		}
		wall.Color = color.RGBA{90, 90, 90, 255}
		wall.Width = vg.Points(2)
		p.Add(wall)
	}

	bounds := physics.BoundsOf(tr.Figure)
	finish, err := plotter.NewLine(plotter.XYs{
		{X: tr.Last.FinishX, Y: bounds.Min.Y},
		{X: tr.Last.FinishX, Y: bounds.Max.Y + 50},
	})
	if err != nil {
		return err
	}
	finish.Color = color.RGBA{220, 160, 0, 255}
	finish.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(finish)
	p.Legend.Add("finish", finish)

	figure, err := plotter.NewLine(toXYs(tr.Figure))
	if err != nil {
		return err
	}
	figure.Color = color.RGBA{0, 80, 255, 255}
	figure.Width = vg.Points(1.8)
	p.Add(figure)
	p.Legend.Add("figure", figure)

	if len(tr.Obstacle) > 0 {
		obstacle, err := plotter.NewLine(toXYs(tr.Obstacle))
		if err != nil {
			return err
		}
		obstacle.Color = color.RGBA{220, 0, 0, 255}
		p.Add(obstacle)
		p.Legend.Add("obstacle", obstacle)
	}

	start, err := plotter.NewScatter(toXYs(tr.Figure[:1]))
	if err != nil {
		return err
	}
	start.GlyphStyle.Shape = draw.CircleGlyph{}
	start.GlyphStyle.Color = color.RGBA{0, 140, 0, 255}
	start.GlyphStyle.Radius = vg.Points(4)
	p.Add(start)
	p.Legend.Add("start", start)

	end, err := plotter.NewScatter(toXYs(tr.Figure[len(tr.Figure)-1:]))
	if err != nil {
		return err
	}
	end.GlyphStyle.Shape = draw.CrossGlyph{}
	end.GlyphStyle.Color = color.RGBA{220, 0, 0, 255}
	end.GlyphStyle.Radius = vg.Points(4)
	p.Add(end)
	p.Legend.Add("end", end)

	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}
