package render

import (
	"image/color"

	"github.com/fogleman/gg"

	"walkerga/internal/env"
	"walkerga/internal/physics"
)

var (
	skyColour      = color.RGBA{235, 240, 250, 255}
	boundaryColour = color.RGBA{60, 60, 60, 255}
	finishColour   = color.RGBA{220, 160, 0, 255}
	obstacleColour = color.RGBA{200, 40, 40, 255}
	centerColour   = color.RGBA{40, 150, 60, 255}
	limbColour     = color.RGBA{40, 80, 200, 255}
)

// DrawFrame rasterizes one snapshot
func DrawFrame(snap env.Snapshot, width, height int) *gg.Context {
	dc := gg.NewContext(width, height)
	dc.SetColor(skyColour)
	dc.Clear()

	view := NewViewport(Pad(snap.Bounds(), 0.05), float64(width), float64(height), 1)

	dc.ClearPath()
	dc.SetColor(boundaryColour)
	dc.SetLineWidth(4)
	for _, b := range snap.Boundaries {
		x0, y0 := view.Map(b.A)
		x1, y1 := view.Map(b.B)
		dc.DrawLine(x0, y0, x1, y1)
	}
	dc.Stroke()

	dc.ClearPath()
	dc.SetColor(finishColour)
	dc.SetLineWidth(2)
	fx, fy0 := view.Map(physics.Vec2{X: snap.FinishX, Y: view.World.Min.Y})
	_, fy1 := view.Map(physics.Vec2{X: snap.FinishX, Y: view.World.Max.Y})
	dc.DrawLine(fx, fy0, fx, fy1)
	dc.Stroke()

	if len(snap.Obstacle) > 0 {
		fillPolygon(dc, view, snap.Obstacle, obstacleColour)
	}
	for i, seg := range snap.Segments {
		c := limbColour
		if i == 0 {
			c = centerColour
		}
		fillPolygon(dc, view, seg, c)
	}
	return dc
}

func fillPolygon(dc *gg.Context, view Viewport, pts []physics.Vec2, c color.Color) {
	dc.ClearPath()
	for _, p := range pts {
		x, y := view.Map(p)
		dc.LineTo(x, y)
	}
	x, y := view.Map(pts[0])
	dc.LineTo(x, y)
	dc.SetColor(c)
	dc.Fill()
}

// SavePNG writes one snapshot as a PNG image
func SavePNG(path string, snap env.Snapshot, width, height int) error {
	return DrawFrame(snap, width, height).SavePNG(path)
}
