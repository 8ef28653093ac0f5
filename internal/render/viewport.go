package render

import (
	"walkerga/internal/physics"
)

// Viewport maps world coordinates (y up) onto a pixel or cell grid (y down)
type Viewport struct {
	World  physics.AABB
	Width  float64
	Height float64

	aspect float64
	scale  float64
	offX   float64
	offY   float64
}

// NewViewport fits world into a width x height target, keeping proportions.
// aspect is how many times taller than wide one target unit is: 1 for
// pixels, about 2 for terminal cells.
func NewViewport(world physics.AABB, width, height, aspect float64) Viewport {
	if aspect <= 0 {
		aspect = 1
	}
	ww, wh := world.Width(), world.Height()
	if ww <= 0 {
		ww = 1
	}
	if wh <= 0 {
		wh = 1
	}

	v := Viewport{World: world, Width: width, Height: height, aspect: aspect}
	v.scale = width / ww
	if s := height * aspect / wh; s < v.scale {
		v.scale = s
	}
	v.offX = (width - ww*v.scale) / 2
	v.offY = (height - wh*v.scale/aspect) / 2
	return v
}

// Map converts a world point to target coordinates
func (v Viewport) Map(p physics.Vec2) (x, y float64) {
	x = v.offX + (p.X-v.World.Min.X)*v.scale
	y = v.Height - v.offY - (p.Y-v.World.Min.Y)*v.scale/v.aspect
	return x, y
}

// Pad grows a box by frac of its size on every side
func Pad(b physics.AABB, frac float64) physics.AABB {
	dx, dy := b.Width()*frac, b.Height()*frac
	return physics.AABB{
		Min: physics.Vec2{X: b.Min.X - dx, Y: b.Min.Y - dy},
		Max: physics.Vec2{X: b.Max.X + dx, Y: b.Max.Y + dy},
	}
}
