package env

import (
	"walkerga/internal/config"
	"walkerga/internal/physics"
)

// Segment outlines, local to the figure's start position. Each limb hangs
// from its first vertex, which is also its pivot on the center segment.
var (
	centerOutline = []physics.Vec2{{X: -30, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 20}, {X: -30, Y: 20}}
	leftOutline   = []physics.Vec2{{X: -15, Y: 0}, {X: -10, Y: -5}, {X: -15, Y: -30}, {X: -20, Y: -5}}
	rightOutline  = []physics.Vec2{{X: 15, Y: 0}, {X: 20, Y: -5}, {X: 15, Y: -30}, {X: 10, Y: -5}}
)

// figureGroup keeps the three segments from colliding with each other
const figureGroup int16 = -1

// Figure is the articulated walker: a center segment and two limbs joined by
// motorized pivots
type Figure struct {
	Center physics.Body
	Left   physics.Body
	Right  physics.Body

	leftMotor  physics.Motor
	rightMotor physics.Motor
	rate       float64
}

// NewFigure builds the walker in its canonical pose inside w
func NewFigure(w physics.World, fc config.FigureConfig, t physics.Tuning) *Figure {
	filter := physics.Filter{
		Category: physics.CategoryFigure,
		Mask:     physics.MaskAll,
		Group:    figureGroup,
	}
	segment := func(outline []physics.Vec2, mass float64) physics.Body {
		return w.AddBody(physics.BodyDef{
			Vertices: outline,
			Position: fc.Start,
			Mass:     mass,
			Friction: t.BodyFriction,
			Filter:   filter,
			Kind:     physics.Dynamic,
		})
	}

	f := &Figure{rate: t.MotorRate}
	f.Center = segment(centerOutline, fc.CenterMass)
	f.Left = segment(leftOutline, fc.LimbMass)
	f.Right = segment(rightOutline, fc.LimbMass)

	f.leftMotor = w.AddPivotMotor(f.Center, f.Left, fc.Start.Add(leftOutline[0]), t.MaxMotorTorque)
	f.rightMotor = w.AddPivotMotor(f.Center, f.Right, fc.Start.Add(rightOutline[0]), t.MaxMotorTorque)
	return f
}

// Apply translates an action into joint motor rates. Rates are the limb's
// angular velocity relative to the center, counter-clockwise positive.
// Left "up" is positive and right "up" negative.
func (f *Figure) Apply(a Action) {
	switch a {
	case ActionLeftUp:
		f.leftMotor.SetRate(f.rate)
	case ActionLeftDown:
		f.leftMotor.SetRate(-f.rate)
	case ActionRightUp:
		f.rightMotor.SetRate(-f.rate)
	case ActionRightDown:
		f.rightMotor.SetRate(f.rate)
	case ActionFreeze:
		f.leftMotor.SetRate(0)
		f.rightMotor.SetRate(0)
	}
}

// MotorRates returns the current left and right motor rates
func (f *Figure) MotorRates() (left, right float64) {
	return f.leftMotor.Rate(), f.rightMotor.Rate()
}

// Reference is the point progress is measured from: the center of the
// center segment's bounding box
func (f *Figure) Reference() physics.Vec2 {
	return f.Center.AABB().Center()
}

// Segments returns center, left and right bodies in that order
func (f *Figure) Segments() []physics.Body {
	return []physics.Body{f.Center, f.Left, f.Right}
}

// Bounds returns the bounding box of the whole figure
func (f *Figure) Bounds() physics.AABB {
	b := f.Center.AABB()
	b = b.Union(f.Left.AABB())
	return b.Union(f.Right.AABB())
}
