// Package physicstest provides a cheap deterministic physics.World for
// tests that exercise rollout and GA logic without a real engine.
package physicstest

import (
	"math"

	"walkerga/internal/physics"
)

// World is a kinematic toy engine. Kinematic bodies move at their velocity
// and dynamic bodies stay put, except that every motor rate change shifts
// all dynamic bodies right by Stride on the next step, so alternating
// commands walk and repeated commands stand still.
type World struct {
	// Stride is the horizontal shift per motor rate change
	Stride float64
	// DivergeAfter makes every position NaN from that step on; 0 disables
	DivergeAfter int

	Steps      int
	bodies     []*Body
	boundaries []physics.Segment
	motors     []*Motor
	pending    int
}

// New returns an empty world with the given stride
func New(stride float64) *World {
	return &World{Stride: stride}
}

// Factory returns a physics.Factory building fresh worlds configured by
// setup, which may be nil
func Factory(stride float64, setup func(*World)) physics.Factory {
	return func() physics.World {
		w := New(stride)
		if setup != nil {
			setup(w)
		}
		return w
	}
}

// AddBoundary implements physics.World
func (w *World) AddBoundary(a, b physics.Vec2, friction float64) physics.Segment {
	s := physics.Segment{A: a, B: b, Friction: friction}
	w.boundaries = append(w.boundaries, s)
	return s
}

// AddBody implements physics.World
func (w *World) AddBody(def physics.BodyDef) physics.Body {
	b := &Body{
		Def:      def,
		Pos:      def.Position,
		Vel:      def.LinearVelocity,
		AngleVel: def.AngularVelocity,
	}
	w.bodies = append(w.bodies, b)
	return b
}

// AddPivotMotor implements physics.World
func (w *World) AddPivotMotor(a, b physics.Body, anchor physics.Vec2, maxForce float64) physics.Motor {
	m := &Motor{world: w, A: a, B: b, Anchor: anchor, Max: maxForce}
	w.motors = append(w.motors, m)
	return m
}

// Step implements physics.World
func (w *World) Step(dt float64) {
	w.Steps++
	shift := w.Stride * float64(w.pending)
	w.pending = 0

	for _, b := range w.bodies {
		switch b.Def.Kind {
		case physics.Kinematic:
			b.Pos = b.Pos.Add(b.Vel.Scale(dt))
			b.Rot += b.AngleVel * dt
		case physics.Dynamic:
			b.Pos.X += shift
		}
		if w.DivergeAfter > 0 && w.Steps >= w.DivergeAfter {
			b.Pos = physics.Vec2{X: math.NaN(), Y: math.NaN()}
		}
	}
}

// Bodies implements physics.World
func (w *World) Bodies() []physics.Body {
	out := make([]physics.Body, len(w.bodies))
	for i, b := range w.bodies {
		out[i] = b
	}
	return out
}

// Boundaries implements physics.World
func (w *World) Boundaries() []physics.Segment {
	return w.boundaries
}

// Motors returns motors in creation order
func (w *World) Motors() []*Motor {
	return w.motors
}

// Body is a toy rigid body
type Body struct {
	Def      physics.BodyDef
	Pos      physics.Vec2
	Vel      physics.Vec2
	Rot      float64
	AngleVel float64
}

// Position implements physics.Body
func (b *Body) Position() physics.Vec2 { return b.Pos }

// Angle implements physics.Body
func (b *Body) Angle() float64 { return b.Rot }

// Kind implements physics.Body
func (b *Body) Kind() physics.BodyKind { return b.Def.Kind }

// Vertices implements physics.Body
func (b *Body) Vertices() []physics.Vec2 {
	sin, cos := math.Sincos(b.Rot)
	out := make([]physics.Vec2, len(b.Def.Vertices))
	for i, v := range b.Def.Vertices {
		out[i] = physics.Vec2{
			X: b.Pos.X + v.X*cos - v.Y*sin,
			Y: b.Pos.Y + v.X*sin + v.Y*cos,
		}
	}
	return out
}

// AABB implements physics.Body
func (b *Body) AABB() physics.AABB {
	return physics.BoundsOf(b.Vertices())
}

// Motor is a toy joint motor
type Motor struct {
	world  *World
	A, B   physics.Body
	Anchor physics.Vec2
	Max    float64
	rate   float64
}

// SetRate implements physics.Motor
func (m *Motor) SetRate(rate float64) {
	if rate != m.rate {
		m.world.pending++
	}
	m.rate = rate
}

// Rate implements physics.Motor
func (m *Motor) Rate() float64 { return m.rate }

// MaxForce implements physics.Motor
func (m *Motor) MaxForce() float64 { return m.Max }
