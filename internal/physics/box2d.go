package physics

import (
	"github.com/ByteArena/box2d"
)

// Box2DWorld implements World on top of the box2d engine. Geometry crosses
// the boundary in world units and is stored in metres inside the engine.
type Box2DWorld struct {
	tuning     Tuning
	world      box2d.B2World
	bodies     []Body
	boundaries []Segment
	ground     *box2d.B2Body
}

// NewBox2DWorld creates an empty world with the given tuning
func NewBox2DWorld(t Tuning) *Box2DWorld {
	if t.UnitsPerMeter <= 0 {
		t.UnitsPerMeter = 1
	}
	if t.VelocityIterations <= 0 {
		t.VelocityIterations = 8
	}
	if t.PositionIterations <= 0 {
		t.PositionIterations = 3
	}
	w := &Box2DWorld{tuning: t}
	w.world = box2d.MakeB2World(w.toEngine(t.Gravity))

	groundDef := box2d.MakeB2BodyDef()
	groundDef.Type = box2d.B2BodyType.B2_staticBody
	w.ground = w.world.CreateBody(&groundDef)
	return w
}

// Box2DFactory returns a Factory producing fresh box2d worlds
func Box2DFactory(t Tuning) Factory {
	return func() World {
		return NewBox2DWorld(t)
	}
}

func (w *Box2DWorld) toEngine(v Vec2) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(v.X/w.tuning.UnitsPerMeter, v.Y/w.tuning.UnitsPerMeter)
}

func (w *Box2DWorld) fromEngine(v box2d.B2Vec2) Vec2 {
	return Vec2{X: v.X * w.tuning.UnitsPerMeter, Y: v.Y * w.tuning.UnitsPerMeter}
}

// AddBoundary adds a static edge to the shared ground body
func (w *Box2DWorld) AddBoundary(a, b Vec2, friction float64) Segment {
	edge := box2d.NewB2EdgeShape()
	edge.Set(w.toEngine(a), w.toEngine(b))

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = edge
	fd.Friction = friction
	filter := box2d.MakeB2Filter()
	filter.CategoryBits = CategoryBoundary
	filter.MaskBits = MaskAll
	fd.Filter = filter
	w.ground.CreateFixtureFromDef(&fd)

	seg := Segment{A: a, B: b, Friction: friction}
	w.boundaries = append(w.boundaries, seg)
	return seg
}

// AddBody creates a body with one polygon fixture. Density is derived from
// the requested mass so the engine reports the same mass.
func (w *Box2DWorld) AddBody(def BodyDef) Body {
	bd := box2d.MakeB2BodyDef()
	switch def.Kind {
	case Kinematic:
		bd.Type = box2d.B2BodyType.B2_kinematicBody
	case Static:
		bd.Type = box2d.B2BodyType.B2_staticBody
	default:
		bd.Type = box2d.B2BodyType.B2_dynamicBody
	}
	bd.Position = w.toEngine(def.Position)
	bd.LinearVelocity = w.toEngine(def.LinearVelocity)
	bd.AngularVelocity = def.AngularVelocity
	bd.AllowSleep = false
	body := w.world.CreateBody(&bd)

	verts := make([]box2d.B2Vec2, len(def.Vertices))
	local := make([]Vec2, len(def.Vertices))
	for i, v := range def.Vertices {
		verts[i] = w.toEngine(v)
		local[i] = v.Scale(1 / w.tuning.UnitsPerMeter)
	}
	shape := box2d.NewB2PolygonShape()
	shape.Set(verts, len(verts))

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = shape
	fd.Friction = def.Friction
	if area := PolygonArea(local); area > 0 && def.Mass > 0 {
		fd.Density = def.Mass / area
	}
	filter := box2d.MakeB2Filter()
	filter.CategoryBits = def.Filter.Category
	filter.MaskBits = def.Filter.Mask
	filter.GroupIndex = def.Filter.Group
	fd.Filter = filter
	body.CreateFixtureFromDef(&fd)

	b := &box2dBody{world: w, body: body, kind: def.Kind}
	w.bodies = append(w.bodies, b)
	return b
}

// AddPivotMotor joins two bodies with a revolute joint whose motor starts at
// rate zero, so the joint holds its angle until commanded
func (w *Box2DWorld) AddPivotMotor(a, b Body, anchor Vec2, maxForce float64) Motor {
	ba := a.(*box2dBody).body
	bb := b.(*box2dBody).body

	rjd := box2d.MakeB2RevoluteJointDef()
	rjd.Initialize(ba, bb, w.toEngine(anchor))
	rjd.EnableMotor = true
	rjd.MaxMotorTorque = maxForce
	rjd.MotorSpeed = 0
	rjd.CollideConnected = false
	joint := w.world.CreateJoint(&rjd).(*box2d.B2RevoluteJoint)

	return &box2dMotor{joint: joint, maxForce: maxForce}
}

// Step advances the simulation by dt seconds
func (w *Box2DWorld) Step(dt float64) {
	w.world.Step(dt, w.tuning.VelocityIterations, w.tuning.PositionIterations)
}

// Bodies returns bodies in creation order
func (w *Box2DWorld) Bodies() []Body {
	return w.bodies
}

// Boundaries returns static edges in creation order
func (w *Box2DWorld) Boundaries() []Segment {
	return w.boundaries
}

type box2dBody struct {
	world *Box2DWorld
	body  *box2d.B2Body
	kind  BodyKind
}

func (b *box2dBody) Position() Vec2 {
	return b.world.fromEngine(b.body.GetPosition())
}

func (b *box2dBody) Angle() float64 {
	return b.body.GetAngle()
}

func (b *box2dBody) Kind() BodyKind {
	return b.kind
}

func (b *box2dBody) Vertices() []Vec2 {
	xf := b.body.GetTransform()
	var out []Vec2
	for f := b.body.GetFixtureList(); f != nil; f = f.GetNext() {
		poly, ok := f.GetShape().(*box2d.B2PolygonShape)
		if !ok {
			continue
		}
		for i := 0; i < poly.M_count; i++ {
			out = append(out, b.world.fromEngine(box2d.B2TransformVec2Mul(xf, poly.M_vertices[i])))
		}
	}
	return out
}

// AABB is computed from the transformed vertices; the broad-phase proxy
// boxes are fattened and unsuitable for overlap measurement
func (b *box2dBody) AABB() AABB {
	return BoundsOf(b.Vertices())
}

type box2dMotor struct {
	joint    *box2d.B2RevoluteJoint
	maxForce float64
}

func (m *box2dMotor) SetRate(rate float64) {
	m.joint.SetMotorSpeed(rate)
}

func (m *box2dMotor) Rate() float64 {
	return m.joint.GetMotorSpeed()
}

func (m *box2dMotor) MaxForce() float64 {
	return m.maxForce
}
