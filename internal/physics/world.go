package physics

import "math"

// Vec2 is a point or vector in world units
type Vec2 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Add returns v+o
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v*s
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Finite reports whether both components are finite numbers
func (v Vec2) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// AABB is an axis-aligned bounding box
type AABB struct {
	Min Vec2
	Max Vec2
}

// Center returns the box midpoint
func (b AABB) Center() Vec2 {
	return Vec2{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

// Width returns the horizontal extent
func (b AABB) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent
func (b AABB) Height() float64 { return b.Max.Y - b.Min.Y }

// Area returns width*height, zero for degenerate boxes
func (b AABB) Area() float64 {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Overlaps reports whether the two boxes share interior area
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X < o.Max.X && o.Min.X < b.Max.X && b.Min.Y < o.Max.Y && o.Min.Y < b.Max.Y
}

// Intersection returns the overlapping region; the result has zero area when
// the boxes are disjoint
func (b AABB) Intersection(o AABB) AABB {
	r := AABB{
		Min: Vec2{X: math.Max(b.Min.X, o.Min.X), Y: math.Max(b.Min.Y, o.Min.Y)},
		Max: Vec2{X: math.Min(b.Max.X, o.Max.X), Y: math.Min(b.Max.Y, o.Max.Y)},
	}
	if r.Max.X < r.Min.X {
		r.Max.X = r.Min.X
	}
	if r.Max.Y < r.Min.Y {
		r.Max.Y = r.Min.Y
	}
	return r
}

// Union returns the smallest box containing both
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: Vec2{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y)},
		Max: Vec2{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y)},
	}
}

// BoundsOf returns the AABB of a point set
func BoundsOf(points []Vec2) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	b := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// PolygonArea returns the absolute shoelace area of a simple polygon
func PolygonArea(vertices []Vec2) float64 {
	n := len(vertices)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a := vertices[i]
		b := vertices[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) / 2
}

// BodyKind selects how the engine integrates a body
type BodyKind int

const (
	Dynamic BodyKind = iota
	Kinematic
	Static
)

func (k BodyKind) String() string {
	switch k {
	case Dynamic:
		return "dynamic"
	case Kinematic:
		return "kinematic"
	case Static:
		return "static"
	default:
		return "unknown"
	}
}

// Filter controls which shapes may collide
type Filter struct {
	Category uint16
	Mask     uint16
	Group    int16
}

// Collision categories used by the walker scene
const (
	CategoryFigure   uint16 = 0x0001
	CategoryObstacle uint16 = 0x0002
	CategoryBoundary uint16 = 0x0004
	MaskAll          uint16 = 0xFFFF
)

// BodyDef describes a rigid body with a single convex polygon shape.
// Vertices are local to Position.
type BodyDef struct {
	Vertices        []Vec2
	Position        Vec2
	Mass            float64
	Friction        float64
	Filter          Filter
	Kind            BodyKind
	LinearVelocity  Vec2
	AngularVelocity float64
}

// Body is a rigid body owned by a World
type Body interface {
	Position() Vec2
	Angle() float64
	// AABB is the tight world-space bounding box of the body's shape
	AABB() AABB
	// Vertices returns the shape's vertices in world space
	Vertices() []Vec2
	Kind() BodyKind
}

// Motor drives the relative angular velocity between two jointed bodies
type Motor interface {
	SetRate(rate float64)
	Rate() float64
	MaxForce() float64
}

// Segment is a static line boundary
type Segment struct {
	A, B     Vec2
	Friction float64
}

// World is the rigid-body engine consumed by the simulation. Implementations
// must be deterministic for identical call sequences.
type World interface {
	AddBoundary(a, b Vec2, friction float64) Segment
	AddBody(def BodyDef) Body
	// AddPivotMotor pins b to a at the world-space anchor and attaches an
	// angular motor between them
	AddPivotMotor(a, b Body, anchor Vec2, maxForce float64) Motor
	Step(dt float64)
	Bodies() []Body
	Boundaries() []Segment
}

// Factory builds a fresh, empty World
type Factory func() World
