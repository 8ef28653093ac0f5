package env

import (
	"walkerga/internal/physics"
)

// Overlap returns the summed bounding-box intersection area between each
// figure segment and the obstacle, or 0 when there is no obstacle
func (u *Universe) Overlap() float64 {
	if u.Obstacle == nil {
		return 0
	}
	ob := u.Obstacle.Body.AABB()
	var total float64
	for _, s := range u.Figure.Segments() {
		total += s.AABB().Intersection(ob).Area()
	}
	return total
}

// Distance returns the remaining horizontal distance from the figure's
// reference point to the finish line. Negative once past it.
func (u *Universe) Distance() float64 {
	return u.FinishX - u.Figure.Reference().X
}

// Displacement returns how far the reference point moved horizontally since
// the universe was built
func (u *Universe) Displacement() float64 {
	return u.Figure.Reference().X - u.StartX
}

// Diverged reports whether any body left the finite number range
func (u *Universe) Diverged() bool {
	for _, b := range u.World.Bodies() {
		if !b.Position().Finite() {
			return true
		}
	}
	return false
}

// Snapshot is a render-ready copy of the scene at one instant
type Snapshot struct {
	Time       float64
	Step       int
	Actions    int
	Segments   [][]physics.Vec2 // center, left, right in world space
	Obstacle   []physics.Vec2
	Boundaries []physics.Segment
	Reference  physics.Vec2
	FinishX    float64
	Overlap    float64 // accumulated so far
}

// Snapshot captures world-space geometry for renderers
func (u *Universe) Snapshot() Snapshot {
	s := Snapshot{
		Boundaries: u.World.Boundaries(),
		Reference:  u.Figure.Reference(),
		FinishX:    u.FinishX,
	}
	for _, seg := range u.Figure.Segments() {
		s.Segments = append(s.Segments, seg.Vertices())
	}
	if u.Obstacle != nil {
		s.Obstacle = u.Obstacle.Body.Vertices()
	}
	return s
}

// Bounds returns the box containing every boundary and body in the snapshot
func (s Snapshot) Bounds() physics.AABB {
	var pts []physics.Vec2
	for _, b := range s.Boundaries {
		pts = append(pts, b.A, b.B)
	}
	for _, seg := range s.Segments {
		pts = append(pts, seg...)
	}
	pts = append(pts, s.Obstacle...)
	return physics.BoundsOf(pts)
}
