package env

import (
	"walkerga/internal/config"
	"walkerga/internal/physics"
)

// Obstacle is a kinematic box moving at constant linear and angular velocity
type Obstacle struct {
	Body physics.Body
}

// Universe owns one physics world with its boundaries, the figure and the
// optional obstacle for the lifetime of a single rollout
type Universe struct {
	World    physics.World
	Figure   *Figure
	Obstacle *Obstacle
	FinishX  float64
	StartX   float64
}

// UniverseFactory builds a fresh universe in the canonical initial state
type UniverseFactory func() *Universe

// NewUniverse populates w with the ground, the finish-side wall, the figure
// and, when enabled, the obstacle
func NewUniverse(cfg *config.Config, w physics.World) *Universe {
	ground := cfg.Sim.GroundY
	w.AddBoundary(physics.Vec2{X: 0, Y: ground}, physics.Vec2{X: cfg.Sim.WallX, Y: ground}, cfg.Physics.GroundFriction)
	w.AddBoundary(physics.Vec2{X: cfg.Sim.WallX, Y: ground}, physics.Vec2{X: cfg.Sim.WallX, Y: ground + cfg.Sim.WallHeight}, cfg.Physics.GroundFriction)

	u := &Universe{
		World:   w,
		Figure:  NewFigure(w, cfg.Figure, cfg.Physics),
		FinishX: cfg.Sim.FinishX,
	}
	u.StartX = u.Figure.Reference().X

	if cfg.Obstacle.Enabled {
		hx, hy := cfg.Obstacle.Size.X/2, cfg.Obstacle.Size.Y/2
		body := w.AddBody(physics.BodyDef{
			Vertices:        []physics.Vec2{{X: -hx, Y: -hy}, {X: hx, Y: -hy}, {X: hx, Y: hy}, {X: -hx, Y: hy}},
			Position:        cfg.Obstacle.Start,
			Friction:        cfg.Physics.BodyFriction,
			Filter:          physics.Filter{Category: physics.CategoryObstacle, Mask: physics.MaskAll},
			Kind:            physics.Kinematic,
			LinearVelocity:  cfg.Obstacle.Velocity,
			AngularVelocity: cfg.Obstacle.AngularVelocity,
		})
		u.Obstacle = &Obstacle{Body: body}
	}
	return u
}

// NewUniverseFactory binds a config and an engine factory. Every call
// yields an independent universe, so factories are safe to share between
// concurrent rollouts.
func NewUniverseFactory(cfg *config.Config, newWorld physics.Factory) UniverseFactory {
	return func() *Universe {
		return NewUniverse(cfg, newWorld())
	}
}

// Step advances physics by dt seconds
func (u *Universe) Step(dt float64) {
	u.World.Step(dt)
}

// HasObstacle reports whether an obstacle was created
func (u *Universe) HasObstacle() bool {
	return u.Obstacle != nil
}
