package physics

// Tuning holds the engine constants for a scene. Scenes with or without
// gravity, or with a different motor strength, are expressed as Tuning
// values rather than separate code paths.
type Tuning struct {
	Gravity            Vec2    `yaml:"gravity"`
	MotorRate          float64 `yaml:"motor_rate"`       // rad/s commanded for "up"/"down"
	MaxMotorTorque     float64 `yaml:"max_motor_torque"` // N*m cap on each joint motor
	GroundFriction     float64 `yaml:"ground_friction"`
	BodyFriction       float64 `yaml:"body_friction"`
	UnitsPerMeter      float64 `yaml:"units_per_meter"` // world units per engine metre
	VelocityIterations int     `yaml:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations"`
}

// DefaultTuning mirrors the constants of the reference scene
func DefaultTuning() Tuning {
	return Tuning{
		Gravity:            Vec2{X: 0, Y: -150},
		MotorRate:          10000,
		MaxMotorTorque:     3000,
		GroundFriction:     100000,
		BodyFriction:       10000000,
		UnitsPerMeter:      30,
		VelocityIterations: 8,
		PositionIterations: 3,
	}
}
