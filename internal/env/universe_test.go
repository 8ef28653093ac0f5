package env

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkerga/internal/config"
	"walkerga/internal/physics"
	"walkerga/internal/physics/physicstest"
)

func newTestUniverse(t *testing.T, mutate func(*config.Config)) (*Universe, *physicstest.World) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())
	w := physicstest.New(10)
	return NewUniverse(cfg, w), w
}

func TestFigureApplyMapsPolarity(t *testing.T) {
	u, w := newTestUniverse(t, nil)
	rate := config.Default().Physics.MotorRate

	motors := w.Motors()
	require.Len(t, motors, 2)
	left, right := motors[0], motors[1]

	tests := []struct {
		action      Action
		left, right float64
	}{
		{ActionLeftUp, rate, 0},
		{ActionLeftDown, -rate, 0},
		{ActionRightUp, -rate, -rate},
		{ActionRightDown, -rate, rate},
		{ActionFreeze, 0, 0},
	}
	for _, tt := range tests {
		u.Figure.Apply(tt.action)
		assert.Equal(t, tt.left, left.Rate(), "left after %s", tt.action)
		assert.Equal(t, tt.right, right.Rate(), "right after %s", tt.action)

		l, r := u.Figure.MotorRates()
		assert.Equal(t, tt.left, l)
		assert.Equal(t, tt.right, r)
	}
}

func TestFigureGeometry(t *testing.T) {
	u, w := newTestUniverse(t, nil)
	start := config.Default().Figure.Start

	// center segment spans 60x20 above the start point
	assert.Equal(t, physics.Vec2{X: start.X, Y: start.Y + 10}, u.Figure.Reference())

	// pivots sit at each limb's top vertex
	motors := w.Motors()
	assert.Equal(t, physics.Vec2{X: start.X - 15, Y: start.Y}, motors[0].Anchor)
	assert.Equal(t, physics.Vec2{X: start.X + 15, Y: start.Y}, motors[1].Anchor)

	b := u.Figure.Bounds()
	assert.InDelta(t, 60, b.Width(), 1e-9)
	assert.InDelta(t, 50, b.Height(), 1e-9)
	// limbs hang one unit above the ground
	assert.InDelta(t, config.Default().Sim.GroundY+1, b.Min.Y, 1e-9)
}

func TestUniverseBoundariesAndObstacle(t *testing.T) {
	u, w := newTestUniverse(t, nil)
	assert.Len(t, w.Boundaries(), 2)
	assert.False(t, u.HasObstacle())
	assert.Len(t, u.World.Bodies(), 3)
	assert.Zero(t, u.Overlap())

	u, _ = newTestUniverse(t, func(c *config.Config) { c.Obstacle.Enabled = true })
	require.True(t, u.HasObstacle())
	assert.Equal(t, physics.Kinematic, u.Obstacle.Body.Kind())
	assert.Len(t, u.World.Bodies(), 4)
}

func TestOverlapSumsSegmentIntersections(t *testing.T) {
	u, _ := newTestUniverse(t, func(c *config.Config) {
		c.Obstacle.Enabled = true
		// 40x40 box centred on the center segment
		c.Obstacle.Start = physics.Vec2{X: c.Figure.Start.X, Y: c.Figure.Start.Y + 10}
	})

	// center: x in [-20,20] of [-30,30], y in [0,20] -> 40*20
	center := 40.0 * 20.0
	// limbs: x in [-20,-10] and [10,20], y in [-10,0] of [-30,0] -> 10*10 each
	limbs := 2 * 10.0 * 10.0
	assert.InDelta(t, center+limbs, u.Overlap(), 1e-9)

	u, _ = newTestUniverse(t, func(c *config.Config) {
		c.Obstacle.Enabled = true
		c.Obstacle.Start = physics.Vec2{X: 600, Y: 90}
	})
	assert.Zero(t, u.Overlap())
}

func TestDistanceAndDisplacement(t *testing.T) {
	u, _ := newTestUniverse(t, nil)
	cfg := config.Default()

	assert.InDelta(t, cfg.Sim.FinishX-cfg.Figure.Start.X, u.Distance(), 1e-9)
	assert.Zero(t, u.Displacement())

	// two rate changes walk the toy figure two strides
	u.Figure.Apply(ActionLeftUp)
	u.Figure.Apply(ActionRightUp)
	u.Step(1.0 / 30)
	assert.InDelta(t, 20, u.Displacement(), 1e-9)
	assert.InDelta(t, cfg.Sim.FinishX-cfg.Figure.Start.X-20, u.Distance(), 1e-9)
}

func TestDiverged(t *testing.T) {
	u, w := newTestUniverse(t, nil)
	w.DivergeAfter = 2
	u.Step(0.1)
	assert.False(t, u.Diverged())
	u.Step(0.1)
	assert.True(t, u.Diverged())
}

func TestSnapshot(t *testing.T) {
	u, _ := newTestUniverse(t, func(c *config.Config) { c.Obstacle.Enabled = true })
	snap := u.Snapshot()

	assert.Len(t, snap.Segments, 3)
	assert.Len(t, snap.Obstacle, 4)
	assert.Len(t, snap.Boundaries, 2)
	assert.Equal(t, u.FinishX, snap.FinishX)

	b := snap.Bounds()
	cfg := config.Default()
	assert.Equal(t, 0.0, b.Min.X)
	assert.Equal(t, cfg.Sim.WallX, b.Max.X)
	assert.Equal(t, cfg.Sim.GroundY, b.Min.Y)
}

func TestBox2DUniverseFactory(t *testing.T) {
	cfg := config.Default()
	cfg.Obstacle.Enabled = true
	newUniverse := NewUniverseFactory(cfg, physics.Box2DFactory(cfg.Physics))

	u1, u2 := newUniverse(), newUniverse()
	require.NotSame(t, u1, u2)
	assert.Equal(t, u1.Figure.Reference(), u2.Figure.Reference())

	u1.Step(1.0 / 30)
	assert.Equal(t, cfg.Obstacle.Start, u2.Obstacle.Body.Position(), "universes share no state")
}

func TestCountOutcomes(t *testing.T) {
	counts := CountOutcomes([]RolloutStats{
		{Outcome: OutcomeFinished},
		{Outcome: OutcomeTimeUp},
		{Outcome: OutcomeTimeUp},
		{Outcome: OutcomeDiverged},
	})
	assert.Equal(t, map[Outcome]int{OutcomeFinished: 1, OutcomeTimeUp: 2, OutcomeDiverged: 1}, counts)
	assert.True(t, RolloutStats{Outcome: OutcomeDiverged}.Diverged())
	assert.Equal(t, "time_up", OutcomeTimeUp.String())
}

func TestReplaySaveLoad(t *testing.T) {
	r := NewReplay("Generation 3", ReplayTiming{Runtime: 18, FPS: 30, MovesPerSecond: 3})
	r.Record(ActionLeftUp)
	r.Record(ActionRightDown)
	r.SetFinalStats(RolloutStats{Score: 812.5, Distance: 812.5, Actions: 2, Steps: 541, Outcome: OutcomeTimeUp})

	path := filepath.Join(t.TempDir(), "nested", "replay.json")
	require.NoError(t, r.Save(path))

	loaded, err := LoadReplay(path)
	require.NoError(t, err)
	if diff := cmp.Diff(r, loaded); diff != "" {
		t.Errorf("replay changed after round trip (-want +got):\n%s", diff)
	}
}
