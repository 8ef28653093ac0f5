package eval

import (
	"math"

	"walkerga/internal/config"
	"walkerga/internal/env"
)

// DivergedScore is the score given to a rollout whose physics produced a
// non-finite value. It is finite so sorting stays well defined, and larger
// than any score a real rollout can reach.
const DivergedScore = 1e12

// Timing is the rollout clock
type Timing struct {
	Runtime        float64 // simulated seconds
	FPS            float64 // physics steps per simulated second
	MovesPerSecond float64 // genome entries dispatched per simulated second
}

// TimingFrom extracts the rollout clock from a config
func TimingFrom(cfg *config.Config) Timing {
	return Timing{
		Runtime:        cfg.Sim.Runtime,
		FPS:            cfg.Sim.FPS,
		MovesPerSecond: cfg.Sim.MovesPerSecond,
	}
}

// GenomeLength returns how many entries the clock dispatches
func (t Timing) GenomeLength() int {
	return int(math.Round(t.MovesPerSecond * t.Runtime))
}

// Replay converts the clock to its saved form
func (t Timing) Replay() env.ReplayTiming {
	return env.ReplayTiming{Runtime: t.Runtime, FPS: t.FPS, MovesPerSecond: t.MovesPerSecond}
}

// TimingFromReplay is the inverse of Timing.Replay
func TimingFromReplay(rt env.ReplayTiming) Timing {
	return Timing{Runtime: rt.Runtime, FPS: rt.FPS, MovesPerSecond: rt.MovesPerSecond}
}

// FrameFunc observes the scene after every physics step. It must not
// modify the universe.
type FrameFunc func(snap env.Snapshot)

// Rollout replays actions in a fresh universe and scores the result.
//
// The clock advances by 1/fps per step. After each step the next action is
// dispatched once elapsed*moves_per_second has passed its 1-based index,
// and, when an obstacle exists, the overlap is sampled and accumulated.
// Stepping continues until elapsed exceeds the runtime; the remaining
// distance is read once at the end.
func Rollout(actions []env.Action, newUniverse env.UniverseFactory, timing Timing, scorer Scorer, frame FrameFunc) env.RolloutStats {
	u := newUniverse()
	dt := 1 / timing.FPS

	var (
		stats   env.RolloutStats
		overlap float64
		elapsed float64
	)
	cursor := 1

	for elapsed <= timing.Runtime {
		u.Step(dt)
		stats.Steps++
		// derived from the step count so long runs do not drift
		elapsed = float64(stats.Steps) / timing.FPS

		if u.Diverged() {
			stats.Outcome = env.OutcomeDiverged
			break
		}

		// exact at whole-action boundaries, unlike elapsed*mps
		due := float64(stats.Steps) * timing.MovesPerSecond / timing.FPS
		if cursor <= len(actions) && float64(cursor) < due {
			u.Figure.Apply(actions[cursor-1])
			cursor++
			if u.HasObstacle() {
				overlap += u.Overlap()
			}
		}

		if frame != nil {
			snap := u.Snapshot()
			snap.Time = elapsed
			snap.Step = stats.Steps
			snap.Actions = cursor - 1
			snap.Overlap = overlap
			frame(snap)
		}
	}

	stats.Actions = cursor - 1
	stats.SimTime = elapsed
	stats.Overlap = overlap

	if stats.Outcome == env.OutcomeDiverged {
		stats.Score = DivergedScore
		return stats
	}

	stats.Distance = u.Distance()
	stats.Displacement = u.Displacement()
	if stats.Distance <= 0 {
		stats.Outcome = env.OutcomeFinished
	} else {
		stats.Outcome = env.OutcomeTimeUp
	}

	stats.Score = scorer.Score(stats)
	if math.IsNaN(stats.Score) || math.IsInf(stats.Score, 0) {
		stats.Outcome = env.OutcomeDiverged
		stats.Score = DivergedScore
	}
	return stats
}

// Evaluate runs one rollout and returns only its score
func Evaluate(actions []env.Action, newUniverse env.UniverseFactory, timing Timing, scorer Scorer) float64 {
	return Rollout(actions, newUniverse, timing, scorer, nil).Score
}
