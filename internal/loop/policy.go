package loop

import (
	"github.com/vovakirdan/labyrinth-hunt/internal/config"
	"github.com/vovakirdan/labyrinth-hunt/internal/core"
	"github.com/vovakirdan/labyrinth-hunt/internal/sim"
)

// Decide is the built-in minotaur heuristic. Far targets trigger a jump
// when one is off cooldown, medium range closes in one cell per axis, and
// close range moves straight onto the user's cell. Mode never gates the
// decision; only a terminal session resolves to WAIT, upstream in the
// loop. A jump is ready only while chasing, and a vanished minotaur's
// relocation is overwritten on reentry.
func Decide(e *sim.Engine, policy config.PolicyConfig) sim.Decision {
	from := e.MinotaurPosition()
	to := e.UserPosition()
	distance := from.DistanceTo(to)

	switch {
	case distance > policy.JumpDistance && e.JumpReady():
		return sim.JumpDecision{}
	case distance > policy.ChaseDistance:
		return sim.PathfindDecision{Target: stepToward(from, to)}
	default:
		return sim.ChaseDecision{Target: to}
	}
}

// stepToward advances one cell per axis toward the target.
func stepToward(from, to core.Position) core.Position {
	return core.Position{
		X: from.X + core.Sign(to.X-from.X),
		Y: from.Y + core.Sign(to.Y-from.Y),
		Z: from.Z + core.Sign(to.Z-from.Z),
	}
}
