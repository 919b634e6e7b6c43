package sim

import (
	"github.com/vovakirdan/labyrinth-hunt/internal/config"
	"github.com/vovakirdan/labyrinth-hunt/internal/core"
)

// StopReason explains why movement resolution ended.
type StopReason string

const (
	StopSuccess   StopReason = "SUCCESS"
	StopCollision StopReason = "COLLISION"
)

// Outcome is the structured result of resolving one movement command.
// Constructed fresh per command, never persisted.
type Outcome struct {
	StepsMoved     int
	StopReason     StopReason
	TimeTaken      float64
	StaminaDelta   float64
	EffectiveSpeed int
	VisiblePaths   []core.Direction
	VisibleItems   []Item
}

// Simulate resolves one command into a new position, stamina and outcome.
// It is pure with respect to its inputs: it never reads or writes minotaur
// state, and callers decide what to do with the result.
//
// Only MOVE commands displace the user. Everything else reports a uniform
// no-op outcome (zero steps, zero time, SUCCESS).
func Simulate(cmd Command, pos core.Position, stamina float64, cfg config.LabyrinthConfig) (core.Position, float64, Outcome) {
	move, ok := cmd.(MoveCommand)
	if !ok || move.Direction == NoDirection {
		return pos, stamina, Outcome{
			StepsMoved:     0,
			StopReason:     StopSuccess,
			TimeTaken:      0,
			StaminaDelta:   0,
			EffectiveSpeed: defaultSpeed,
			VisiblePaths:   openPaths(pos, cfg.Grid),
		}
	}

	// Running is never permitted on empty stamina.
	speed := move.Speed
	if stamina == 0 {
		speed = 1
	}

	// Advance one cell at a time; stop at the first step that would leave
	// the x/y bounds. Ramps along z never collide. Partial progress before a
	// collision is retained.
	current := pos
	stepsMoved := 0
	stopReason := StopSuccess
	for range move.Steps {
		next := current.Step(move.Direction, 1)
		if next.X < 0 || next.X >= cfg.Grid.Width ||
			next.Y < 0 || next.Y >= cfg.Grid.Height {
			stopReason = StopCollision
			break
		}
		current = next
		stepsMoved++
	}

	timeTaken := float64(stepsMoved) / float64(speed)

	var staminaDelta float64
	if speed == 2 {
		staminaDelta = -float64(stepsMoved) * cfg.Stamina.RunDrain
	} else {
		staminaDelta = float64(stepsMoved) * cfg.Stamina.WalkRecovery
	}
	newStamina := core.ClampF(stamina+staminaDelta, 0, 1)

	return current, newStamina, Outcome{
		StepsMoved:     stepsMoved,
		StopReason:     stopReason,
		TimeTaken:      timeTaken,
		StaminaDelta:   staminaDelta,
		EffectiveSpeed: speed,
		VisiblePaths:   openPaths(current, cfg.Grid),
	}
}

// openPaths returns the cardinal directions whose neighboring cell stays
// within the grid bounds.
func openPaths(pos core.Position, grid config.GridConfig) []core.Direction {
	var open []core.Direction
	for _, d := range core.CardinalDirections {
		next := pos.Step(d, 1)
		if next.X >= 0 && next.X < grid.Width && next.Y >= 0 && next.Y < grid.Height {
			open = append(open, d)
		}
	}
	return open
}
