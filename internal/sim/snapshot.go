package sim

import "github.com/vovakirdan/labyrinth-hunt/internal/core"

// Snapshot captures the complete session state for determinism testing.
type Snapshot struct {
	UserPos          core.Position
	MinotaurPos      core.Position
	Stamina          float64
	Inventory        []Item
	Status           Status
	Mode             Mode
	JumpDuration     float64
	ParalysisLeft    float64
	LanternRespawn   float64
	LanternAvailable bool
	VanishPos        core.Position
}

// Snapshot returns the current session snapshot.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		UserPos:          e.userPos,
		MinotaurPos:      e.minotaurPos,
		Stamina:          e.stamina,
		Inventory:        e.Inventory(),
		Status:           e.status,
		Mode:             e.temporal.Mode(),
		JumpDuration:     e.temporal.JumpDuration(),
		ParalysisLeft:    e.temporal.ParalysisDuration(),
		LanternRespawn:   e.temporal.LanternRespawn(),
		LanternAvailable: e.temporal.LanternAvailable(),
		VanishPos:        e.temporal.ReentryPosition(),
	}
}
