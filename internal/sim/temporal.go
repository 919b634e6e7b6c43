package sim

import (
	"math/rand"

	"github.com/vovakirdan/labyrinth-hunt/internal/config"
	"github.com/vovakirdan/labyrinth-hunt/internal/core"
)

// Mode is the minotaur's behavioral state. Exactly one mode holds at any
// instant; every transition site switches exhaustively over it.
type Mode int

const (
	Chasing Mode = iota
	Vanished
	Paralyzed
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case Chasing:
		return "CHASING"
	case Vanished:
		return "VANISHED"
	case Paralyzed:
		return "PARALYZED"
	default:
		return "UNKNOWN"
	}
}

// Temporal owns the minotaur's behavioral mode and its four countdown
// timers. All operations are total: invalid mode/timer combinations are
// explicit no-ops, never errors.
type Temporal struct {
	cfg config.TimerConfig
	rng *rand.Rand

	mode              Mode
	jumpDuration      float64 // Time remaining in Vanished
	jumpCooldown      float64 // Cooldown before the next jump is allowed
	paralysisDuration float64 // Time remaining in Paralyzed
	lanternRespawn    float64 // Time until the world lantern respawns
	lanternAvailable  bool
	vanishPos         core.Position // Where the minotaur vanished from
}

// NewTemporal creates the initial temporal state: chasing, all timers at
// zero, lantern available. The rng is used to sample vanish durations.
func NewTemporal(cfg config.TimerConfig, rng *rand.Rand) *Temporal {
	return &Temporal{
		cfg:              cfg,
		rng:              rng,
		mode:             Chasing,
		lanternAvailable: true,
	}
}

// Mode returns the current behavioral mode.
func (t *Temporal) Mode() Mode { return t.mode }

// JumpDuration returns the remaining vanish time.
func (t *Temporal) JumpDuration() float64 { return t.jumpDuration }

// ParalysisDuration returns the remaining paralysis time.
func (t *Temporal) ParalysisDuration() float64 { return t.paralysisDuration }

// LanternRespawn returns the remaining lantern respawn cooldown.
func (t *Temporal) LanternRespawn() float64 { return t.lanternRespawn }

// LanternAvailable reports whether the world lantern currently exists.
func (t *Temporal) LanternAvailable() bool { return t.lanternAvailable }

// JumpReady reports whether a jump may be triggered right now.
func (t *Temporal) JumpReady() bool {
	return t.mode == Chasing && t.jumpCooldown <= 0
}

// ReentryPosition returns the coordinates snapshotted at the last vanish.
func (t *Temporal) ReentryPosition() core.Position { return t.vanishPos }

// TriggerJump transitions Chasing -> Vanished: samples a fresh vanish
// duration uniformly from [vanish_min, vanish_max], starts the long jump
// cooldown and snapshots pos for re-entry. Effective only while chasing
// with the cooldown expired; any other combination is a no-op.
// Returns whether the jump fired.
func (t *Temporal) TriggerJump(pos core.Position) bool {
	if !t.JumpReady() {
		return false
	}
	t.mode = Vanished
	t.jumpDuration = t.cfg.VanishMin + t.rng.Float64()*(t.cfg.VanishMax-t.cfg.VanishMin)
	t.jumpCooldown = t.cfg.JumpCooldown
	t.vanishPos = pos
	return true
}

// UseLantern consumes the world lantern. Fails without state change when
// the lantern is unavailable. On success the minotaur is paralyzed only if
// it was chasing; using the lantern while it is Vanished or Paralyzed still
// consumes it without re-triggering or extending paralysis. The respawn
// cooldown is reset on every successful use.
func (t *Temporal) UseLantern() bool {
	if !t.lanternAvailable {
		return false
	}
	if t.mode == Chasing {
		t.mode = Paralyzed
		t.paralysisDuration = t.cfg.Paralysis
	}
	t.lanternAvailable = false
	t.lanternRespawn = t.cfg.LanternRespawn
	return true
}

// TickReport describes the transitions resolved by one Advance call.
type TickReport struct {
	// Reappeared is true exactly on the Vanished -> Chasing edge where the
	// jump duration was strictly positive before the decrement. The caller
	// must restore the minotaur to ReentryPosition() only on this edge, so
	// the restore fires once per vanish episode and never on later ticks.
	Reappeared       bool
	ParalysisEnded   bool
	LanternRespawned bool
}

// Advance decrements all four timers by dt, flooring each at zero, then
// resolves expiry transitions. The three transitions are independent and
// may all fire within the same call.
func (t *Temporal) Advance(dt float64) TickReport {
	prevMode := t.mode
	prevJump := t.jumpDuration

	t.jumpDuration = floorZero(t.jumpDuration - dt)
	t.jumpCooldown = floorZero(t.jumpCooldown - dt)
	t.paralysisDuration = floorZero(t.paralysisDuration - dt)
	t.lanternRespawn = floorZero(t.lanternRespawn - dt)

	var report TickReport

	if prevMode == Vanished && t.jumpDuration == 0 {
		t.mode = Chasing
		if prevJump > 0 {
			report.Reappeared = true
		}
	}

	if prevMode == Paralyzed && t.paralysisDuration == 0 {
		t.mode = Chasing
		report.ParalysisEnded = true
	}

	if !t.lanternAvailable && t.lanternRespawn == 0 {
		t.lanternAvailable = true
		report.LanternRespawned = true
	}

	return report
}

func floorZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
