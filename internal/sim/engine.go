package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/labyrinth-hunt/internal/config"
	"github.com/vovakirdan/labyrinth-hunt/internal/core"
)

// Engine is the game state aggregate for one session. It owns the user and
// minotaur positions, stamina, inventory and the temporal state machine,
// and mutates them in place under a single-writer discipline: every change
// goes through the engine's own methods.
type Engine struct {
	cfg config.LabyrinthConfig

	userPos     core.Position
	minotaurPos core.Position
	stamina     float64 // Always in [0, 1]
	inventory   []Item

	temporal *Temporal
	status   Status
	message  string

	// Last movement resolution, surfaced in every response.
	lastSteps int
	lastTime  float64
	lastStop  StopReason
}

// New creates a fresh session with spawn positions and timer constants from
// cfg. The seed drives vanish duration sampling; equal seeds and command
// sequences produce identical sessions.
func New(cfg config.LabyrinthConfig, seed int64) *Engine {
	rng := rand.New(rand.NewSource(seed))
	return &Engine{
		cfg:         cfg,
		userPos:     core.Position{X: cfg.Spawn.User.X, Y: cfg.Spawn.User.Y, Z: cfg.Spawn.User.Z},
		minotaurPos: core.Position{X: cfg.Spawn.Minotaur.X, Y: cfg.Spawn.Minotaur.Y, Z: cfg.Spawn.Minotaur.Z},
		stamina:     1.0,
		temporal:    NewTemporal(cfg.Timers, rng),
		status:      StatusActive,
		message:     "Welcome to the Labyrinth.",
		lastStop:    StopSuccess,
	}
}

// Status returns the session status.
func (e *Engine) Status() Status { return e.status }

// UserPosition returns the user's current position.
func (e *Engine) UserPosition() core.Position { return e.userPos }

// MinotaurPosition returns the minotaur's current position.
func (e *Engine) MinotaurPosition() core.Position { return e.minotaurPos }

// SetMinotaurPosition relocates the minotaur. Used by the turn loop when
// applying PATHFIND and CHASE decisions.
func (e *Engine) SetMinotaurPosition(p core.Position) { e.minotaurPos = p }

// Stamina returns the user's stamina in [0, 1].
func (e *Engine) Stamina() float64 { return e.stamina }

// Inventory returns a copy of the inventory in insertion order.
func (e *Engine) Inventory() []Item {
	inv := make([]Item, len(e.inventory))
	copy(inv, e.inventory)
	return inv
}

// Mode returns the minotaur's behavioral mode.
func (e *Engine) Mode() Mode { return e.temporal.Mode() }

// JumpReady reports whether a minotaur jump may fire right now.
func (e *Engine) JumpReady() bool { return e.temporal.JumpReady() }

// TriggerJump vanishes the minotaur from its current position, if allowed.
func (e *Engine) TriggerJump() bool { return e.temporal.TriggerJump(e.minotaurPos) }

// Apply resolves one user command into a validated response. It never
// panics outward: any unexpected fault degrades the call to a terminal
// ERROR response carrying the fault description.
func (e *Engine) Apply(cmd Command) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			e.status = StatusError
			e.message = fmt.Sprintf("The labyrinth shudders: %v", r)
			resp = e.errorResponse()
		}
	}()
	return e.apply(cmd)
}

// Fail forces the session into a terminal ERROR state and returns the
// matching response. The turn loop uses it to surface a phase fault as a
// response instead of a panic.
func (e *Engine) Fail(reason string) Response {
	e.status = StatusError
	e.message = fmt.Sprintf("The labyrinth shudders: %s", reason)
	return e.errorResponse()
}

// apply is the fixed resolution order for one command.
func (e *Engine) apply(cmd Command) Response {
	// Encounter check before any movement: a chasing minotaur on the user's
	// cell ends the session immediately.
	if e.encounter() {
		e.status = StatusDeath
		e.message = "The Minotaur catches you! Game Over."
		return e.buildResponse()
	}

	// Lantern use never touches the movement simulator.
	if use, ok := cmd.(UseCommand); ok && use.Target == ItemLantern {
		return e.applyLantern()
	}

	newPos, newStamina, outcome := Simulate(cmd, e.userPos, e.stamina, e.cfg)
	e.lastSteps = outcome.StepsMoved
	e.lastTime = outcome.TimeTaken
	e.lastStop = outcome.StopReason
	e.userPos = newPos
	e.stamina = newStamina

	e.advanceTime(outcome.TimeTaken)

	// Encounter check after movement, same rule. The minotaur may have
	// reappeared onto the user's cell during advanceTime.
	if e.encounter() {
		e.status = StatusDeath
		e.message = "The Minotaur catches you! Game Over."
		return e.buildResponse()
	}

	// Escape requires all three distinct stones at once.
	if e.hasAllStones() {
		e.status = StatusEscaped
		e.message = "You have collected all three mystical stones and escaped the labyrinth!"
		return e.buildResponse()
	}

	e.composeMessage(cmd, outcome)
	return e.buildResponse()
}

// applyLantern handles USE LANTERN: requires the item in inventory, and in
// the world (not on respawn cooldown). Reports a zero-step outcome.
func (e *Engine) applyLantern() Response {
	if !e.holds(ItemLantern) {
		e.message = "You don't have a lantern to use."
	} else if e.temporal.UseLantern() {
		e.removeItem(ItemLantern)
		e.message = "You raise the lantern! A brilliant light paralyzes the Minotaur."
	} else {
		e.message = "The lantern flickers but has no effect."
	}

	e.lastSteps = 0
	e.lastTime = 0
	e.lastStop = StopSuccess
	return e.buildResponse()
}

// advanceTime runs the temporal state machine and restores the minotaur to
// its vanish coordinates exactly once per vanish episode.
func (e *Engine) advanceTime(dt float64) {
	report := e.temporal.Advance(dt)
	if report.Reappeared {
		e.minotaurPos = e.temporal.ReentryPosition()
	}
}

// encounter reports co-location while the minotaur is actively chasing.
// Co-location while Vanished or Paralyzed is never fatal.
func (e *Engine) encounter() bool {
	switch e.temporal.Mode() {
	case Chasing:
		return e.userPos == e.minotaurPos
	case Vanished, Paralyzed:
		return false
	default:
		return false
	}
}

func (e *Engine) hasAllStones() bool {
	for _, stone := range Stones {
		if !e.holds(stone) {
			return false
		}
	}
	return true
}

func (e *Engine) holds(item Item) bool {
	for _, held := range e.inventory {
		if held == item {
			return true
		}
	}
	return false
}

func (e *Engine) removeItem(item Item) {
	for i, held := range e.inventory {
		if held == item {
			e.inventory = append(e.inventory[:i], e.inventory[i+1:]...)
			return
		}
	}
}

// composeMessage builds the narrative line for a non-terminal command.
func (e *Engine) composeMessage(cmd Command, outcome Outcome) {
	switch c := cmd.(type) {
	case MoveCommand:
		if outcome.StepsMoved == 0 {
			e.message = "You remain in place."
			return
		}
		// A run that ends on empty stamina reads as a walk.
		verb := "walk"
		if outcome.EffectiveSpeed == 2 && e.stamina > 0 {
			verb = "run"
		}
		e.message = fmt.Sprintf("You %s %s for %d steps.", verb, c.Direction, outcome.StepsMoved)
		if outcome.StopReason == StopCollision {
			e.message += " You stop at a wall."
		}
	case LookCommand:
		items := e.visibleItems()
		if len(items) == 0 {
			e.message = "You examine your surroundings. You see: nothing of interest."
		} else {
			e.message = fmt.Sprintf("You examine your surroundings. You see: %s.", itemList(items))
		}
	case GrabCommand:
		e.applyGrab(c)
	case HaltCommand:
		e.message = "You stop and listen carefully."
	default:
		e.message = "You remain in place."
	}
}

func (e *Engine) applyGrab(c GrabCommand) {
	if c.Target == "" {
		e.message = "You don't see anything worth grabbing here."
		return
	}
	if !e.visible(c.Target) {
		e.message = fmt.Sprintf("You don't see a %s here.", c.Target)
		return
	}
	// Stones are unique; everything else may repeat in the inventory.
	if c.Target.IsStone() && e.holds(c.Target) {
		e.message = fmt.Sprintf("You already carry the %s.", c.Target)
		return
	}
	e.inventory = append(e.inventory, c.Target)
	e.message = fmt.Sprintf("You grab the %s.", c.Target)
}

func (e *Engine) visible(item Item) bool {
	for _, v := range e.visibleItems() {
		if v == item {
			return true
		}
	}
	return false
}

// visibleItems derives at most one item from the user's cell coordinates.
// The hash is a pure function of (x, y) so visibility is reproducible for
// identical coordinates. The lantern only appears while the world lantern
// is available.
func (e *Engine) visibleItems() []Item {
	hash := (e.userPos.X*13 + e.userPos.Y*23) % 100
	switch {
	case hash < 3:
		return []Item{ItemRedStone}
	case hash < 6:
		return []Item{ItemBlueStone}
	case hash < 8:
		return []Item{ItemYellowStone}
	case hash < 10 && e.temporal.LanternAvailable():
		return []Item{ItemLantern}
	default:
		return nil
	}
}

// visiblePaths lists the open cardinal directions from the user's cell.
func (e *Engine) visiblePaths() []string {
	paths := openPaths(e.userPos, e.cfg.Grid)
	names := make([]string, len(paths))
	for i, d := range paths {
		names[i] = d.String()
	}
	return names
}

// minotaurCue composes the sound/state cue, by priority: Vanished and
// Paralyzed report their remaining durations; a chasing minotaur is banded
// by Euclidean distance; other modes never report a distance cue.
func (e *Engine) minotaurCue() string {
	switch e.temporal.Mode() {
	case Vanished:
		return fmt.Sprintf("The Minotaur has vanished... (%.1fs remaining)", e.temporal.JumpDuration())
	case Paralyzed:
		return fmt.Sprintf("The Minotaur is paralyzed by light! (%.1fs remaining)", e.temporal.ParalysisDuration())
	case Chasing:
		distance := e.userPos.DistanceTo(e.minotaurPos)
		switch {
		case distance <= e.cfg.Audio.VeryClose:
			return "The Minotaur's breathing is right behind you!"
		case distance <= e.cfg.Audio.Close:
			return "Heavy footsteps echo nearby."
		case distance <= e.cfg.Audio.Faint:
			return "You hear distant sounds in the labyrinth."
		default:
			return "The labyrinth is eerily quiet."
		}
	default:
		return "The labyrinth is eerily quiet."
	}
}

// buildResponse assembles the strict response record from current state.
func (e *Engine) buildResponse() Response {
	resp := Response{
		Status: e.status,
		UserState: UserState{
			Position:        e.userPos,
			StaminaPct:      math.Round(e.stamina*1000) / 10,
			Inventory:       e.Inventory(),
			LanternCooldown: e.temporal.LanternRespawn(),
		},
		Environment: Environment{
			VisiblePaths: e.visiblePaths(),
			VisibleItems: e.visibleItems(),
			Message:      e.message,
			StepsMoved:   e.lastSteps,
			TimeTaken:    e.lastTime,
			StopReason:   e.lastStop,
		},
		MinotaurCue:   e.minotaurCue(),
		RawTextOutput: e.message,
	}
	if err := resp.Validate(); err != nil {
		// A malformed response is a construction bug; surface it through
		// the engine's fault containment rather than returning it.
		panic(err)
	}
	return resp
}

// errorResponse builds a terminal ERROR response directly, bypassing the
// validating constructor so the fault containment path cannot itself panic.
func (e *Engine) errorResponse() Response {
	cooldown := 0.0
	if e.temporal != nil {
		cooldown = e.temporal.LanternRespawn()
	}
	return Response{
		Status: StatusError,
		UserState: UserState{
			Position:        e.userPos,
			StaminaPct:      math.Round(e.stamina*1000) / 10,
			Inventory:       e.Inventory(),
			LanternCooldown: cooldown,
		},
		Environment: Environment{
			Message:    e.message,
			StopReason: StopSuccess,
		},
		MinotaurCue:   "The labyrinth is eerily quiet.",
		RawTextOutput: e.message,
	}
}

func itemList(items []Item) string {
	s := ""
	for i, item := range items {
		if i > 0 {
			s += ", "
		}
		s += string(item)
	}
	return s
}
