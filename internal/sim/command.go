// Package sim implements the deterministic labyrinth simulation: movement
// physics, the minotaur's temporal state machine, and the game state engine
// that resolves validated commands into responses.
package sim

import (
	"encoding/json"
	"strings"

	"github.com/vovakirdan/labyrinth-hunt/internal/core"
)

// Item is a named pickup found in the labyrinth.
type Item string

const (
	ItemRedStone    Item = "RED STONE"
	ItemBlueStone   Item = "BLUE STONE"
	ItemYellowStone Item = "YELLOW STONE"
	ItemLantern     Item = "LANTERN"
)

// Stones lists the three stones required to escape.
var Stones = []Item{ItemRedStone, ItemBlueStone, ItemYellowStone}

// Valid reports whether the item name is part of the closed enumeration.
func (i Item) Valid() bool {
	switch i {
	case ItemRedStone, ItemBlueStone, ItemYellowStone, ItemLantern:
		return true
	default:
		return false
	}
}

// IsStone reports whether the item is one of the three escape stones.
func (i Item) IsStone() bool {
	return i == ItemRedStone || i == ItemBlueStone || i == ItemYellowStone
}

// Command is a validated user command. It is a closed union: the only
// implementations are the command types in this package.
type Command interface {
	command()
	// Kind returns the wire name of the command (MOVE, LOOK, ...).
	Kind() string
}

// MoveCommand moves the user a number of steps in one direction.
// Direction may be NoDirection, in which case the command is a no-op.
type MoveCommand struct {
	Direction core.Direction
	Steps     int // >= 1
	Speed     int // 1 = walk, 2 = run
}

// LookCommand examines the surroundings without moving.
type LookCommand struct{}

// GrabCommand picks up a visible item. Target may be empty.
type GrabCommand struct {
	Target Item
}

// HaltCommand stops and listens; no state change.
type HaltCommand struct{}

// UseCommand activates an item from the inventory.
type UseCommand struct {
	Target Item
}

func (MoveCommand) command() {}
func (LookCommand) command() {}
func (GrabCommand) command() {}
func (HaltCommand) command() {}
func (UseCommand) command()  {}

func (MoveCommand) Kind() string { return "MOVE" }
func (LookCommand) Kind() string { return "LOOK" }
func (GrabCommand) Kind() string { return "GRAB" }
func (HaltCommand) Kind() string { return "HALT" }
func (UseCommand) Kind() string  { return "USE" }

// NoDirection marks a MOVE command without a direction.
const NoDirection core.Direction = -1

const (
	defaultSteps = 100
	defaultSpeed = 1
)

// commandWire mirrors the JSON schema for commands.
type commandWire struct {
	Kind      string `json:"kind"`
	Direction string `json:"direction,omitempty"`
	Steps     int    `json:"steps,omitempty"`
	Speed     int    `json:"speed,omitempty"`
	Target    string `json:"target,omitempty"`
}

// ParseDirection maps a wire direction name to a core.Direction.
// Both "UP_RAMP" and "UP RAMP" spellings are accepted.
func ParseDirection(s string) (core.Direction, bool) {
	switch strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "_", " ") {
	case "NORTH":
		return core.North, true
	case "SOUTH":
		return core.South, true
	case "EAST":
		return core.East, true
	case "WEST":
		return core.West, true
	case "UP RAMP", "UP":
		return core.UpRamp, true
	case "DOWN RAMP", "DOWN":
		return core.DownRamp, true
	default:
		return NoDirection, false
	}
}

// ParseItem maps a wire item name to an Item from the closed enumeration.
func ParseItem(s string) (Item, bool) {
	item := Item(strings.ToUpper(strings.TrimSpace(s)))
	if item.Valid() {
		return item, true
	}
	return "", false
}

// ParseCommandJSON parses a JSON command per the wire schema.
// On any malformation it returns the safe default LOOK, never an error:
// unparseable or schema-invalid input is recovered locally.
func ParseCommandJSON(raw string) Command {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var w commandWire
	if err := dec.Decode(&w); err != nil {
		return LookCommand{}
	}
	cmd, err := commandFromWire(w)
	if err != nil {
		return LookCommand{}
	}
	return cmd
}

// commandFromWire validates a wire command and builds the typed union value.
func commandFromWire(w commandWire) (Command, error) {
	steps := w.Steps
	if steps == 0 {
		steps = defaultSteps
	}
	speed := w.Speed
	if speed == 0 {
		speed = defaultSpeed
	}
	if steps < 1 {
		return nil, errInvalidCommand("steps must be >= 1")
	}
	if speed != 1 && speed != 2 {
		return nil, errInvalidCommand("speed must be 1 or 2")
	}

	switch w.Kind {
	case "MOVE":
		dir := NoDirection
		if w.Direction != "" {
			d, ok := ParseDirection(w.Direction)
			if !ok {
				return nil, errInvalidCommand("unknown direction " + w.Direction)
			}
			dir = d
		}
		return MoveCommand{Direction: dir, Steps: steps, Speed: speed}, nil
	case "LOOK":
		return LookCommand{}, nil
	case "HALT":
		return HaltCommand{}, nil
	case "GRAB":
		if w.Target == "" {
			return GrabCommand{}, nil
		}
		item, ok := ParseItem(w.Target)
		if !ok {
			return nil, errInvalidCommand("unknown item " + w.Target)
		}
		return GrabCommand{Target: item}, nil
	case "USE":
		item, ok := ParseItem(w.Target)
		if !ok {
			return nil, errInvalidCommand("unknown item " + w.Target)
		}
		return UseCommand{Target: item}, nil
	default:
		return nil, errInvalidCommand("unknown kind " + w.Kind)
	}
}

// MarshalCommand serializes a command to its wire JSON form.
func MarshalCommand(c Command) ([]byte, error) {
	return json.Marshal(commandToWire(c))
}

func commandToWire(c Command) commandWire {
	switch cmd := c.(type) {
	case MoveCommand:
		w := commandWire{Kind: "MOVE", Steps: cmd.Steps, Speed: cmd.Speed}
		if cmd.Direction != NoDirection {
			w.Direction = cmd.Direction.String()
		}
		return w
	case GrabCommand:
		return commandWire{Kind: "GRAB", Target: string(cmd.Target)}
	case UseCommand:
		return commandWire{Kind: "USE", Target: string(cmd.Target)}
	case HaltCommand:
		return commandWire{Kind: "HALT"}
	default:
		return commandWire{Kind: "LOOK"}
	}
}

type errInvalidCommand string

func (e errInvalidCommand) Error() string { return "sim: invalid command: " + string(e) }
