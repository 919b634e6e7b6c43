package sim

import (
	"encoding/json"
	"strings"

	"github.com/vovakirdan/labyrinth-hunt/internal/core"
)

// Decision is a validated minotaur action. Like Command it is a closed
// union: the only implementations are the decision types in this package.
type Decision interface {
	decision()
	// Action returns the wire name of the decision (PATHFIND, JUMP, ...).
	Action() string
}

// PathfindDecision moves the minotaur one unit step closer on each axis.
type PathfindDecision struct {
	Target core.Position
}

// ChaseDecision relocates the minotaur directly onto the target cell.
type ChaseDecision struct {
	Target core.Position
}

// JumpDecision triggers a temporal jump (vanish) if off cooldown.
type JumpDecision struct{}

// WaitDecision does nothing this phase.
type WaitDecision struct{}

func (PathfindDecision) decision() {}
func (ChaseDecision) decision()    {}
func (JumpDecision) decision()     {}
func (WaitDecision) decision()     {}

func (PathfindDecision) Action() string { return "PATHFIND" }
func (ChaseDecision) Action() string    { return "CHASE" }
func (JumpDecision) Action() string     { return "JUMP" }
func (WaitDecision) Action() string     { return "WAIT" }

// decisionWire mirrors the JSON schema for minotaur decisions.
type decisionWire struct {
	Action       string         `json:"action"`
	TargetCoords *core.Position `json:"target_coords,omitempty"`
}

// ParseDecisionJSON parses a JSON decision per the wire schema.
// On any malformation it returns the safe default WAIT, never an error.
func ParseDecisionJSON(raw string) Decision {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var w decisionWire
	if err := dec.Decode(&w); err != nil {
		return WaitDecision{}
	}

	switch strings.ToUpper(w.Action) {
	case "PATHFIND":
		if w.TargetCoords == nil {
			return WaitDecision{}
		}
		return PathfindDecision{Target: *w.TargetCoords}
	case "CHASE":
		if w.TargetCoords == nil {
			return WaitDecision{}
		}
		return ChaseDecision{Target: *w.TargetCoords}
	case "JUMP":
		return JumpDecision{}
	case "WAIT":
		return WaitDecision{}
	default:
		return WaitDecision{}
	}
}

// MarshalDecision serializes a decision to its wire JSON form.
func MarshalDecision(d Decision) ([]byte, error) {
	w := decisionWire{Action: d.Action()}
	switch dec := d.(type) {
	case PathfindDecision:
		t := dec.Target
		w.TargetCoords = &t
	case ChaseDecision:
		t := dec.Target
		w.TargetCoords = &t
	}
	return json.Marshal(w)
}
