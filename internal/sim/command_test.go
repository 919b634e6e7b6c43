package sim

import (
	"testing"

	"github.com/vovakirdan/labyrinth-hunt/internal/core"
)

func TestParseCommandJSON(t *testing.T) {
	cmd := ParseCommandJSON(`{"kind":"MOVE","direction":"NORTH","steps":5,"speed":2}`)
	move, ok := cmd.(MoveCommand)
	if !ok {
		t.Fatalf("parsed %T, want MoveCommand", cmd)
	}
	if move.Direction != core.North || move.Steps != 5 || move.Speed != 2 {
		t.Errorf("parsed %+v", move)
	}
}

func TestParseCommandDefaults(t *testing.T) {
	cmd := ParseCommandJSON(`{"kind":"MOVE","direction":"EAST"}`)
	move := cmd.(MoveCommand)
	if move.Steps != 100 {
		t.Errorf("steps = %d, want default 100", move.Steps)
	}
	if move.Speed != 1 {
		t.Errorf("speed = %d, want default 1", move.Speed)
	}
}

func TestParseCommandFallsBackToLook(t *testing.T) {
	cases := []string{
		`not json at all`,
		`{"kind":"FLY"}`,
		`{"kind":"MOVE","direction":"SIDEWAYS"}`,
		`{"kind":"MOVE","steps":-1}`,
		`{"kind":"MOVE","speed":3}`,
		`{"kind":"USE","target":"SWORD"}`,
		`{"kind":"LOOK","sneaky_extra":true}`,
		`{}`,
	}
	for _, raw := range cases {
		if _, ok := ParseCommandJSON(raw).(LookCommand); !ok {
			t.Errorf("input %q did not fall back to LOOK", raw)
		}
	}
}

func TestParseGrabWithoutTarget(t *testing.T) {
	cmd := ParseCommandJSON(`{"kind":"GRAB"}`)
	grab, ok := cmd.(GrabCommand)
	if !ok {
		t.Fatalf("parsed %T, want GrabCommand", cmd)
	}
	if grab.Target != "" {
		t.Errorf("target = %q, want empty", grab.Target)
	}
}

func TestParseDirectionSpellings(t *testing.T) {
	for _, s := range []string{"UP_RAMP", "UP RAMP", "up ramp"} {
		d, ok := ParseDirection(s)
		if !ok || d != core.UpRamp {
			t.Errorf("ParseDirection(%q) = %v, %v", s, d, ok)
		}
	}
}

func TestCommandWireRoundTrip(t *testing.T) {
	commands := []Command{
		MoveCommand{Direction: core.UpRamp, Steps: 3, Speed: 2},
		LookCommand{},
		GrabCommand{Target: ItemBlueStone},
		HaltCommand{},
		UseCommand{Target: ItemLantern},
	}
	for _, cmd := range commands {
		data, err := MarshalCommand(cmd)
		if err != nil {
			t.Fatalf("marshal %s: %v", cmd.Kind(), err)
		}
		parsed := ParseCommandJSON(string(data))
		if parsed.Kind() != cmd.Kind() {
			t.Errorf("round trip %s -> %s", cmd.Kind(), parsed.Kind())
		}
	}
}

func TestParseDecisionJSON(t *testing.T) {
	d := ParseDecisionJSON(`{"action":"PATHFIND","target_coords":{"x":20,"y":21,"z":0}}`)
	pf, ok := d.(PathfindDecision)
	if !ok {
		t.Fatalf("parsed %T, want PathfindDecision", d)
	}
	if pf.Target != (core.Position{X: 20, Y: 21, Z: 0}) {
		t.Errorf("target = %v", pf.Target)
	}

	if _, ok := ParseDecisionJSON(`{"action":"JUMP"}`).(JumpDecision); !ok {
		t.Error("JUMP not parsed")
	}
}

func TestParseDecisionFallsBackToWait(t *testing.T) {
	cases := []string{
		`garbage`,
		`{"action":"TELEPORT"}`,
		`{"action":"CHASE"}`, // Chase without coordinates is meaningless
		`{"action":"JUMP","extra":1}`,
	}
	for _, raw := range cases {
		if _, ok := ParseDecisionJSON(raw).(WaitDecision); !ok {
			t.Errorf("input %q did not fall back to WAIT", raw)
		}
	}
}

func TestDecisionWireRoundTrip(t *testing.T) {
	decisions := []Decision{
		PathfindDecision{Target: core.Position{X: 1, Y: 2, Z: 3}},
		ChaseDecision{Target: core.Position{X: 9, Y: 9}},
		JumpDecision{},
		WaitDecision{},
	}
	for _, d := range decisions {
		data, err := MarshalDecision(d)
		if err != nil {
			t.Fatalf("marshal %s: %v", d.Action(), err)
		}
		parsed := ParseDecisionJSON(string(data))
		if parsed.Action() != d.Action() {
			t.Errorf("round trip %s -> %s", d.Action(), parsed.Action())
		}
	}
}

func TestItemClassification(t *testing.T) {
	if !ItemRedStone.IsStone() || ItemLantern.IsStone() {
		t.Error("stone classification wrong")
	}
	if !ItemLantern.Valid() {
		t.Error("lantern should be a valid item")
	}
	if Item("SWORD").Valid() {
		t.Error("unknown item accepted")
	}
}
