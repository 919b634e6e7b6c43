package loop

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/labyrinth-hunt/internal/config"
	"github.com/vovakirdan/labyrinth-hunt/internal/core"
	"github.com/vovakirdan/labyrinth-hunt/internal/sim"
)

func newTestRunner(t *testing.T, opts ...Option) (*Runner, *sim.Engine) {
	t.Helper()
	cfg := config.Default()
	engine := sim.New(cfg, 42)
	return NewRunner(engine, cfg, opts...), engine
}

func TestTurnCycleAdvancesPhasesAndTurn(t *testing.T) {
	r, _ := newTestRunner(t)

	state := r.RunTurn("")

	if state.Turn != 2 {
		t.Errorf("Turn = %d, want 2", state.Turn)
	}
	if state.Phase != PhaseUserDecide {
		t.Errorf("Phase = %v, want user_decide", state.Phase)
	}
	if state.LastCommand.Kind() != "LOOK" {
		t.Errorf("empty input resolved to %s, want LOOK", state.LastCommand.Kind())
	}
	if len(state.Logs) != 2 {
		t.Fatalf("len(Logs) = %d, want 2", len(state.Logs))
	}
	if state.Logs[0].Phase != "user_apply" || state.Logs[1].Phase != "minotaur_apply" {
		t.Errorf("log phases = %q, %q", state.Logs[0].Phase, state.Logs[1].Phase)
	}
	if state.Logs[0].Turn != 1 || state.Logs[1].Turn != 1 {
		t.Errorf("log turns = %d, %d, want 1, 1", state.Logs[0].Turn, state.Logs[1].Turn)
	}
}

func TestFarAndReadyMinotaurJumps(t *testing.T) {
	// Spawn distance is well beyond the jump threshold and the cooldown
	// starts expired, so the very first decision is a jump.
	r, e := newTestRunner(t)

	state := r.RunTurn("")

	if _, ok := state.LastDecision.(sim.JumpDecision); !ok {
		t.Fatalf("LastDecision = %T, want JumpDecision", state.LastDecision)
	}
	if e.Mode() != sim.Vanished {
		t.Errorf("Mode = %v after jump, want Vanished", e.Mode())
	}
}

func TestPathfindStepsOneCellPerAxis(t *testing.T) {
	_, e := newTestRunner(t)
	e.SetMinotaurPosition(core.Position{X: 18, Y: 20, Z: 0})

	d := Decide(e, config.Default().Policy)

	pf, ok := d.(sim.PathfindDecision)
	if !ok {
		t.Fatalf("Decide = %T, want PathfindDecision", d)
	}
	want := core.Position{X: 19, Y: 21, Z: 0}
	if pf.Target != want {
		t.Errorf("Target = %v, want %v", pf.Target, want)
	}
}

func TestCloseMinotaurChasesOntoUserCell(t *testing.T) {
	_, e := newTestRunner(t)
	e.SetMinotaurPosition(core.Position{X: 23, Y: 25, Z: 0})

	d := Decide(e, config.Default().Policy)

	ch, ok := d.(sim.ChaseDecision)
	if !ok {
		t.Fatalf("Decide = %T, want ChaseDecision", d)
	}
	if ch.Target != e.UserPosition() {
		t.Errorf("Target = %v, want user cell %v", ch.Target, e.UserPosition())
	}
}

func TestVanishedMinotaurKeepsClosing(t *testing.T) {
	_, e := newTestRunner(t)
	e.SetMinotaurPosition(core.Position{X: 18, Y: 20, Z: 0})
	if !e.TriggerJump() {
		t.Fatal("TriggerJump failed")
	}

	// The jump is spent, so medium range resolves to a pathfind step even
	// while the minotaur is out of the world.
	d := Decide(e, config.Default().Policy)
	pf, ok := d.(sim.PathfindDecision)
	if !ok {
		t.Fatalf("Decide = %T while vanished, want PathfindDecision", d)
	}
	if want := (core.Position{X: 19, Y: 21, Z: 0}); pf.Target != want {
		t.Errorf("Target = %v, want %v", pf.Target, want)
	}
}

func TestParalyzedMinotaurStillChases(t *testing.T) {
	_, e := newTestRunner(t)

	// Walk to a lantern cell, grab the lantern and raise it.
	for _, cmd := range []sim.Command{
		sim.MoveCommand{Direction: core.East, Steps: 16, Speed: 1},
		sim.GrabCommand{Target: sim.ItemLantern},
		sim.UseCommand{Target: sim.ItemLantern},
	} {
		if resp := e.Apply(cmd); resp.Status != sim.StatusActive {
			t.Fatalf("setup command %s ended with status %s", cmd.Kind(), resp.Status)
		}
	}
	if e.Mode() != sim.Paralyzed {
		t.Fatalf("Mode = %v, want Paralyzed", e.Mode())
	}

	// Paralysis stops the kill, not the pursuit: close range still chases
	// onto the user's cell.
	e.SetMinotaurPosition(core.Position{X: 41, Y: 27, Z: 0})
	d := Decide(e, config.Default().Policy)
	ch, ok := d.(sim.ChaseDecision)
	if !ok {
		t.Fatalf("Decide = %T while paralyzed, want ChaseDecision", d)
	}
	if ch.Target != e.UserPosition() {
		t.Errorf("Target = %v, want user cell %v", ch.Target, e.UserPosition())
	}
}

func TestChaseSurfacesDeathInSameTurn(t *testing.T) {
	r, e := newTestRunner(t)
	e.SetMinotaurPosition(core.Position{X: 24, Y: 25, Z: 0})

	state := r.RunTurn("")

	if state.Status != sim.StatusDeath {
		t.Fatalf("Status = %v, want DEATH", state.Status)
	}
	if got := state.LastResponse.Environment.Message; got != "The Minotaur catches you! Game Over." {
		t.Errorf("message = %q", got)
	}
}

func TestTerminalStatusStopsLoop(t *testing.T) {
	r, e := newTestRunner(t)
	e.SetMinotaurPosition(e.UserPosition())

	state := r.Run(10, nil)

	if state.Status != sim.StatusDeath {
		t.Fatalf("Status = %v, want DEATH", state.Status)
	}
	if state.Turn != 2 {
		t.Errorf("Turn = %d, want 2 (loop must stop after the fatal cycle)", state.Turn)
	}
	if r.ShouldContinue() {
		t.Error("ShouldContinue = true after terminal status")
	}
	if d := state.LastDecision; d.Action() != "WAIT" {
		t.Errorf("post-terminal decision = %s, want WAIT", d.Action())
	}
}

func TestSingleTurnModeStopsAfterOneCycle(t *testing.T) {
	r, _ := newTestRunner(t, WithSingleTurn())

	state := r.Run(10, nil)

	if state.Turn != 2 {
		t.Errorf("Turn = %d, want 2", state.Turn)
	}
	if r.ShouldContinue() {
		t.Error("ShouldContinue = true in single-turn mode after one cycle")
	}
}

type failingTranslator struct{}

func (failingTranslator) TranslateCommand(string) (sim.Command, error) {
	return nil, errors.New("translation unavailable")
}

func TestTranslatorFailureFallsBackToLook(t *testing.T) {
	r, _ := newTestRunner(t, WithTranslator(failingTranslator{}))

	state := r.RunTurn("sprint north")

	if state.LastCommand.Kind() != "LOOK" {
		t.Errorf("command = %s, want LOOK fallback", state.LastCommand.Kind())
	}
	if state.Status == sim.StatusError {
		t.Error("translator failure must not produce an ERROR status")
	}
}

type fixedDecider struct {
	d   sim.Decision
	err error
}

func (f fixedDecider) DecideAction(DecisionContext) (sim.Decision, error) {
	return f.d, f.err
}

func TestExternalDeciderIsUsed(t *testing.T) {
	cfg := config.Default()
	engine := sim.New(cfg, 42)
	// Close enough that the heuristic would chase, so a WAIT here proves
	// the external decider was consulted.
	engine.SetMinotaurPosition(core.Position{X: 24, Y: 24, Z: 0})
	r := NewRunner(engine, cfg, WithDecisionMaker(fixedDecider{d: sim.WaitDecision{}}))

	state := r.RunTurn("")

	if state.LastDecision.Action() != "WAIT" {
		t.Errorf("decision = %s, want WAIT from external decider", state.LastDecision.Action())
	}
	if state.Status != sim.StatusActive {
		t.Errorf("Status = %v, want ACTIVE", state.Status)
	}
}

func TestFailingDeciderFallsBackToHeuristic(t *testing.T) {
	cfg := config.Default()
	engine := sim.New(cfg, 42)
	engine.SetMinotaurPosition(core.Position{X: 23, Y: 25, Z: 0})
	r := NewRunner(engine, cfg, WithDecisionMaker(fixedDecider{err: errors.New("model down")}))

	state := r.RunTurn("")

	if _, ok := state.LastDecision.(sim.ChaseDecision); !ok {
		t.Errorf("decision = %T, want heuristic ChaseDecision fallback", state.LastDecision)
	}
}

func TestRawJSONInputWithoutTranslator(t *testing.T) {
	r, e := newTestRunner(t)

	state := r.RunTurn(`{"kind":"MOVE","direction":"NORTH","steps":3,"speed":1}`)

	if state.Logs[0].Response.StepsMoved != 3 {
		t.Errorf("StepsMoved = %d, want 3", state.Logs[0].Response.StepsMoved)
	}
	if got := e.UserPosition(); got.Y != 28 {
		t.Errorf("user Y = %d, want 28", got.Y)
	}
}

func TestTurnLogsRoundTrip(t *testing.T) {
	r, _ := newTestRunner(t)
	r.Run(3, func(turn int) string {
		return `{"kind":"MOVE","direction":"EAST","steps":2,"speed":1}`
	})

	raw, err := json.Marshal(r.State().Logs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded []TurnLog
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, r.State().Logs) {
		t.Error("turn logs did not survive a JSON round trip")
	}
	for _, entry := range decoded {
		if entry.Phase == "user_apply" {
			if cmd := sim.ParseCommandJSON(string(entry.Input)); cmd.Kind() != "MOVE" {
				t.Errorf("replayed input parsed to %s, want MOVE", cmd.Kind())
			}
		}
	}
}

func TestDeterministicRuns(t *testing.T) {
	script := func(turn int) string {
		return `{"kind":"MOVE","direction":"NORTH","steps":4,"speed":2}`
	}

	cfg := config.Default()
	a := NewRunner(sim.New(cfg, 7), cfg)
	b := NewRunner(sim.New(cfg, 7), cfg)
	a.Run(5, script)
	b.Run(5, script)

	rawA, _ := json.Marshal(a.State().Logs)
	rawB, _ := json.Marshal(b.State().Logs)
	if string(rawA) != string(rawB) {
		t.Error("equal seeds and scripts produced different turn logs")
	}
}

// faultyDecision blows up when its wire form is requested, standing in for
// any unexpected fault inside the minotaur phase.
type faultyDecision struct{ sim.WaitDecision }

func (faultyDecision) Action() string { panic("wire fault") }

func TestMinotaurPhaseFaultFabricatesErrorResponse(t *testing.T) {
	r, _ := newTestRunner(t)
	r.state.Phase = PhaseMinotaurApply
	r.state.LastDecision = faultyDecision{}

	r.minotaurApply()

	state := r.state
	if state.Status != sim.StatusError {
		t.Fatalf("Status = %v, want ERROR", state.Status)
	}
	if state.LastResponse.Status != sim.StatusError {
		t.Errorf("LastResponse.Status = %v, want a fabricated ERROR response", state.LastResponse.Status)
	}
	if state.LastResponse.Environment.Message == "" {
		t.Error("fabricated response carries no message")
	}
	if len(state.Logs) != 1 {
		t.Fatalf("len(Logs) = %d, want 1 entry for the faulted phase", len(state.Logs))
	}
	if state.Logs[0].Phase != "minotaur_apply" || state.Logs[0].Response.Status != sim.StatusError {
		t.Errorf("log entry = %+v", state.Logs[0])
	}
	if state.Turn != 2 {
		t.Errorf("Turn = %d, want 2", state.Turn)
	}
	if r.ShouldContinue() {
		t.Error("ShouldContinue = true after a phase fault")
	}
}
