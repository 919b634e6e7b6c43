// Package loop drives the four-phase turn cycle of a labyrinth session:
// user-decide, user-apply, minotaur-decide, minotaur-apply. It is an
// explicit finite-state machine with a typed transition table; every phase
// contains its own faults and substitutes a documented safe default, so
// the loop as a whole never panics.
package loop

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/labyrinth-hunt/internal/config"
	"github.com/vovakirdan/labyrinth-hunt/internal/core"
	"github.com/vovakirdan/labyrinth-hunt/internal/sim"
)

// Phase is one of the four orchestrator states within a turn.
type Phase int

const (
	PhaseUserDecide Phase = iota
	PhaseUserApply
	PhaseMinotaurDecide
	PhaseMinotaurApply
)

// String returns the log name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseUserDecide:
		return "user_decide"
	case PhaseUserApply:
		return "user_apply"
	case PhaseMinotaurDecide:
		return "minotaur_decide"
	case PhaseMinotaurApply:
		return "minotaur_apply"
	default:
		return "unknown"
	}
}

// transitions is the loop's typed transition table. The state space is
// small and fixed; minotaur_apply wraps back to user_decide.
var transitions = map[Phase]Phase{
	PhaseUserDecide:     PhaseUserApply,
	PhaseUserApply:      PhaseMinotaurDecide,
	PhaseMinotaurDecide: PhaseMinotaurApply,
	PhaseMinotaurApply:  PhaseUserDecide,
}

// phaseCeiling bounds the phase steps of a single turn. A full cycle takes
// exactly four steps; the ceiling guarantees termination even if the
// transition table is ever miswired.
const phaseCeiling = 8

// CommandTranslator maps free-text user input to a validated command.
// Implementations must fall back internally where they can; any returned
// error resolves to the safe default LOOK.
type CommandTranslator interface {
	TranslateCommand(raw string) (sim.Command, error)
}

// DecisionContext is the minotaur's observation for one decision.
type DecisionContext struct {
	MinotaurPosition core.Position
	UserPosition     core.Position
	Mode             string
	JumpReady        bool
	Distance         float64
}

// DecisionMaker picks the minotaur's action from its observation. Any
// returned error resolves to the built-in heuristic policy.
type DecisionMaker interface {
	DecideAction(ctx DecisionContext) (sim.Decision, error)
}

// TurnState is the orchestrator-owned state threaded through the phases.
type TurnState struct {
	Engine *sim.Engine

	Turn  int // Starts at 1
	Phase Phase

	LastCommand  sim.Command
	LastResponse sim.Response
	LastDecision sim.Decision
	Status       sim.Status

	Logs       []TurnLog
	SingleTurn bool
}

// Runner executes turns against one engine.
type Runner struct {
	state      *TurnState
	cfg        config.LabyrinthConfig
	translator CommandTranslator
	decider    DecisionMaker
	logger     *log.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithTranslator installs a free-text command translator. Without one, raw
// input is parsed as wire JSON.
func WithTranslator(t CommandTranslator) Option {
	return func(r *Runner) { r.translator = t }
}

// WithDecisionMaker installs an external minotaur decider. Without one, or
// whenever it fails, the built-in heuristic policy decides.
func WithDecisionMaker(d DecisionMaker) Option {
	return func(r *Runner) { r.decider = d }
}

// WithLogger installs a structured logger for phase tracing.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithSingleTurn stops the loop after the first full cycle.
func WithSingleTurn() Option {
	return func(r *Runner) { r.state.SingleTurn = true }
}

// NewRunner creates a turn runner over a fresh or in-progress engine.
func NewRunner(engine *sim.Engine, cfg config.LabyrinthConfig, opts ...Option) *Runner {
	r := &Runner{
		state: &TurnState{
			Engine: engine,
			Turn:   1,
			Phase:  PhaseUserDecide,
			Status: engine.Status(),
		},
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the orchestrator state.
func (r *Runner) State() *TurnState { return r.state }

// ShouldContinue is the loop's continuation predicate: the session runs
// until a terminal status, or after one cycle in single-turn mode.
func (r *Runner) ShouldContinue() bool {
	if r.state.Status.Terminal() {
		return false
	}
	if r.state.SingleTurn && r.state.Turn > 1 {
		return false
	}
	return true
}

// RunTurn executes one full cycle for the given free-text input. An empty
// input defaults to LOOK. The returned state is the runner's own.
func (r *Runner) RunTurn(input string) *TurnState {
	for steps := 0; steps < phaseCeiling; steps++ {
		switch r.state.Phase {
		case PhaseUserDecide:
			r.userDecide(input)
		case PhaseUserApply:
			r.userApply()
		case PhaseMinotaurDecide:
			r.minotaurDecide()
		case PhaseMinotaurApply:
			r.minotaurApply()
		}
		wrapped := r.state.Phase == PhaseMinotaurApply
		r.state.Phase = transitions[r.state.Phase]
		if wrapped {
			break
		}
	}
	return r.state
}

// Run executes turns until the continuation predicate fails or maxTurns
// full cycles have run. inputs supplies the free text for each turn and
// may be nil (every turn defaults to LOOK).
func (r *Runner) Run(maxTurns int, inputs func(turn int) string) *TurnState {
	for cycles := 0; cycles < maxTurns && r.ShouldContinue(); cycles++ {
		input := ""
		if inputs != nil {
			input = inputs(r.state.Turn)
		}
		r.RunTurn(input)
	}
	return r.state
}

// userDecide resolves the free-text input into a command. Empty input and
// every parse or translator failure resolve to LOOK.
func (r *Runner) userDecide(input string) {
	r.state.LastCommand = r.resolveCommand(input)
	r.logger.Debug("phase", "phase", PhaseUserDecide, "turn", r.state.Turn, "command", r.state.LastCommand.Kind())
}

func (r *Runner) resolveCommand(input string) (cmd sim.Command) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("command resolution fault, defaulting to LOOK", "fault", rec)
			cmd = sim.LookCommand{}
		}
	}()

	if input == "" {
		return sim.LookCommand{}
	}
	if r.translator != nil {
		translated, err := r.translator.TranslateCommand(input)
		if err != nil || translated == nil {
			r.logger.Warn("translator failed, defaulting to LOOK", "input", input, "error", err)
			return sim.LookCommand{}
		}
		return translated
	}
	return sim.ParseCommandJSON(input)
}

// userApply applies the decided command to the engine and records a log
// entry. The engine's own fault containment turns panics into terminal
// ERROR responses, so no recovery is needed at this phase boundary.
func (r *Runner) userApply() {
	cmd := r.state.LastCommand
	if cmd == nil {
		cmd = sim.LookCommand{}
	}
	resp := r.state.Engine.Apply(cmd)
	r.state.LastResponse = resp
	r.state.Status = resp.Status
	r.appendLog(PhaseUserApply, commandJSON(cmd), resp)
	r.logger.Debug("phase", "phase", PhaseUserApply, "turn", r.state.Turn, "status", resp.Status)
}

// minotaurDecide picks the minotaur's action. A terminal last status
// always resolves to WAIT, as does any internal fault.
func (r *Runner) minotaurDecide() {
	r.state.LastDecision = r.decide()
	r.logger.Debug("phase", "phase", PhaseMinotaurDecide, "turn", r.state.Turn, "decision", r.state.LastDecision.Action())
}

func (r *Runner) decide() (d sim.Decision) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("decision fault, defaulting to WAIT", "fault", rec)
			d = sim.WaitDecision{}
		}
	}()

	if r.state.Status.Terminal() {
		return sim.WaitDecision{}
	}

	if r.decider != nil {
		e := r.state.Engine
		ctx := DecisionContext{
			MinotaurPosition: e.MinotaurPosition(),
			UserPosition:     e.UserPosition(),
			Mode:             e.Mode().String(),
			JumpReady:        e.JumpReady(),
			Distance:         e.MinotaurPosition().DistanceTo(e.UserPosition()),
		}
		decided, err := r.decider.DecideAction(ctx)
		if err == nil && decided != nil {
			return decided
		}
		r.logger.Warn("external decider failed, using heuristic", "error", err)
	}

	return Decide(r.state.Engine, r.cfg.Policy)
}

// minotaurApply executes the decision, surfaces the resulting world state
// through an internal LOOK, logs, and advances the turn counter.
func (r *Runner) minotaurApply() {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("minotaur apply fault", "fault", rec)
			resp := r.state.Engine.Fail(fmt.Sprintf("minotaur phase fault: %v", rec))
			r.state.LastResponse = resp
			r.state.Status = resp.Status
			// The decision itself may be what faulted; log a literal WAIT
			// rather than re-marshaling it.
			r.appendLog(PhaseMinotaurApply, json.RawMessage(`{"action":"WAIT"}`), resp)
			r.state.Turn++
		}
	}()

	// After a terminal response the world is frozen: record the decision
	// (always WAIT) against the final response and close out the turn.
	if r.state.Status.Terminal() {
		r.appendLog(PhaseMinotaurApply, decisionJSON(r.state.LastDecision), r.state.LastResponse)
		r.state.Turn++
		return
	}

	switch d := r.state.LastDecision.(type) {
	case sim.JumpDecision:
		r.state.Engine.TriggerJump()
	case sim.PathfindDecision:
		r.state.Engine.SetMinotaurPosition(d.Target)
	case sim.ChaseDecision:
		r.state.Engine.SetMinotaurPosition(d.Target)
	case sim.WaitDecision:
		// No-op.
	}

	resp := r.state.Engine.Apply(sim.LookCommand{})
	r.state.LastResponse = resp
	r.state.Status = resp.Status
	r.appendLog(PhaseMinotaurApply, decisionJSON(r.state.LastDecision), resp)
	r.logger.Debug("phase", "phase", PhaseMinotaurApply, "turn", r.state.Turn, "status", resp.Status)
	r.state.Turn++
}
