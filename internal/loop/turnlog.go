package loop

import (
	"encoding/json"

	"github.com/vovakirdan/labyrinth-hunt/internal/core"
	"github.com/vovakirdan/labyrinth-hunt/internal/sim"
)

// TurnLog is one append-only record of an apply phase. Input holds the
// wire JSON of the applied command or decision, so a stored log replays
// losslessly through the sim parsers.
type TurnLog struct {
	Turn     int             `json:"turn"`
	Phase    string          `json:"phase"`
	Input    json.RawMessage `json:"input_or_decision"`
	Response ResponseSummary `json:"response_summary"`
}

// ResponseSummary is the compact view of a response kept per log record.
type ResponseSummary struct {
	Status     sim.Status    `json:"status"`
	Position   core.Position `json:"position"`
	StepsMoved int           `json:"steps_moved"`
	Message    string        `json:"message"`
}

func summarize(resp sim.Response) ResponseSummary {
	return ResponseSummary{
		Status:     resp.Status,
		Position:   resp.UserState.Position,
		StepsMoved: resp.Environment.StepsMoved,
		Message:    resp.Environment.Message,
	}
}

func (r *Runner) appendLog(phase Phase, input json.RawMessage, resp sim.Response) {
	r.state.Logs = append(r.state.Logs, TurnLog{
		Turn:     r.state.Turn,
		Phase:    phase.String(),
		Input:    input,
		Response: summarize(resp),
	})
}

func commandJSON(cmd sim.Command) json.RawMessage {
	raw, err := sim.MarshalCommand(cmd)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}

func decisionJSON(d sim.Decision) json.RawMessage {
	if d == nil {
		d = sim.WaitDecision{}
	}
	raw, err := sim.MarshalDecision(d)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}
