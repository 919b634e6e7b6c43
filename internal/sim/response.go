package sim

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/labyrinth-hunt/internal/core"
)

// Status is the session-level game status.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusDeath   Status = "DEATH"
	StatusEscaped Status = "ESCAPED"
	StatusError   Status = "ERROR"
)

// Terminal reports whether the status ends the session.
func (s Status) Terminal() bool {
	return s == StatusDeath || s == StatusEscaped || s == StatusError
}

// UserState is the user-facing half of a response.
type UserState struct {
	Position        core.Position `json:"position"`
	StaminaPct      float64       `json:"stamina_pct"`
	Inventory       []Item        `json:"inventory"`
	LanternCooldown float64       `json:"lantern_cooldown"`
}

// Environment is the world-facing half of a response.
type Environment struct {
	VisiblePaths []string   `json:"visible_paths"`
	VisibleItems []Item     `json:"visible_items"`
	Message      string     `json:"message"`
	StepsMoved   int        `json:"steps_moved"`
	TimeTaken    float64    `json:"time_taken"`
	StopReason   StopReason `json:"stop_reason"`
}

// Response is the immutable output record of one resolved command. Its
// schema is the caller's contract: decoding rejects unknown fields and
// construction validates required fields instead of silently coercing.
type Response struct {
	Status        Status      `json:"status"`
	UserState     UserState   `json:"user_state"`
	Environment   Environment `json:"environment"`
	MinotaurCue   string      `json:"minotaur_cue"`
	RawTextOutput string      `json:"raw_text_output"`
}

// Validate checks the construction invariants of the response schema.
func (r Response) Validate() error {
	switch r.Status {
	case StatusActive, StatusDeath, StatusEscaped, StatusError:
	default:
		return fmt.Errorf("sim: response has invalid status %q", r.Status)
	}
	switch r.Environment.StopReason {
	case StopSuccess, StopCollision:
	default:
		return fmt.Errorf("sim: response has invalid stop reason %q", r.Environment.StopReason)
	}
	if r.MinotaurCue == "" {
		return fmt.Errorf("sim: response is missing the minotaur cue")
	}
	if r.RawTextOutput == "" {
		return fmt.Errorf("sim: response is missing raw text output")
	}
	return nil
}

// DecodeResponse parses a response from JSON, rejecting unknown fields.
// A response carrying an unexpected field is a contract violation and fails
// hard rather than being silently dropped.
func DecodeResponse(data []byte) (Response, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var r Response
	if err := dec.Decode(&r); err != nil {
		return Response{}, fmt.Errorf("sim: decode response: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Response{}, err
	}
	return r, nil
}
