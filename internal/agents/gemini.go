package agents

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/vovakirdan/labyrinth-hunt/internal/loop"
	"github.com/vovakirdan/labyrinth-hunt/internal/sim"
)

//go:embed prompts/translate_command.txt
var translateCommandPrompt string

//go:embed prompts/narrate_response.txt
var narratePrompt string

//go:embed prompts/decide_minotaur.txt
var decideMinotaurPrompt string

const geminiTimeout = 15 * time.Second

// Gemini wraps a generative model as a command translator and a response
// narrator. A nil *Gemini is valid and reports itself unavailable, so the
// caller can wire it unconditionally and fall back to the rule-based
// parser when no API key is configured.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini client. An empty API key returns (nil, nil).
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{
		client: client,
		model:  client.GenerativeModel("gemini-2.5-flash"),
	}, nil
}

// Close releases the underlying client. Safe on nil.
func (g *Gemini) Close() {
	if g != nil && g.client != nil {
		g.client.Close()
	}
}

// TranslateCommand asks the model for the wire JSON of the player's
// instruction and parses it through the strict command parser, so model
// output that drifts off schema still resolves to the safe default LOOK.
func (g *Gemini) TranslateCommand(raw string) (sim.Command, error) {
	if g == nil {
		return nil, errors.New("agents: gemini unavailable")
	}
	ctx, cancel := context.WithTimeout(context.Background(), geminiTimeout)
	defer cancel()

	text, err := g.generate(ctx, "translate_command", translateCommandPrompt,
		struct{ Input string }{Input: raw})
	if err != nil {
		return nil, err
	}
	return sim.ParseCommandJSON(stripFences(text)), nil
}

// DecideAction asks the model for the minotaur's next move and parses it
// through the strict decision parser, so off-schema output resolves to the
// safe default WAIT.
func (g *Gemini) DecideAction(obs loop.DecisionContext) (sim.Decision, error) {
	if g == nil {
		return nil, errors.New("agents: gemini unavailable")
	}
	ctx, cancel := context.WithTimeout(context.Background(), geminiTimeout)
	defer cancel()

	text, err := g.generate(ctx, "decide_minotaur", decideMinotaurPrompt, obs)
	if err != nil {
		return nil, err
	}
	return sim.ParseDecisionJSON(stripFences(text)), nil
}

// Narrate rewrites a response's mechanical outcome as flavor text.
func (g *Gemini) Narrate(ctx context.Context, resp sim.Response) (string, error) {
	if g == nil {
		return "", errors.New("agents: gemini unavailable")
	}
	data := struct {
		Status  string
		Message string
		Cue     string
		Stamina float64
	}{
		Status:  string(resp.Status),
		Message: resp.Environment.Message,
		Cue:     resp.MinotaurCue,
		Stamina: resp.UserState.StaminaPct,
	}
	text, err := g.generate(ctx, "narrate_response", narratePrompt, data)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (g *Gemini) generate(ctx context.Context, name, prompt string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(prompt)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(buf.String()))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return string(text), nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
