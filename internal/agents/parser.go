// Package agents provides the free-text front ends of the labyrinth: a
// rule-based command parser that handles short imperative phrases, and an
// optional Gemini-backed translator and narrator layered on top of it.
package agents

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/labyrinth-hunt/internal/sim"
)

// Parser is the rule-based command translator. It classifies phrases like
// "run east 10", "grab red stone" or "use lantern" and returns an error
// for anything it cannot classify, leaving the fallback to the caller.
type Parser struct{}

// TranslateCommand maps one phrase to a validated command.
func (Parser) TranslateCommand(raw string) (sim.Command, error) {
	fields := strings.Fields(strings.ToLower(raw))
	if len(fields) == 0 {
		return sim.LookCommand{}, nil
	}

	switch fields[0] {
	case "look", "examine", "explore":
		return sim.LookCommand{}, nil
	case "halt", "stop", "wait", "listen":
		return sim.HaltCommand{}, nil
	case "move", "walk", "go", "run", "sprint":
		return parseMove(fields[0], fields[1:])
	case "grab", "take", "get", "pick":
		return parseGrab(fields[1:])
	case "use", "raise", "light":
		return parseUse(fields[1:])
	default:
		return nil, fmt.Errorf("agents: unrecognized phrase %q", raw)
	}
}

func parseMove(verb string, rest []string) (sim.Command, error) {
	speed := 1
	if verb == "run" || verb == "sprint" {
		speed = 2
	}

	steps := 0
	if len(rest) > 0 {
		if n, err := strconv.Atoi(rest[len(rest)-1]); err == nil {
			if n < 1 {
				return nil, fmt.Errorf("agents: step count must be positive, got %d", n)
			}
			steps = n
			rest = rest[:len(rest)-1]
		}
	}
	if len(rest) == 0 {
		return nil, fmt.Errorf("agents: movement needs a direction")
	}

	dir, ok := sim.ParseDirection(strings.Join(rest, " "))
	if !ok {
		return nil, fmt.Errorf("agents: unknown direction %q", strings.Join(rest, " "))
	}

	cmd := sim.MoveCommand{Direction: dir, Steps: steps, Speed: speed}
	if cmd.Steps == 0 {
		cmd.Steps = 100
	}
	return cmd, nil
}

func parseGrab(rest []string) (sim.Command, error) {
	// "pick up X" reaches here as ["up", "x"].
	if len(rest) > 0 && rest[0] == "up" {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return sim.GrabCommand{}, nil
	}
	item, ok := parseItemPhrase(rest)
	if !ok {
		return nil, fmt.Errorf("agents: unknown item %q", strings.Join(rest, " "))
	}
	return sim.GrabCommand{Target: item}, nil
}

func parseUse(rest []string) (sim.Command, error) {
	if len(rest) == 0 {
		return nil, fmt.Errorf("agents: use needs an item")
	}
	item, ok := parseItemPhrase(rest)
	if !ok {
		return nil, fmt.Errorf("agents: unknown item %q", strings.Join(rest, " "))
	}
	return sim.UseCommand{Target: item}, nil
}

// parseItemPhrase accepts full item names and the bare stone colors.
func parseItemPhrase(words []string) (sim.Item, bool) {
	phrase := strings.Join(words, " ")
	if item, ok := sim.ParseItem(phrase); ok {
		return item, true
	}
	switch strings.ToLower(phrase) {
	case "red", "blue", "yellow":
		return sim.ParseItem(phrase + " stone")
	case "the lantern":
		return sim.ItemLantern, true
	default:
		return "", false
	}
}
