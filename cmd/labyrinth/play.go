package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/labyrinth-hunt/internal/agents"
	"github.com/vovakirdan/labyrinth-hunt/internal/config"
	"github.com/vovakirdan/labyrinth-hunt/internal/loop"
	"github.com/vovakirdan/labyrinth-hunt/internal/platform/tui"
	"github.com/vovakirdan/labyrinth-hunt/internal/storage"
)

var flagGeminiKey string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play interactively in the terminal",
	Long: `Start an interactive session. Type commands at the prompt:

  move north 5     - Walk 5 steps north
  run east         - Sprint east (drains stamina)
  look             - Examine your surroundings
  grab red stone   - Pick up a visible item
  use lantern      - Paralyze a chasing minotaur
  halt             - Stop and listen

With a Gemini API key (--gemini-key or GEMINI_API_KEY) looser phrasing is
translated by the model; otherwise the built-in parser handles the
commands above.

Examples:
  labyrinth play
  labyrinth play --seed 42
  labyrinth play --config ./my-labyrinth.yaml`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagGeminiKey, "gemini-key", "", "Gemini API key for free-text command translation")
}

func runPlay(cmd *cobra.Command, args []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: play needs an interactive terminal; use 'labyrinth run' for scripted sessions")
		os.Exit(1)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open session database: %v\n", err)
		// Continue without storage - the game still works
		store = nil
	}

	translator := buildTranslator(cmd.Context())
	model := tui.NewPlayModel(cfg, seed, store, translator)

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := program.Run()

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// buildTranslator prefers the Gemini translator when a key is configured
// and falls back to the rule-based parser.
func buildTranslator(ctx context.Context) loop.CommandTranslator {
	key := flagGeminiKey
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	if key == "" {
		return agents.Parser{}
	}
	gemini, err := agents.NewGemini(ctx, key)
	if err != nil || gemini == nil {
		fmt.Fprintf(os.Stderr, "Warning: Gemini unavailable, using built-in parser: %v\n", err)
		return agents.Parser{}
	}
	return gemini
}
