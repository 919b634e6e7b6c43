package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/labyrinth-hunt/internal/agents"
	"github.com/vovakirdan/labyrinth-hunt/internal/config"
	"github.com/vovakirdan/labyrinth-hunt/internal/loop"
	"github.com/vovakirdan/labyrinth-hunt/internal/sim"
	"github.com/vovakirdan/labyrinth-hunt/internal/storage"
)

var (
	flagScript     string
	flagMaxTurns   int
	flagSingleTurn bool
	flagJSON       bool
	flagVerbose    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scripted session headless",
	Long: `Run a session without the interactive UI. Commands are read one per
line from --script (or stdin), in either free-text or wire JSON form.
Each turn's response is printed; --json prints the full response record.

Blank lines and lines starting with # are skipped. When the script runs
out before the session ends, remaining turns default to LOOK.

Examples:
  labyrinth run --script moves.txt
  echo "run north 20" | labyrinth run --single-turn --json
  labyrinth run --seed 42 --max-turns 100 < moves.txt`,
	Run: runHeadless,
}

func init() {
	runCmd.Flags().StringVar(&flagScript, "script", "", "Path to command script (default: stdin)")
	runCmd.Flags().IntVar(&flagMaxTurns, "max-turns", 200, "Maximum number of turns to run")
	runCmd.Flags().BoolVar(&flagSingleTurn, "single-turn", false, "Stop after one full turn")
	runCmd.Flags().BoolVar(&flagJSON, "json", false, "Print full response records as JSON")
	runCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Trace every phase to stderr")
}

func runHeadless(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	script, err := readScript()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading script: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "labyrinth"})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	engine := sim.New(cfg, seed)
	opts := []loop.Option{
		loop.WithTranslator(agents.Parser{}),
		loop.WithLogger(logger),
	}
	if flagSingleTurn {
		opts = append(opts, loop.WithSingleTurn())
	}
	runner := loop.NewRunner(engine, cfg, opts...)

	next := 0
	state := runner.Run(flagMaxTurns, func(turn int) string {
		if next >= len(script) {
			return ""
		}
		line := script[next]
		next++
		return line
	})

	printOutcome(state)
	saveHeadlessSession(seed, state, logger)

	if state.Status == sim.StatusError {
		os.Exit(1)
	}
}

func readScript() ([]string, error) {
	var reader io.Reader = os.Stdin
	if flagScript != "" {
		file, err := os.Open(flagScript)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		reader = file
	}

	var lines []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

func printOutcome(state *loop.TurnState) {
	if flagJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		for _, entry := range state.Logs {
			//nolint:errcheck // Writing to stdout
			encoder.Encode(entry)
		}
		return
	}

	for _, entry := range state.Logs {
		if entry.Phase == "user_apply" {
			fmt.Printf("[turn %d] %s\n", entry.Turn, entry.Response.Message)
		}
	}
	fmt.Printf("\nSession over after %d turns: %s\n", state.Turn-1, state.Status)
	fmt.Println(state.LastResponse.Environment.Message)
}

func saveHeadlessSession(seed int64, state *loop.TurnState, logger *log.Logger) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open session database", "error", err)
		return
	}
	defer store.Close()

	id, err := store.SaveSession(seed, string(state.Status), state.Turn-1, state.LastResponse.Environment.Message)
	if err != nil {
		logger.Warn("could not save session", "error", err)
		return
	}
	if err := store.SaveTurnLogs(id, state.Logs); err != nil {
		logger.Warn("could not save turn logs", "error", err)
	}
}
