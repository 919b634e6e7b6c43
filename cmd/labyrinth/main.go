// labyrinth is a turn-based pursuit game played in the terminal: explore a
// dark grid, collect the three stones and stay ahead of the minotaur.
//
// Usage:
//
//	labyrinth play               - Play interactively
//	labyrinth run                - Run a scripted session headless
//	labyrinth history            - Show past sessions
//	labyrinth serve              - Start SSH server for remote play
//
// Global flags:
//
//	--seed <value>  - Set RNG seed for reproducible sessions
//	--db <path>     - Set database path (default: ~/.labyrinth/sessions.db)
//	--config <path> - Path to custom simulation config YAML
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagSeed   int64
	flagDBPath string
	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "labyrinth",
	Short: "Labyrinth Hunt - Evade the minotaur in your terminal",
	Long: `Labyrinth Hunt is a turn-based pursuit game. You wake in a dark
3D labyrinth hunted by a minotaur that chases, vanishes and reappears.
Collect the three mystical stones to escape; the lantern can paralyze
the beast once, if you find it.

Available commands:
  play     - Play interactively in the terminal
  run      - Run a scripted session headless (prints JSON responses)
  history  - View past sessions and their turn logs
  serve    - Start SSH server for remote play

Examples:
  labyrinth play
  labyrinth play --seed 42
  labyrinth run --script moves.txt --max-turns 50
  labyrinth history
  labyrinth serve --ssh :2222`,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.labyrinth/sessions.db", "Path to session database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom simulation config YAML")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}
