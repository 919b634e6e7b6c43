package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/labyrinth-hunt/internal/storage"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Show past sessions",
	Long: `Display recent sessions and their outcomes. With a session ID,
print that session's full turn log instead.

Examples:
  labyrinth history
  labyrinth history --limit 50
  labyrinth history 17`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of sessions to show")
}

func runHistory(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 1 {
		showTurnLog(store, args[0])
		return
	}

	records, err := store.RecentSessions(flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Play 'labyrinth play' to start the first one!")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-20s  %s\n", "ID", "Status", "Turns", "Seed", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-20s  %s\n", "--", "------", "-----", "----", "----")
	for _, r := range records {
		dateStr := r.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8s  %-6d  %-20d  %s\n", r.ID, r.Status, r.Turns, r.Seed, dateStr)
	}

	stats, err := store.GetStats()
	if err == nil && stats.Sessions > 0 {
		fmt.Println()
		fmt.Printf("Sessions: %d   Escapes: %d   Deaths: %d", stats.Sessions, stats.Escapes, stats.Deaths)
		if stats.FewestWin > 0 {
			fmt.Printf("   Fastest escape: %d turns", stats.FewestWin)
		}
		fmt.Println()
	}
}

func showTurnLog(store *storage.Store, arg string) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid session ID %q\n", arg)
		os.Exit(1)
	}

	record, err := store.SessionByID(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving session: %v\n", err)
		os.Exit(1)
	}
	if record == nil {
		fmt.Fprintf(os.Stderr, "Error: no session with ID %d\n", id)
		os.Exit(1)
	}

	logs, err := store.TurnLogs(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving turn logs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Session %d (seed %d) - %s after %d turns\n", record.ID, record.Seed, record.Status, record.Turns)
	fmt.Println()
	for _, entry := range logs {
		fmt.Printf("[turn %d] %-14s %s\n", entry.Turn, entry.Phase, string(entry.Input))
		fmt.Printf("           -> %s (%s)\n", entry.Response.Message, entry.Response.Status)
	}
}
