package storage

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/labyrinth-hunt/internal/core"
	"github.com/vovakirdan/labyrinth-hunt/internal/loop"
	"github.com/vovakirdan/labyrinth-hunt/internal/sim"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "labyrinth.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndListSessions(t *testing.T) {
	store := openTestStore(t)

	id1, err := store.SaveSession(42, "ESCAPED", 17, "You have collected all three mystical stones and escaped the labyrinth!")
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	id2, err := store.SaveSession(7, "DEATH", 5, "The Minotaur catches you! Game Over.")
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if id1 == id2 {
		t.Fatal("session IDs must be distinct")
	}

	records, err := store.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	// Newest first; equal timestamps break the tie by ID.
	if records[0].ID != id2 {
		t.Errorf("records[0].ID = %d, want %d", records[0].ID, id2)
	}
	if records[0].Status != "DEATH" || records[0].Turns != 5 || records[0].Seed != 7 {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestSessionByID(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveSession(1, "ACTIVE", 3, "You examine your surroundings.")
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	record, err := store.SessionByID(id)
	if err != nil {
		t.Fatalf("SessionByID: %v", err)
	}
	if record == nil || record.Seed != 1 || record.Status != "ACTIVE" {
		t.Errorf("unexpected record: %+v", record)
	}

	missing, err := store.SessionByID(9999)
	if err != nil {
		t.Fatalf("SessionByID(missing): %v", err)
	}
	if missing != nil {
		t.Errorf("missing session = %+v, want nil", missing)
	}
}

func TestTurnLogsRoundTrip(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveSession(42, "DEATH", 2, "The Minotaur catches you! Game Over.")
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	logs := []loop.TurnLog{
		{
			Turn:  1,
			Phase: "user_apply",
			Input: json.RawMessage(`{"kind":"MOVE","direction":"NORTH","steps":5,"speed":1}`),
			Response: loop.ResponseSummary{
				Status:     sim.StatusActive,
				Position:   core.Position{X: 25, Y: 30, Z: 0},
				StepsMoved: 5,
				Message:    "You walk NORTH for 5 steps.",
			},
		},
		{
			Turn:  1,
			Phase: "minotaur_apply",
			Input: json.RawMessage(`{"action":"CHASE","target_coords":{"x":25,"y":30,"z":0}}`),
			Response: loop.ResponseSummary{
				Status:     sim.StatusDeath,
				Position:   core.Position{X: 25, Y: 30, Z: 0},
				StepsMoved: 0,
				Message:    "The Minotaur catches you! Game Over.",
			},
		},
	}

	if err := store.SaveTurnLogs(id, logs); err != nil {
		t.Fatalf("SaveTurnLogs: %v", err)
	}

	got, err := store.TurnLogs(id)
	if err != nil {
		t.Fatalf("TurnLogs: %v", err)
	}
	if !reflect.DeepEqual(got, logs) {
		t.Errorf("turn logs did not survive persistence:\n got %+v\nwant %+v", got, logs)
	}
}

func TestGetStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetStats()
	if err != nil {
		t.Fatalf("GetStats (empty): %v", err)
	}
	if stats.Sessions != 0 || stats.Escapes != 0 || stats.FewestWin != 0 {
		t.Errorf("empty stats = %+v", stats)
	}

	store.SaveSession(1, "ESCAPED", 20, "")
	store.SaveSession(2, "ESCAPED", 12, "")
	store.SaveSession(3, "DEATH", 4, "")

	stats, err = store.GetStats()
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Sessions != 3 || stats.Escapes != 2 || stats.Deaths != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.FewestWin != 12 {
		t.Errorf("FewestWin = %d, want 12", stats.FewestWin)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed is zero after saves")
	}
}

func TestClearSessions(t *testing.T) {
	store := openTestStore(t)

	id, _ := store.SaveSession(1, "DEATH", 1, "")
	store.SaveTurnLogs(id, []loop.TurnLog{{Turn: 1, Phase: "user_apply", Input: json.RawMessage(`{"kind":"LOOK"}`)}})

	if err := store.ClearSessions(); err != nil {
		t.Fatalf("ClearSessions: %v", err)
	}

	records, err := store.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d after clear, want 0", len(records))
	}
	logs, err := store.TurnLogs(id)
	if err != nil {
		t.Fatalf("TurnLogs: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("len(logs) = %d after clear, want 0", len(logs))
	}
}
