package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/labyrinth-hunt/internal/config"
	"github.com/vovakirdan/labyrinth-hunt/internal/core"
	"github.com/vovakirdan/labyrinth-hunt/internal/sim"
)

func TestMinimapShowsBothActors(t *testing.T) {
	cfg := config.Default()
	e := sim.New(cfg, 1)

	view := renderMinimap(e, cfg.Grid)

	if !strings.Contains(view, "@") {
		t.Error("minimap missing user marker")
	}
	if !strings.Contains(view, "M") {
		t.Error("minimap missing chasing minotaur marker")
	}
}

func TestMinimapHidesVanishedMinotaur(t *testing.T) {
	cfg := config.Default()
	e := sim.New(cfg, 1)
	if !e.TriggerJump() {
		t.Fatal("TriggerJump failed")
	}

	if view := renderMinimap(e, cfg.Grid); strings.Contains(view, "M") {
		t.Error("vanished minotaur drawn on minimap")
	}
}

func TestMinimapHidesOtherFloorMinotaur(t *testing.T) {
	cfg := config.Default()
	e := sim.New(cfg, 1)
	m := e.MinotaurPosition()
	m.Z = 1
	e.SetMinotaurPosition(m)

	if view := renderMinimap(e, cfg.Grid); strings.Contains(view, "M") {
		t.Error("minotaur on another floor drawn on minimap")
	}
}

func TestScaleCellStaysInsideBorder(t *testing.T) {
	grid := config.Default().Grid
	corners := []core.Position{
		{X: 0, Y: 0},
		{X: grid.Width - 1, Y: 0},
		{X: 0, Y: grid.Height - 1},
		{X: grid.Width - 1, Y: grid.Height - 1},
	}
	for _, p := range corners {
		x, y := scaleCell(p, grid)
		if x < 1 || x > minimapWidth-2 || y < 1 || y > minimapHeight-2 {
			t.Errorf("scaleCell(%v) = (%d, %d), outside the border", p, x, y)
		}
	}
}
