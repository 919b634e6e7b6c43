package tui

import (
	"github.com/vovakirdan/labyrinth-hunt/internal/config"
	"github.com/vovakirdan/labyrinth-hunt/internal/core"
	"github.com/vovakirdan/labyrinth-hunt/internal/sim"
)

const (
	minimapWidth  = 26
	minimapHeight = 14
)

// renderMinimap draws a scaled top-down view of the labyrinth floor the
// user currently stands on. The user is '@'; the minotaur is 'M' and only
// drawn while it is chasing on the same floor.
func renderMinimap(e *sim.Engine, grid config.GridConfig) string {
	screen := core.NewScreen(minimapWidth, minimapHeight)

	for x := 0; x < minimapWidth; x++ {
		screen.Set(x, 0, '-')
		screen.Set(x, minimapHeight-1, '-')
	}
	for y := 0; y < minimapHeight; y++ {
		screen.Set(0, y, '|')
		screen.Set(minimapWidth-1, y, '|')
	}
	screen.Set(0, 0, '+')
	screen.Set(minimapWidth-1, 0, '+')
	screen.Set(0, minimapHeight-1, '+')
	screen.Set(minimapWidth-1, minimapHeight-1, '+')

	user := e.UserPosition()
	if e.Mode() == sim.Chasing {
		if m := e.MinotaurPosition(); m.Z == user.Z {
			mx, my := scaleCell(m, grid)
			screen.Set(mx, my, 'M')
		}
	}
	ux, uy := scaleCell(user, grid)
	screen.Set(ux, uy, '@')

	return screen.String()
}

// scaleCell maps labyrinth coordinates onto the minimap's inner area.
// North (growing y) points up, so the y axis is flipped.
func scaleCell(p core.Position, grid config.GridConfig) (int, int) {
	innerW := minimapWidth - 2
	innerH := minimapHeight - 2

	x := clampInt(p.X*innerW/grid.Width, 0, innerW-1)
	y := clampInt(p.Y*innerH/grid.Height, 0, innerH-1)
	return 1 + x, 1 + (innerH - 1 - y)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
