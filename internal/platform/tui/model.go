// Package tui provides the terminal interface for playing labyrinth
// sessions, locally and over SSH via Wish.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/labyrinth-hunt/internal/agents"
	"github.com/vovakirdan/labyrinth-hunt/internal/config"
	"github.com/vovakirdan/labyrinth-hunt/internal/loop"
	"github.com/vovakirdan/labyrinth-hunt/internal/sim"
	"github.com/vovakirdan/labyrinth-hunt/internal/storage"
)

// transcriptCap bounds the kept transcript lines; older lines are dropped.
const transcriptCap = 200

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cueStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Italic(true)
	playerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	terminalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	escapedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	mapStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// PlayModel is the interactive play screen: a transcript viewport, a status
// pane with the minimap, and a command prompt.
type PlayModel struct {
	cfg      config.LabyrinthConfig
	seed     int64
	runner   *loop.Runner
	engine   *sim.Engine
	store    *storage.Store
	narrator *agents.Gemini

	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	keys       KeyMap

	width    int
	height   int
	ready    bool
	saved    bool
	quitting bool
}

// NewPlayModel creates the play screen over a fresh session.
func NewPlayModel(cfg config.LabyrinthConfig, seed int64, store *storage.Store, translator loop.CommandTranslator) PlayModel {
	if translator == nil {
		translator = agents.Parser{}
	}

	// A Gemini translator also drives the minotaur and narrates.
	opts := []loop.Option{loop.WithTranslator(translator)}
	var narrator *agents.Gemini
	if g, ok := translator.(*agents.Gemini); ok && g != nil {
		opts = append(opts, loop.WithDecisionMaker(g))
		narrator = g
	}

	engine := sim.New(cfg, seed)
	runner := loop.NewRunner(engine, cfg, opts...)

	input := textinput.New()
	input.Placeholder = "move north 5, run east, grab red stone, use lantern, look..."
	input.CharLimit = 120
	input.Focus()

	m := PlayModel{
		cfg:      cfg,
		seed:     seed,
		runner:   runner,
		engine:   engine,
		store:    store,
		narrator: narrator,
		input:    input,
		keys:     DefaultKeyMap(),
	}
	m.pushLine(titleStyle.Render("You wake on cold stone. Somewhere in the dark, something breathes."))
	return m
}

// Init starts the text input cursor blink.
func (m PlayModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles terminal events.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - minimapHeight - 6
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.saveSession()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Restart):
			return m.restart()
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		}
	}

	var inputCmd, vpCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(inputCmd, vpCmd)
}

// submit runs one full turn for the typed command.
func (m PlayModel) submit() (tea.Model, tea.Cmd) {
	if m.runner.State().Status.Terminal() {
		return m, nil
	}

	raw := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if raw != "" {
		m.pushLine(playerStyle.Render("> " + raw))
	}

	state := m.runner.RunTurn(raw)
	resp := state.LastResponse

	m.pushLine(resp.Environment.Message)
	m.pushLine(cueStyle.Render(resp.MinotaurCue))
	if m.narrator != nil {
		// One short model call per turn; failures are silently skipped.
		if flavor, err := m.narrator.Narrate(context.Background(), resp); err == nil && flavor != "" {
			m.pushLine(statusStyle.Render(flavor))
		}
	}
	if resp.Status.Terminal() {
		m.pushLine("")
		switch resp.Status {
		case sim.StatusEscaped:
			m.pushLine(escapedStyle.Render("*** YOU ESCAPED ***"))
		default:
			m.pushLine(terminalStyle.Render("*** GAME OVER ***"))
		}
		m.pushLine(statusStyle.Render("ctrl+r for a new session, esc to quit"))
		m.saveSession()
	}

	m.refreshViewport()
	return m, nil
}

// restart abandons the session and starts a fresh one with a new seed.
func (m PlayModel) restart() (tea.Model, tea.Cmd) {
	m.saveSession()

	m.seed = time.Now().UnixNano()
	m.engine = sim.New(m.cfg, m.seed)
	opts := []loop.Option{loop.WithTranslator(agents.Parser{})}
	if m.narrator != nil {
		opts = []loop.Option{
			loop.WithTranslator(m.narrator),
			loop.WithDecisionMaker(m.narrator),
		}
	}
	m.runner = loop.NewRunner(m.engine, m.cfg, opts...)
	m.transcript = nil
	m.saved = false
	m.pushLine(titleStyle.Render("You wake on cold stone. Somewhere in the dark, something breathes."))
	m.refreshViewport()
	return m, nil
}

// saveSession persists the session summary and turn logs, best effort.
func (m *PlayModel) saveSession() {
	if m.store == nil || m.saved {
		return
	}
	state := m.runner.State()
	if len(state.Logs) == 0 {
		return
	}
	id, err := m.store.SaveSession(m.seed, string(state.Status), state.Turn-1, state.LastResponse.Environment.Message)
	if err == nil {
		//nolint:errcheck // Best-effort save
		m.store.SaveTurnLogs(id, state.Logs)
	}
	m.saved = true
}

func (m *PlayModel) pushLine(line string) {
	m.transcript = append(m.transcript, line)
	if len(m.transcript) > transcriptCap {
		m.transcript = m.transcript[len(m.transcript)-transcriptCap:]
	}
}

func (m *PlayModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

// View renders the play screen.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}

	status := m.statusPane()
	minimap := mapStyle.Render(renderMinimap(m.engine, m.cfg.Grid))
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, minimap, "  ", status)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		bottom,
		m.input.View(),
	)
}

func (m PlayModel) statusPane() string {
	state := m.runner.State()
	pos := m.engine.UserPosition()

	inventory := "empty"
	if items := m.engine.Inventory(); len(items) > 0 {
		names := make([]string, len(items))
		for i, item := range items {
			names[i] = string(item)
		}
		inventory = strings.Join(names, ", ")
	}

	lines := []string{
		titleStyle.Render("LABYRINTH"),
		statusStyle.Render(fmt.Sprintf("turn     %d", state.Turn)),
		statusStyle.Render(fmt.Sprintf("position (%d, %d) floor %d", pos.X, pos.Y, pos.Z)),
		statusStyle.Render(fmt.Sprintf("stamina  %.0f%%", m.engine.Stamina()*100)),
		statusStyle.Render("carrying " + inventory),
		statusStyle.Render(fmt.Sprintf("status   %s", state.Status)),
	}
	return strings.Join(lines, "\n")
}
