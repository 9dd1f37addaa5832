// Package tui provides the interactive terminal player for a stored board.
//
// The model runs inside the bubbletea event loop; all board changes go
// through the service so every generation shown is also persisted.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lifeboard/internal/board"
	"lifeboard/internal/render"
	"lifeboard/internal/service"
	"lifeboard/internal/store"
)

// Stepper advances stored boards.
type Stepper interface {
	AdvanceOne(ctx context.Context, id store.ID) (board.Board, error)
	RunToFinalState(ctx context.Context, id store.ID, maxIterations int) (service.FinalState, error)
}

// Config configures the player.
type Config struct {
	Interval time.Duration
	// MaxIterations bounds both the final-state search and autoplay.
	// Zero leaves autoplay unbounded.
	MaxIterations int
	// AutoStart begins playing immediately.
	AutoStart bool
	Style     render.TextStyle
}

type tickMsg struct{ seq int }

type advancedMsg struct{ board board.Board }

type finalMsg struct{ result service.FinalState }

type errMsg struct{ err error }

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#AFAFFF"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
)

// Model is the bubbletea model for playing one board.
type Model struct {
	ctx     context.Context
	stepper Stepper
	cfg     Config
	keys    keyMap
	help    help.Model

	id         store.ID
	board      board.Board
	generation int
	played     int
	playing    bool
	busy       bool
	seq        int
	note       string
	err        error
}

// New creates a player for the board b stored under id.
func New(ctx context.Context, stepper Stepper, id store.ID, b board.Board, cfg Config) Model {
	if cfg.Interval <= 0 {
		cfg.Interval = 700 * time.Millisecond
	}
	return Model{
		ctx:     ctx,
		stepper: stepper,
		cfg:     cfg,
		keys:    defaultKeyMap(),
		help:    help.New(),
		id:      id,
		board:   b,
		playing: cfg.AutoStart,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.playing {
		return m.tick()
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		if !m.playing || msg.seq != m.seq || m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.advance()

	case advancedMsg:
		m.busy = false
		m.board = msg.board
		m.generation++
		m.note = ""
		if !m.playing {
			return m, nil
		}
		m.played++
		if m.cfg.MaxIterations > 0 && m.played >= m.cfg.MaxIterations {
			m.playing = false
			m.note = fmt.Sprintf("stopped after %d generations", m.played)
			return m, nil
		}
		return m, m.tick()

	case finalMsg:
		m.busy = false
		m.board = msg.result.Board
		m.generation += msg.result.StepsTaken
		m.note = fmt.Sprintf("%s after %d steps", msg.result.Reason, msg.result.StepsTaken)
		return m, nil

	case errMsg:
		m.busy = false
		m.playing = false
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Play):
		m.playing = !m.playing
		m.seq++
		m.played = 0
		m.err = nil
		if m.playing {
			return m, m.tick()
		}
		return m, nil

	case key.Matches(msg, m.keys.Step):
		if m.busy {
			return m, nil
		}
		m.playing = false
		m.busy = true
		m.err = nil
		return m, m.advance()

	case key.Matches(msg, m.keys.Final):
		if m.busy {
			return m, nil
		}
		m.playing = false
		m.busy = true
		m.err = nil
		return m, m.final()
	}
	return m, nil
}

func (m Model) tick() tea.Cmd {
	seq := m.seq
	return tea.Tick(m.cfg.Interval, func(time.Time) tea.Msg { return tickMsg{seq: seq} })
}

func (m Model) advance() tea.Cmd {
	ctx, stepper, id := m.ctx, m.stepper, m.id
	return func() tea.Msg {
		b, err := stepper.AdvanceOne(ctx, id)
		if err != nil {
			return errMsg{err: err}
		}
		return advancedMsg{board: b}
	}
}

func (m Model) final() tea.Cmd {
	ctx, stepper, id := m.ctx, m.stepper, m.id
	limit := m.cfg.MaxIterations
	if limit <= 0 {
		limit = 50
	}
	return func() tea.Msg {
		res, err := stepper.RunToFinalState(ctx, id, limit)
		if err != nil {
			return errMsg{err: err}
		}
		return finalMsg{result: res}
	}
}

// Status summarises the player state in one line.
func (m Model) Status() string {
	state := "paused"
	if m.playing {
		state = "playing"
	}
	return fmt.Sprintf("%s  gen %d  pop %d  %dx%d  %s",
		m.id, m.generation, m.board.Population(), m.board.Rows(), m.board.Cols(), state)
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("lifeboard"))
	sb.WriteString("\n")
	sb.WriteString(render.Text(m.board, m.cfg.Style))
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(m.Status()))
	sb.WriteString("\n")
	if m.note != "" {
		sb.WriteString(m.note)
		sb.WriteString("\n")
	}
	if m.err != nil {
		sb.WriteString(errorStyle.Render("error: " + m.err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString(m.help.View(m.keys))
	sb.WriteString("\n")
	return sb.String()
}

// Board returns the board currently shown.
func (m Model) Board() board.Board { return m.board }

// Err returns the error that stopped the player, if any.
func (m Model) Err() error { return m.err }
