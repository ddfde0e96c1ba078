package typewriter

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg advances a Model. Ticks from another Model, or from an earlier
// run of the same Model, are ignored.
type TickMsg struct {
	Time time.Time
	id   int
	gen  int
}

// Model adapts an Engine to bubbletea. Every transition schedules exactly one
// tick; Stop and Start bump the generation so pending ticks become stale.
type Model struct {
	Style       lipgloss.Style
	CursorStyle lipgloss.Style
	Cursor      string

	engine  *Engine
	state   State
	id      int
	gen     int
	running bool
}

// NewModel creates a stopped Model around engine
func NewModel(engine *Engine) Model {
	return Model{
		Cursor:      "▌",
		CursorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7")),
		engine:      engine,
		id:          nextID(),
	}
}

// ID identifies the Model in tick messages
func (m Model) ID() int {
	return m.id
}

// State returns the current display state
func (m Model) State() State {
	return m.state
}

// Running reports whether a tick is pending
func (m Model) Running() bool {
	return m.running
}

// Start begins a new cycle from a random phrase
func (m Model) Start() (Model, tea.Cmd) {
	m.gen++
	m.running = false
	if m.engine == nil {
		return m, nil
	}
	state, delay := m.engine.Start()
	m.state = state
	if delay <= 0 {
		return m, nil
	}
	m.running = true
	return m, m.tick(delay)
}

// Stop halts the animation; any tick already scheduled is dropped
func (m Model) Stop() Model {
	m.gen++
	m.running = false
	return m
}

// Update handles TickMsg
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.id != m.id || tick.gen != m.gen || !m.running {
		return m, nil
	}

	state, delay := m.engine.Next(m.state)
	m.state = state
	if delay <= 0 {
		m.running = false
		return m, nil
	}
	return m, m.tick(delay)
}

// View renders the current text followed by a cursor while animating
func (m Model) View() string {
	if m.engine == nil || m.engine.Phrases() == 0 {
		return ""
	}
	out := m.Style.Render(m.state.Text)
	if m.running && m.Cursor != "" {
		out += m.CursorStyle.Render(m.Cursor)
	}
	return out
}

func (m Model) tick(delay time.Duration) tea.Cmd {
	id, gen := m.id, m.gen
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, id: id, gen: gen}
	})
}
