package typewriter

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(phrases ...string) Model {
	return NewModel(New(phrases, WithSpeeds(time.Millisecond, time.Millisecond, time.Millisecond), seeded(5)))
}

func TestModel_StartSchedulesTick(t *testing.T) {
	m, cmd := newTestModel("hello").Start()
	require.NotNil(t, cmd)
	assert.True(t, m.Running())

	msg := cmd()
	tick, ok := msg.(TickMsg)
	require.True(t, ok)

	m, cmd = m.Update(tick)
	assert.NotNil(t, cmd)
	assert.Equal(t, "h", m.State().Text)
	assert.True(t, strings.HasPrefix(m.View(), "h"))
}

func TestModel_DropsStaleTicks(t *testing.T) {
	m, cmd := newTestModel("hello").Start()
	stale := cmd().(TickMsg)

	// restarting bumps the generation
	m, cmd = m.Start()
	fresh := cmd().(TickMsg)

	next, staleCmd := m.Update(stale)
	assert.Nil(t, staleCmd)
	assert.Equal(t, m.State(), next.State())

	next, freshCmd := m.Update(fresh)
	assert.NotNil(t, freshCmd)
	assert.Equal(t, "h", next.State().Text)
}

func TestModel_StopDropsPendingTick(t *testing.T) {
	m, cmd := newTestModel("hello").Start()
	tick := cmd().(TickMsg)

	m = m.Stop()
	assert.False(t, m.Running())

	m, cmd = m.Update(tick)
	assert.Nil(t, cmd)
	assert.Equal(t, "", m.State().Text)
}

func TestModel_IgnoresOtherModels(t *testing.T) {
	a, cmd := newTestModel("hello").Start()
	b, _ := newTestModel("world").Start()
	require.NotEqual(t, a.ID(), b.ID())

	_, got := b.Update(cmd())
	assert.Nil(t, got)

	_, got = a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, got)
}

func TestModel_ReducedMotion(t *testing.T) {
	m, cmd := NewModel(New([]string{"steady"}, WithReducedMotion(true))).Start()
	assert.Nil(t, cmd)
	assert.False(t, m.Running())
	assert.Equal(t, "steady", m.View())
}

func TestModel_Empty(t *testing.T) {
	m, cmd := NewModel(New(nil)).Start()
	assert.Nil(t, cmd)
	assert.Equal(t, "", m.View())

	var zero Model
	zero, cmd = zero.Start()
	assert.Nil(t, cmd)
	assert.Equal(t, "", zero.View())
}
