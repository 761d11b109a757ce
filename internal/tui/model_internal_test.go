package tui

import (
	"testing"
	"time"

	"github.com/alkime/pomodoro/internal/synth"
	"github.com/alkime/pomodoro/internal/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopPlayer struct{}

func (nopPlayer) Play(*synth.Buffer) {}

func newModel(t *testing.T) *Model {
	t.Helper()

	cache := synth.NewCache(0)
	tmr, err := timer.New(timer.DefaultSettings(), cache, nopPlayer{})
	require.NoError(t, err)

	return New(Options{Timer: tmr, Sounds: cache, Player: nopPlayer{}})
}

func TestSchedule_FixedDeadlines(t *testing.T) {
	t.Parallel()

	m := newModel(t)
	t0 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := t0
	m.now = func() time.Time { return clock }

	m.timer.ToggleRunning()
	require.NotNil(t, m.schedule())
	assert.Equal(t, t0.Add(time.Second), m.next)
	assert.Equal(t, time.Second, m.delay())

	// The first beat is handled 300ms late.
	clock = t0.Add(1300 * time.Millisecond)
	_, cmd := m.Update(tickMsg{gen: m.gen})
	require.NotNil(t, cmd)
	assert.Equal(t, t0.Add(2*time.Second), m.next)
	assert.Equal(t, 700*time.Millisecond, m.delay())
	assert.Equal(t, 1499, m.timer.TimeLeft())

	// Later beats stay on whole seconds from the start.
	clock = t0.Add(2500 * time.Millisecond)
	_, cmd = m.Update(tickMsg{gen: m.gen})
	require.NotNil(t, cmd)
	assert.Equal(t, t0.Add(3*time.Second), m.next)
	assert.Equal(t, 500*time.Millisecond, m.delay())

	clock = t0.Add(4 * time.Second)
	assert.Zero(t, m.delay())
}

func TestSchedule_OneChainAtATime(t *testing.T) {
	t.Parallel()

	m := newModel(t)

	assert.Nil(t, m.schedule(), "paused timer needs no scheduler")

	m.timer.ToggleRunning()
	require.NotNil(t, m.schedule())
	first := m.gen

	assert.Nil(t, m.schedule(), "already ticking")
	assert.Equal(t, first, m.gen)

	m.timer.ToggleRunning()
	assert.Nil(t, m.schedule())
	assert.False(t, m.ticking)

	m.timer.ToggleRunning()
	require.NotNil(t, m.schedule())
	assert.Greater(t, m.gen, first)
}

func TestTickMsg_StaleGenerationIgnored(t *testing.T) {
	t.Parallel()

	m := newModel(t)
	m.timer.ToggleRunning()
	m.schedule()

	_, cmd := m.Update(tickMsg{gen: m.gen - 1})
	assert.Nil(t, cmd)
	assert.Equal(t, 1500, m.timer.TimeLeft())

	_, cmd = m.Update(tickMsg{gen: m.gen})
	assert.NotNil(t, cmd, "a live beat schedules the next one")
	assert.Equal(t, 1499, m.timer.TimeLeft())
}

func TestTickMsg_WhilePausedIgnored(t *testing.T) {
	t.Parallel()

	m := newModel(t)

	_, cmd := m.Update(tickMsg{gen: m.gen})
	assert.Nil(t, cmd)
	assert.Equal(t, 1500, m.timer.TimeLeft())
}

func TestControls(t *testing.T) {
	t.Parallel()

	m := newModel(t)
	knob := runningKnob{t: m.timer}
	dial := remainingDial{t: m.timer}

	knob.On()
	knob.On()
	assert.True(t, knob.Read())
	knob.Off()
	assert.False(t, knob.Read())

	assert.Equal(t, 1500, dial.Read())
	m.timer.Skip()
	assert.Equal(t, 300, dial.Read())
}
