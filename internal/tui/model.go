// Package tui hosts the timer in a bubbletea program: a countdown screen
// and a tick-sound picker.
package tui

import (
	"context"
	"time"

	"github.com/alkime/pomodoro/internal/timer"
	"github.com/alkime/pomodoro/internal/tui/components/screens"
	"github.com/alkime/pomodoro/pkg/uictl"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	screenTimer  = "timer"
	screenSounds = "sounds"
)

// tickMsg is one scheduler beat. gen identifies the chain that produced it.
type tickMsg struct {
	gen int
}

// Options wires the model to the timer and audio.
type Options struct {
	Timer *timer.Timer
	// Sounds and Player serve the picker's previews.
	Sounds timer.SoundBank
	Player timer.Player
	// Levels feeds the waveform; nil draws a flat line.
	Levels uictl.Levels[int16]
	// Cancel is called on quit.
	Cancel context.CancelFunc
	// TickInterval defaults to one second.
	TickInterval time.Duration
}

// Model is the root bubbletea model. It owns the once-per-second scheduler:
// a chain of tea.Tick commands that only lives while the timer runs. Every
// restart bumps gen so beats from an abandoned chain are ignored. Beats are
// aimed at deadlines counted from the chain's start, so a late beat shortens
// the next wait instead of pushing every later beat back.
type Model struct {
	timer    *timer.Timer
	screens  screens.Model
	quit     key.Binding
	cancel   context.CancelFunc
	interval time.Duration

	gen     int
	ticking bool
	next    time.Time
	now     func() time.Time
}

func New(opts Options) *Model {
	interval := opts.TickInterval
	if interval <= 0 {
		interval = time.Second
	}

	return &Model{
		timer: opts.Timer,
		screens: screens.New(
			screens.NewScreen(screenTimer, newTimerScreen(opts.Timer, opts.Levels)),
			screens.NewScreen(screenSounds, newPickerScreen(opts.Timer, opts.Sounds, opts.Player)),
		),
		quit:     defaultTimerKeyMap().Quit,
		cancel:   opts.Cancel,
		interval: interval,
		now:      time.Now,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.screens.Init()
}

func (m *Model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := teaMsg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.quit) {
			if m.cancel != nil {
				m.cancel()
			}

			return m, tea.Quit
		}

		m.screens, cmd = m.screens.Update(msg)

	case tickMsg:
		if msg.gen != m.gen || !m.ticking {
			return m, nil
		}

		m.timer.Tick()

		if m.timer.Running() {
			m.next = m.next.Add(m.interval)

			return m, m.tick()
		}

	default:
		m.screens, cmd = m.screens.Update(msg)
	}

	return m, tea.Batch(cmd, m.schedule())
}

func (m *Model) View() string {
	return lipgloss.NewStyle().Margin(1, 2).Render(m.screens.View())
}

// schedule starts a tick chain when the timer starts running and abandons
// it when the timer stops.
func (m *Model) schedule() tea.Cmd {
	switch running := m.timer.Running(); {
	case running && !m.ticking:
		m.ticking = true
		m.gen++
		m.next = m.now().Add(m.interval)

		return m.tick()

	case !running && m.ticking:
		m.ticking = false
		m.gen++
	}

	return nil
}

func (m *Model) tick() tea.Cmd {
	gen := m.gen

	return tea.Tick(m.delay(), func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// delay is the wait until the next deadline, zero when it already passed.
func (m *Model) delay() time.Duration {
	return max(0, m.next.Sub(m.now()))
}
