package tui

import (
	"strings"

	"github.com/alkime/pomodoro/internal/timer"
	"github.com/alkime/pomodoro/internal/tui/components/labeledspinner"
	"github.com/alkime/pomodoro/internal/tui/components/screens"
	"github.com/alkime/pomodoro/internal/tui/components/waveform"
	"github.com/alkime/pomodoro/internal/tui/style"
	"github.com/alkime/pomodoro/pkg/uictl"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	progressWidth = 40
	waveHeight    = 2
)

// timerScreen shows the countdown and drives the timer from the keyboard.
type timerScreen struct {
	keys      timerKeyMap
	help      help.Model
	timer     *timer.Timer
	running   uictl.Knob
	remaining uictl.Dial[int]
	status    labeledspinner.Model
	progress  progress.Model
	wave      waveform.Model
}

func newTimerScreen(t *timer.Timer, levels uictl.Levels[int16]) *timerScreen {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(progressWidth),
		progress.WithoutPercentage(),
	)

	return &timerScreen{
		keys:      defaultTimerKeyMap(),
		help:      help.New(),
		timer:     t,
		running:   runningKnob{t: t},
		remaining: remainingDial{t: t},
		status:    labeledspinner.New(spinner.Dot, "", ""),
		progress:  p,
		wave:      waveform.New(levels, progressWidth, waveHeight),
	}
}

func (s *timerScreen) Init() tea.Cmd {
	return tea.Batch(s.status.Init(), s.wave.Init())
}

func (s *timerScreen) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := teaMsg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Toggle):
			s.running.Toggle()
		case key.Matches(msg, s.keys.Reset):
			s.timer.Reset()
		case key.Matches(msg, s.keys.Skip):
			s.timer.Skip()
		case key.Matches(msg, s.keys.Sounds):
			return s, screens.SwitchCmd(screenSounds)
		}

	case spinner.TickMsg:
		s.status, cmd = s.status.Update(msg)

	case waveform.TickMsg:
		s.wave, cmd = s.wave.Update(msg)

	case tea.WindowSizeMsg:
		s.help.Width = msg.Width
	}

	return s, cmd
}

func (s *timerScreen) View() string {
	phase := s.timer.Phase()

	s.status.Active = s.running.Read()
	s.status.TitleStyle = style.Phase(phase)

	button := "Start"
	if s.running.Read() {
		button = "Pause"
	}

	var sb strings.Builder

	sb.WriteString(s.status.ViewWith(phase.Label(), timer.SessionText(s.timer.SessionCount(), s.timer.Settings())))
	sb.WriteString("\n\n")

	sb.WriteString(style.Clock.Render(timer.FormatClock(s.remaining.Read())))
	sb.WriteString("\n")
	sb.WriteString(s.progress.ViewAs(s.timer.Progress()))
	sb.WriteString("\n\n")

	sb.WriteString(style.Label.Render("Tick:") + " " + style.Subtitle.Render(s.timer.TickPreset()))
	sb.WriteString("\n")
	sb.WriteString(s.wave.View())
	sb.WriteString("\n\n")

	sb.WriteString(style.KeyHint("space", button))
	sb.WriteString("\n")
	sb.WriteString(s.help.View(s.keys))

	return sb.String()
}
