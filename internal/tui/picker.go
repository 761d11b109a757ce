package tui

import (
	"fmt"
	"strings"

	"github.com/alkime/pomodoro/internal/synth"
	"github.com/alkime/pomodoro/internal/timer"
	"github.com/alkime/pomodoro/internal/tui/components/screens"
	"github.com/alkime/pomodoro/internal/tui/style"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// pickerScreen lists the tick sounds. Moving the cursor previews a sound;
// enter makes it the tick.
type pickerScreen struct {
	keys    pickerKeyMap
	help    help.Model
	timer   *timer.Timer
	sounds  timer.SoundBank
	player  timer.Player
	presets []synth.Preset
	cursor  int
	err     error
}

func newPickerScreen(t *timer.Timer, sounds timer.SoundBank, player timer.Player) *pickerScreen {
	return &pickerScreen{
		keys:    defaultPickerKeyMap(),
		help:    help.New(),
		timer:   t,
		sounds:  sounds,
		player:  player,
		presets: synth.TickPresets(),
	}
}

// Init puts the cursor on the current tick sound.
func (s *pickerScreen) Init() tea.Cmd {
	s.err = nil
	s.cursor = 0

	for i, p := range s.presets {
		if p.Name == s.timer.TickPreset() {
			s.cursor = i
		}
	}

	return nil
}

func (s *pickerScreen) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Up):
			s.move(-1)
		case key.Matches(msg, s.keys.Down):
			s.move(1)
		case key.Matches(msg, s.keys.Select):
			if s.err = s.timer.SelectTickPreset(s.presets[s.cursor].Name); s.err != nil {
				return s, nil
			}

			return s, screens.SwitchCmd(screenTimer)
		case key.Matches(msg, s.keys.Back):
			return s, screens.SwitchCmd(screenTimer)
		}

	case tea.WindowSizeMsg:
		s.help.Width = msg.Width
	}

	return s, nil
}

func (s *pickerScreen) move(delta int) {
	next := min(max(s.cursor+delta, 0), len(s.presets)-1)
	if next == s.cursor {
		return
	}

	s.cursor = next
	s.preview()
}

func (s *pickerScreen) preview() {
	buf, err := s.sounds.Buffer(s.presets[s.cursor].Name)
	if err != nil {
		s.err = err
		return
	}

	s.err = nil
	s.player.Play(buf)
}

func (s *pickerScreen) View() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("Tick sound"))
	sb.WriteString("\n\n")

	for i, p := range s.presets {
		cursor := "  "
		if i == s.cursor {
			cursor = style.Key.Render("› ")
		}

		current := " "
		if p.Name == s.timer.TickPreset() {
			current = style.Selected.Render("●")
		}

		name := fmt.Sprintf("%-18s", p.Name)
		if i == s.cursor {
			name = style.Selected.Render(name)
		}

		sb.WriteString(cursor + current + " " + name + style.Muted.Render(fmt.Sprintf("%4d ms", p.Duration.Milliseconds())))
		sb.WriteString("\n")
	}

	if s.err != nil {
		sb.WriteString("\n")
		sb.WriteString(style.Error.Render(s.err.Error()))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(s.help.View(s.keys))

	return sb.String()
}
