// Package style defines lipgloss styles for the TUI.
package style

import (
	"github.com/alkime/pomodoro/internal/timer"
	"github.com/charmbracelet/lipgloss"
)

// Variable names omit a "Style" suffix since they're accessed via the
// package (style.Title reads better than style.TitleStyle).
var (
	// Title is used for headers.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Subtitle is used for secondary text.
	Subtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// Error is used for error messages.
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	// Help is used for keyboard shortcut hints.
	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	// Key is used for highlighting keyboard keys.
	Key = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	// Progress is used for the waveform bars.
	Progress = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	// Label is used for inline labels ("Tick:").
	Label = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))

	// Muted is used for de-emphasized text.
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	// Selected marks the highlighted row of a list.
	Selected = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	// Clock renders the remaining time.
	Clock = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Padding(0, 1)

	// Panel frames a whole screen.
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2)

	work       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	shortBreak = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	longBreak  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
)

// Phase returns the style for a phase label.
func Phase(p timer.Phase) lipgloss.Style {
	switch p {
	case timer.ShortBreak:
		return shortBreak
	case timer.LongBreak:
		return longBreak
	default:
		return work
	}
}

// KeyHint renders "[key] action".
func KeyHint(key, action string) string {
	return Help.Render("[") + Key.Render(key) + Help.Render("] "+action)
}
