// Package labeledspinner shows a spinner next to a title while something is
// running, and a fixed marker while it is not.
package labeledspinner

import (
	"strings"

	"github.com/alkime/pomodoro/internal/tui/style"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultIdle is drawn in place of the spinner while inactive.
const DefaultIdle = "■"

type Model struct {
	Spinner    spinner.Model
	Title      string
	Subtitle   string
	TitleStyle lipgloss.Style
	Idle       string
	Active     bool
}

// New creates an inactive labeled spinner.
func New(s spinner.Spinner, title, subtitle string) Model {
	sp := spinner.New()
	sp.Spinner = s

	return Model{
		Spinner:    sp,
		Title:      title,
		Subtitle:   subtitle,
		TitleStyle: style.Title,
		Idle:       DefaultIdle,
	}
}

// Init starts the spinner animation.
func (ls Model) Init() tea.Cmd {
	return ls.Spinner.Tick
}

// Update advances the spinner. Ticks are consumed even while inactive so
// the animation resumes without a new Init.
func (ls Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	if tickMsg, ok := teaMsg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		ls.Spinner, cmd = ls.Spinner.Update(tickMsg)

		return ls, cmd
	}

	return ls, nil
}

func (ls Model) View() string {
	return ls.ViewWith(ls.Title, ls.Subtitle)
}

// ViewWith renders with labels computed at render time.
func (ls Model) ViewWith(title, subtitle string) string {
	var sb strings.Builder

	if ls.Active {
		sb.WriteString(ls.Spinner.View())
	} else {
		sb.WriteString(style.Muted.Render(ls.Idle))
	}

	sb.WriteString(" ")
	sb.WriteString(ls.TitleStyle.Render(title))

	if subtitle != "" {
		sb.WriteString("  ")
		sb.WriteString(style.Subtitle.Render(subtitle))
	}

	return sb.String()
}
