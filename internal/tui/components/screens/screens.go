// Package screens switches between full-window TUI models by name.
package screens

import (
	tea "github.com/charmbracelet/bubbletea"
)

// SwitchMsg asks the container to show the named screen.
type SwitchMsg struct {
	Name string
}

// SwitchCmd returns a command producing SwitchMsg.
func SwitchCmd(name string) tea.Cmd {
	return func() tea.Msg {
		return SwitchMsg{Name: name}
	}
}

type Screen struct {
	Name string
	mdl  tea.Model
}

func NewScreen(name string, mdl tea.Model) Screen {
	return Screen{
		Name: name,
		mdl:  mdl,
	}
}

func (s Screen) Init() tea.Cmd {
	return s.mdl.Init()
}

func (s Screen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	updated, cmd := s.mdl.Update(msg)
	s.mdl = updated

	return s, cmd
}

func (s Screen) View() string {
	return s.mdl.View()
}

// Model shows one screen at a time. Only the visible screen receives
// messages; a screen is re-initialized every time it is shown.
type Model struct {
	screens []Screen
	curr    int
}

func New(screens ...Screen) Model {
	return Model{screens: screens}
}

func (m Model) current() Screen {
	return m.screens[m.curr]
}

func (m Model) Init() tea.Cmd {
	return m.current().Init()
}

func (m Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := teaMsg.(SwitchMsg); ok {
		for i, s := range m.screens {
			if s.Name == msg.Name && i != m.curr {
				m.curr = i
				return m, m.current().Init()
			}
		}

		return m, nil
	}

	s, cmd := m.current().Update(teaMsg)
	m.screens[m.curr] = s

	return m, cmd
}

func (m Model) View() string {
	return m.current().View()
}

// CurrentName returns the name of the visible screen.
func (m Model) CurrentName() string {
	return m.current().Name
}
