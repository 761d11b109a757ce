// Package waveform draws the envelope of the last played sound.
package waveform

import (
	"math"
	"strings"
	"time"

	"github.com/alkime/pomodoro/internal/tui/style"
	"github.com/alkime/pomodoro/pkg/uictl"
	tea "github.com/charmbracelet/bubbletea"
)

// Block characters, empty to full.
const blockChars = " ▁▂▃▄▅▆▇█"

const (
	levelsPerRow  = 8
	frameInterval = 50 * time.Millisecond
)

// TickMsg triggers a redraw.
type TickMsg struct{}

// Model renders samples from a Levels control as vertical bars, oldest on
// the left.
type Model struct {
	levels uictl.Levels[int16]
	width  int
	height int
}

// New creates a waveform width columns wide and height rows tall.
func New(levels uictl.Levels[int16], width, height int) Model {
	return Model{
		levels: levels,
		width:  max(width, 1),
		height: max(height, 1),
	}
}

// Init starts the redraw loop.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update keeps the redraw loop alive.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		return m, m.tick()
	}

	return m, nil
}

func (m Model) View() string {
	if m.levels == nil {
		return m.renderEmpty()
	}

	samples := m.levels.Read()
	if len(samples) == 0 {
		return m.renderEmpty()
	}

	return m.render(columnLevels(samples, m.width, m.height*levelsPerRow))
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

func (m Model) render(levels []int) string {
	runes := []rune(blockChars)
	rows := make([]string, m.height)

	for row := range rows {
		// row 0 is the top
		base := (m.height - 1 - row) * levelsPerRow

		var sb strings.Builder
		for _, level := range levels {
			fill := min(max(level-base, 0), levelsPerRow)
			sb.WriteRune(runes[fill])
		}

		rows[row] = style.Progress.Render(sb.String())
	}

	return strings.Join(rows, "\n")
}

func (m Model) renderEmpty() string {
	rows := make([]string, m.height)
	for row := range rows {
		line := strings.Repeat(" ", m.width)
		if row == m.height-1 {
			line = strings.Repeat("▁", m.width)
		}

		rows[row] = style.Muted.Render(line)
	}

	return strings.Join(rows, "\n")
}

// columnLevels buckets samples into width columns and maps each bucket's
// peak to 0..maxLevel on a square-root curve so quiet tails stay visible.
func columnLevels(samples []int16, width, maxLevel int) []int {
	levels := make([]int, width)
	bucket := max(1, len(samples)/width)

	for col := range levels {
		start := col * bucket
		if start >= len(samples) {
			break
		}

		peak := peakAmplitude(samples[start:min(start+bucket, len(samples))])
		scaled := math.Sqrt(float64(peak)/math.MaxInt16) * float64(maxLevel)
		levels[col] = min(int(scaled), maxLevel)
	}

	return levels
}

func peakAmplitude(samples []int16) int {
	peak := 0
	for _, s := range samples {
		peak = max(peak, abs(int(s)))
	}

	return min(peak, math.MaxInt16)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
