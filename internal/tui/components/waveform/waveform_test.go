package waveform_test

import (
	"strings"
	"testing"

	"github.com/alkime/pomodoro/internal/audio"
	"github.com/alkime/pomodoro/internal/synth"
	"github.com/alkime/pomodoro/internal/tui/components/waveform"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type mockLevels struct {
	samples []int16
}

func (m *mockLevels) Read() []int16 {
	return m.samples
}

func TestWaveform_View(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		samples []int16
		want    string
	}{
		{"no samples", nil, "▁▁▁▁▁"},
		{"silence", []int16{0, 0, 0, 0, 0}, "     "},
		{"full scale", []int16{32767, 32767, 32767, 32767, 32767}, "█████"},
		{"most negative", []int16{-32768, -32768, -32768, -32768, -32768}, "█████"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := waveform.New(&mockLevels{samples: tt.samples}, 5, 1)
			assert.Equal(t, tt.want, m.View())
		})
	}
}

func TestWaveform_NilLevels(t *testing.T) {
	t.Parallel()

	m := waveform.New(nil, 3, 2)
	assert.Equal(t, "   \n▁▁▁", m.View())
}

func TestWaveform_MultiRow(t *testing.T) {
	t.Parallel()

	m := waveform.New(&mockLevels{samples: []int16{32767, 0}}, 2, 2)
	assert.Equal(t, "█ \n█ ", m.View())
}

func TestWaveform_DecayingSoundSlopesDown(t *testing.T) {
	t.Parallel()

	ring := audio.NewSampleRingBuffer(synth.DefaultSampleRate)
	ring.WriteBuffer(synth.Render(synth.MustLookup(synth.BellPreset), synth.DefaultSampleRate))

	m := waveform.New(ring.Window(4096), 16, 1)
	view := []rune(m.View())
	require.Len(t, view, 16)

	first := strings.IndexRune(" ▁▂▃▄▅▆▇█", view[0])
	last := strings.IndexRune(" ▁▂▃▄▅▆▇█", view[15])
	assert.GreaterOrEqual(t, first, last)
}
