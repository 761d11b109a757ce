package audio_test

import (
	"context"
	"testing"
	"time"

	"github.com/alkime/pomodoro/internal/audio"
	"github.com/alkime/pomodoro/internal/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleRingBuffer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		capacity int
		writes   [][]int16
		read     int
		want     []int16
		count    int
	}{
		{"partial fill", 10, [][]int16{{1, 2, 3, 4, 5}}, 5, []int16{1, 2, 3, 4, 5}, 5},
		{"empty write", 10, [][]int16{{}}, 5, nil, 0},
		{"wraps around", 5, [][]int16{{1, 2, 3, 4, 5, 6, 7}}, 5, []int16{3, 4, 5, 6, 7}, 5},
		{"batched writes", 5, [][]int16{{1, 2}, {3, 4}, {5, 6}}, 5, []int16{2, 3, 4, 5, 6}, 5},
		{"read newest only", 10, [][]int16{{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}, 3, []int16{8, 9, 10}, 10},
		{"read past count", 10, [][]int16{{1, 2, 3}}, 10, []int16{1, 2, 3}, 3},
		{"read zero", 10, [][]int16{{1, 2, 3}}, 0, nil, 3},
		{"read negative", 10, [][]int16{{1, 2, 3}}, -1, nil, 3},
		{"zero capacity", 0, [][]int16{{1, 2, 3}}, 3, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := audio.NewSampleRingBuffer(tt.capacity)
			for _, w := range tt.writes {
				buf.Write(w)
			}

			assert.Equal(t, tt.want, buf.ReadSamples(tt.read))
			assert.Equal(t, tt.count, buf.Count())
		})
	}
}

func TestSampleRingBuffer_WriteBuffer(t *testing.T) {
	t.Parallel()

	snap := synth.Render(synth.MustLookup("Snap"), synth.DefaultSampleRate)
	samples := snap.Samples()

	buf := audio.NewSampleRingBuffer(100)
	buf.WriteBuffer(snap)

	require.Equal(t, 100, buf.Count())
	assert.Equal(t, samples[len(samples)-100:], buf.ReadSamples(100))

	levels := buf.Window(10)
	assert.Equal(t, samples[len(samples)-10:], levels.Read())
}

func TestSampleRingBuffer_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	buf := audio.NewSampleRingBuffer(1000)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	go func() {
		counter := int16(0)
		for ctx.Err() == nil {
			buf.Write([]int16{counter, counter + 1, counter + 2})
			counter += 3
		}
	}()

	for ctx.Err() == nil {
		samples := buf.ReadSamples(10)
		assert.LessOrEqual(t, len(samples), 10)
	}
}
