package audio

import (
	"sync"

	"github.com/alkime/pomodoro/internal/synth"
	"github.com/alkime/pomodoro/pkg/uictl"
)

// SampleRingBuffer keeps the most recently played samples so the UI can
// draw a waveform of the last sound. One writer, many readers.
type SampleRingBuffer struct {
	mu      sync.RWMutex
	samples []int16
	head    int // next write position
	count   int // valid samples, at most len(samples)
}

// NewSampleRingBuffer creates a ring buffer holding capacity samples.
func NewSampleRingBuffer(capacity int) *SampleRingBuffer {
	return &SampleRingBuffer{samples: make([]int16, capacity)}
}

// Write appends samples, overwriting the oldest once full.
func (b *SampleRingBuffer) Write(samples []int16) {
	if len(samples) == 0 || len(b.samples) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := len(b.samples)

	// only the tail can survive a write longer than the buffer
	if len(samples) > capacity {
		samples = samples[len(samples)-capacity:]
	}

	for _, sample := range samples {
		b.samples[b.head] = sample
		b.head = (b.head + 1) % capacity
	}

	b.count = min(b.count+len(samples), capacity)
}

// WriteBuffer appends every sample of a rendered sound.
func (b *SampleRingBuffer) WriteBuffer(buf *synth.Buffer) {
	b.Write(buf.Samples())
}

// ReadSamples returns up to n of the newest samples, oldest first.
func (b *SampleRingBuffer) ReadSamples(n int) []int16 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 || n <= 0 {
		return nil
	}

	n = min(n, b.count)
	capacity := len(b.samples)
	start := (b.head - n + capacity) % capacity

	result := make([]int16, n)
	for i := range result {
		result[i] = b.samples[(start+i)%capacity]
	}

	return result
}

// Count returns the number of valid samples.
func (b *SampleRingBuffer) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.count
}

// Window exposes the newest n samples as a Levels control.
func (b *SampleRingBuffer) Window(n int) uictl.Levels[int16] {
	return window{buf: b, n: n}
}

type window struct {
	buf *SampleRingBuffer
	n   int
}

func (w window) Read() []int16 {
	return w.buf.ReadSamples(w.n)
}
