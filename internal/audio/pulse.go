package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/alkime/pomodoro/internal/synth"
	"github.com/jfreymuth/pulse"
)

// PulseBackend talks to a PulseAudio (or PipeWire-pulse) server directly,
// one playback stream per sound.
type PulseBackend struct {
	client     *pulse.Client
	sampleRate int

	// the client is not safe for concurrent stream setup
	mu sync.Mutex
}

// NewPulseBackend connects to the session's pulse server.
func NewPulseBackend(sampleRate int) (*PulseBackend, error) {
	if sampleRate <= 0 {
		sampleRate = synth.DefaultSampleRate
	}

	client, err := pulse.NewClient(pulse.ClientApplicationName("pomodoro"))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to pulse: %w", ErrBackendUnavailable, err)
	}

	return &PulseBackend{client: client, sampleRate: sampleRate}, nil
}

func (b *PulseBackend) Name() string { return BackendPulse }

// Play streams buf and waits for the server to drain it. ctx is only
// checked before the stream starts.
func (b *PulseBackend) Play(ctx context.Context, buf *synth.Buffer) error {
	samples := buf.Samples()
	pos := 0
	reader := pulse.Int16Reader(func(out []int16) (int, error) {
		if pos >= len(samples) {
			return 0, pulse.EndOfData
		}
		n := copy(out, samples[pos:])
		pos += n

		return n, nil
	})

	b.mu.Lock()
	stream, err := b.client.NewPlayback(reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(buf.SampleRate),
		pulse.PlaybackLatency(0.05),
	)
	b.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to open pulse stream: %w", err)
	}
	defer stream.Close()

	if err := ctx.Err(); err != nil {
		return err
	}

	// sounds are short, so draining is not interruptible
	stream.Start()
	stream.Drain()
	stream.Stop()

	if err := stream.Error(); err != nil {
		return fmt.Errorf("pulse stream failed: %w", err)
	}

	return nil
}

func (b *PulseBackend) Close() error {
	b.client.Close()

	return nil
}
