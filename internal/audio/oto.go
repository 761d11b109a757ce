package audio

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alkime/pomodoro/internal/synth"
	"github.com/hajimehoshi/oto/v2"
)

const otoPollInterval = 10 * time.Millisecond

// OtoBackend plays buffers through an oto context. oto allows a single
// context per process, so at most one OtoBackend may exist.
type OtoBackend struct {
	ctx        *oto.Context
	sampleRate int

	mu      sync.Mutex
	current oto.Player
}

// NewOtoBackend creates the oto context and waits for the driver.
func NewOtoBackend(sampleRate int) (*OtoBackend, error) {
	if sampleRate <= 0 {
		sampleRate = synth.DefaultSampleRate
	}

	ctx, ready, err := oto.NewContext(sampleRate, 1, oto.FormatSignedInt16LE)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create oto context: %w", ErrBackendUnavailable, err)
	}
	<-ready

	return &OtoBackend{ctx: ctx, sampleRate: sampleRate}, nil
}

func (b *OtoBackend) Name() string { return BackendOto }

// Play starts buf, stopping any sound still playing, and polls until it ends.
func (b *OtoBackend) Play(ctx context.Context, buf *synth.Buffer) error {
	if buf.SampleRate != b.sampleRate {
		return fmt.Errorf("buffer %q is %d Hz, oto runs at %d Hz",
			buf.Name, buf.SampleRate, b.sampleRate)
	}

	player := b.ctx.NewPlayer(bytes.NewReader(buf.Data))

	b.mu.Lock()
	if b.current != nil {
		_ = b.current.Close()
	}
	b.current = player
	b.mu.Unlock()

	player.Play()

	ticker := time.NewTicker(otoPollInterval)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == player {
		b.current = nil
		if err := player.Close(); err != nil {
			return fmt.Errorf("failed to close oto player: %w", err)
		}
	}

	return nil
}

func (b *OtoBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current != nil {
		err := b.current.Close()
		b.current = nil

		return err
	}

	return nil
}
