package audio

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/alkime/pomodoro/internal/synth"
	"github.com/alkime/pomodoro/pkg/channels"
)

const (
	DefaultQueueSize = 8
	DefaultWorkers   = 1
)

// PlayerOption configures an AsyncPlayer.
type PlayerOption func(*AsyncPlayer)

// WithQueueSize sets how many sounds may wait for a worker.
func WithQueueSize(n int) PlayerOption {
	return func(p *AsyncPlayer) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithWorkers sets how many sounds may play at once.
func WithWorkers(n int) PlayerOption {
	return func(p *AsyncPlayer) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLevels mirrors every played sound into rb.
func WithLevels(rb *SampleRingBuffer) PlayerOption {
	return func(p *AsyncPlayer) {
		p.levels = rb
	}
}

// WithPlayerLogger sets the logger for playback failures.
func WithPlayerLogger(logger *slog.Logger) PlayerOption {
	return func(p *AsyncPlayer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// PlayerStats counts what happened to requested sounds.
type PlayerStats struct {
	Played  int64
	Dropped int64
	Failed  int64
}

// AsyncPlayer is a fire-and-forget timer.Player. Play never blocks: when
// the queue is full the sound is dropped, and backend errors are logged and
// counted but never returned.
type AsyncPlayer struct {
	backend   Backend
	levels    *SampleRingBuffer
	logger    *slog.Logger
	queueSize int
	workers   int

	queue  chan *synth.Buffer
	ctx    context.Context //nolint:containedctx // cancels in-flight playback on Close
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once

	played  atomic.Int64
	dropped atomic.Int64
	failed  atomic.Int64
}

// NewAsyncPlayer starts the workers.
func NewAsyncPlayer(backend Backend, opts ...PlayerOption) *AsyncPlayer {
	p := &AsyncPlayer{
		backend:   backend,
		logger:    slog.Default(),
		queueSize: DefaultQueueSize,
		workers:   DefaultWorkers,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.queue = make(chan *synth.Buffer, p.queueSize)
	p.ctx, p.cancel = context.WithCancel(context.Background())

	for range p.workers {
		p.wg.Go(p.work)
	}

	return p
}

// Play enqueues buf. It is safe to call after Close; the sound is dropped.
func (p *AsyncPlayer) Play(buf *synth.Buffer) {
	if buf == nil {
		return
	}

	if err := channels.SendNonBlock(p.queue, buf); err != nil {
		p.dropped.Add(1)
		p.logger.Debug("dropped sound", "preset", buf.Name, "error", err)
	}
}

// Stats returns the playback counters.
func (p *AsyncPlayer) Stats() PlayerStats {
	return PlayerStats{
		Played:  p.played.Load(),
		Dropped: p.dropped.Load(),
		Failed:  p.failed.Load(),
	}
}

// Close stops accepting sounds, interrupts what is playing, waits for the
// workers and closes the backend.
func (p *AsyncPlayer) Close() error {
	var err error

	p.once.Do(func() {
		p.cancel()
		close(p.queue)
		p.wg.Wait()
		err = p.backend.Close()
	})

	return err
}

func (p *AsyncPlayer) work() {
	for buf := range p.queue {
		if p.ctx.Err() != nil {
			p.dropped.Add(1)
			continue
		}

		if p.levels != nil {
			p.levels.WriteBuffer(buf)
		}

		if err := p.backend.Play(p.ctx, buf); err != nil {
			p.failed.Add(1)
			p.logger.Debug("failed to play sound",
				"preset", buf.Name, "backend", p.backend.Name(), "error", err)

			continue
		}

		p.played.Add(1)
	}
}
