// Package runner drives a timer.Timer from a single goroutine so headless
// hosts (the HTTP server, notifications) can share one countdown.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alkime/pomodoro/internal/timer"
	"github.com/alkime/pomodoro/pkg/channels"
)

// ErrStopped is returned by Do once Run has returned.
var ErrStopped = errors.New("runner stopped")

// DefaultInterval is the countdown resolution.
const DefaultInterval = time.Second

type command struct {
	fn     func(*timer.Timer) error
	result chan error
}

// Option configures a Runner.
type Option func(*Runner)

// WithInterval overrides the tick interval. Tests use a few milliseconds.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithLogger sets the logger used for phase transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Runner owns a Timer and the ticker that drives it. All timer access goes
// through Do, which executes on the loop goroutine.
type Runner struct {
	timer    *timer.Timer
	interval time.Duration
	logger   *slog.Logger

	cmds    chan command
	done    chan struct{}
	started atomic.Bool

	broadcaster *channels.Broadcaster[timer.Event]
	events      chan<- timer.Event

	ticker *time.Ticker
}

// New builds the timer and a runner around it. Timer options are passed
// through; the runner registers its own observer to publish events.
func New(settings timer.Settings, bank timer.SoundBank, player timer.Player,
	timerOpts []timer.Option, opts ...Option,
) (*Runner, error) {
	r := &Runner{
		interval:    DefaultInterval,
		logger:      slog.Default(),
		cmds:        make(chan command),
		done:        make(chan struct{}),
		broadcaster: channels.NewBroadcaster[timer.Event](),
	}

	for _, opt := range opts {
		opt(r)
	}

	timerOpts = append(timerOpts, timer.WithObserver(r.publish))

	t, err := timer.New(settings, bank, player, timerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create timer: %w", err)
	}

	r.timer = t

	return r, nil
}

// Subscribe registers ch for every timer event. Events are dropped while ch
// is full. Must be called before Run.
func (r *Runner) Subscribe(ch chan<- timer.Event) error {
	if err := r.broadcaster.Subscribe(ch); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	return nil
}

// SubscribeWithTimeout is Subscribe for consumers that must not miss
// events: each event waits up to timeout for room in ch.
func (r *Runner) SubscribeWithTimeout(ch chan<- timer.Event, timeout time.Duration) error {
	if err := r.broadcaster.SubscribeWithTimeout(ch, timeout); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	return nil
}

// Run processes commands and ticks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return errors.New("runner already started")
	}
	defer close(r.done)

	if len(r.broadcaster.Stats()) > 0 {
		input, err := r.broadcaster.Run(ctx)
		if err != nil {
			return fmt.Errorf("failed to start event broadcaster: %w", err)
		}

		r.events = input
	}

	defer r.stopTicker()

	for {
		select {
		case <-ctx.Done():
			return nil

		case cmd := <-r.cmds:
			cmd.result <- cmd.fn(r.timer)
			r.reconcile()

		case <-r.tickC():
			r.timer.Tick()
			r.reconcile()
		}
	}
}

// Done is closed when Run returns.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Do runs fn on the loop goroutine and returns its error.
func (r *Runner) Do(ctx context.Context, fn func(*timer.Timer) error) error {
	cmd := command{fn: fn, result: make(chan error, 1)}

	select {
	case r.cmds <- cmd:
	case <-r.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the current timer state.
func (r *Runner) Snapshot(ctx context.Context) (timer.State, error) {
	var state timer.State

	err := r.Do(ctx, func(t *timer.Timer) error {
		state = t.Snapshot()
		return nil
	})

	return state, err
}

// Settings returns the durations the timer runs with. Settings never
// change, so no loop round-trip is needed.
func (r *Runner) Settings() timer.Settings {
	return r.timer.Settings()
}

// reconcile keeps exactly one ticker alive while the timer runs.
func (r *Runner) reconcile() {
	switch running := r.timer.Running(); {
	case running && r.ticker == nil:
		r.ticker = time.NewTicker(r.interval)
	case !running && r.ticker != nil:
		r.stopTicker()
	}
}

func (r *Runner) stopTicker() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
}

func (r *Runner) tickC() <-chan time.Time {
	if r.ticker == nil {
		return nil
	}

	return r.ticker.C
}

func (r *Runner) publish(ev timer.Event) {
	if ev.Transition() {
		r.logger.Info("phase finished",
			"from", ev.From.String(),
			"phase", ev.State.Phase.String(),
			"session_count", ev.State.SessionCount)
	}

	if r.events == nil {
		return
	}

	if err := channels.SendNonBlock(r.events, ev); err != nil {
		r.logger.Debug("dropped timer event", "changes", ev.Changes.String(), "error", err)
	}
}
