// Package timer implements the work/break countdown state machine.
//
// A Timer is not internally synchronized. Exactly one goroutine (an event
// loop such as the TUI program or runner.Runner) may call its methods; that
// caller also owns the once-per-second scheduler and keeps it running only
// while Running() is true.
package timer

import (
	"fmt"

	"github.com/alkime/pomodoro/internal/synth"
)

// SoundBank hands out pre-rendered buffers by preset name.
type SoundBank interface {
	Buffer(name string) (*synth.Buffer, error)
}

// Player plays a buffer without blocking the caller. Implementations must
// swallow their own failures.
type Player interface {
	Play(buf *synth.Buffer)
}

// Option configures a Timer.
type Option func(*Timer)

// WithTickPreset selects the initial tick sound.
func WithTickPreset(name string) Option {
	return func(t *Timer) {
		t.tickPreset = name
	}
}

// WithObserver registers fn to receive an Event after every operation that
// changed the state.
func WithObserver(fn Observer) Option {
	return func(t *Timer) {
		t.observers = append(t.observers, fn)
	}
}

// Timer is the countdown state machine.
type Timer struct {
	settings Settings
	bank     SoundBank
	player   Player

	phase        Phase
	timeLeft     int
	running      bool
	sessionCount int
	tickPreset   string

	tickBuf *synth.Buffer
	bellBuf *synth.Buffer

	observers []Observer
}

// New creates a paused timer at the start of a work phase. It fails if the
// settings are invalid or the sounds cannot be resolved.
func New(settings Settings, bank SoundBank, player Player, opts ...Option) (*Timer, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timer settings: %w", err)
	}

	if bank == nil {
		return nil, fmt.Errorf("sound bank cannot be nil")
	}

	if player == nil {
		return nil, fmt.Errorf("player cannot be nil")
	}

	t := &Timer{
		settings:   settings,
		bank:       bank,
		player:     player,
		phase:      Work,
		timeLeft:   settings.Seconds(Work),
		tickPreset: synth.DefaultTickPreset,
	}

	for _, opt := range opts {
		opt(t)
	}

	tickBuf, err := t.resolveTick(t.tickPreset)
	if err != nil {
		return nil, err
	}

	bellBuf, err := bank.Buffer(synth.BellPreset)
	if err != nil {
		return nil, fmt.Errorf("failed to load bell: %w", err)
	}

	t.tickBuf = tickBuf
	t.bellBuf = bellBuf

	return t, nil
}

// Settings returns the durations the timer was built with.
func (t *Timer) Settings() Settings { return t.settings }

// Phase returns the current phase.
func (t *Timer) Phase() Phase { return t.phase }

// TimeLeft returns the remaining seconds in the current phase.
func (t *Timer) TimeLeft() int { return t.timeLeft }

// Running reports whether the countdown is active.
func (t *Timer) Running() bool { return t.running }

// SessionCount returns the number of completed work phases.
func (t *Timer) SessionCount() int { return t.sessionCount }

// TickPreset returns the selected tick sound.
func (t *Timer) TickPreset() string { return t.tickPreset }

// Snapshot returns a copy of the observable state.
func (t *Timer) Snapshot() State {
	return State{
		Phase:        t.phase,
		TimeLeft:     t.timeLeft,
		Running:      t.running,
		SessionCount: t.sessionCount,
		TickPreset:   t.tickPreset,
		Progress:     t.Progress(),
	}
}

// Progress returns how much of the current phase has elapsed, from 0 to 1.
func (t *Timer) Progress() float64 {
	total := t.settings.Seconds(t.phase)

	return float64(total-t.timeLeft) / float64(total)
}

// ToggleRunning starts or pauses the countdown.
func (t *Timer) ToggleRunning() {
	from := t.phase
	t.running = !t.running
	t.emit(ChangeRunning, SoundNone, from)
}

// Reset pauses and rewinds the current phase to its full duration.
func (t *Timer) Reset() {
	from := t.phase

	var changes Change
	if t.running {
		t.running = false
		changes |= ChangeRunning
	}

	if full := t.settings.Seconds(t.phase); t.timeLeft != full {
		t.timeLeft = full
		changes |= ChangeTimeLeft
	}

	t.emit(changes, SoundNone, from)
}

// Skip pauses and ends the current phase immediately.
func (t *Timer) Skip() {
	from := t.phase

	var changes Change
	if t.running {
		t.running = false
		changes |= ChangeRunning
	}

	changes |= t.advance()
	t.emit(changes, SoundBell, from)
}

// Tick advances the countdown by one second. It reports whether the phase
// ended. Ticks delivered while paused are stale scheduler signals and are
// ignored.
func (t *Timer) Tick() bool {
	if !t.running {
		return false
	}

	from := t.phase
	t.timeLeft--

	if t.timeLeft > 0 {
		t.player.Play(t.tickBuf)
		t.emit(ChangeTimeLeft, SoundTick, from)

		return false
	}

	changes := ChangeTimeLeft | t.advance()
	t.emit(changes, SoundBell, from)

	return true
}

// SelectTickPreset switches the tick sound used from the next Tick on. An
// unknown or non-tick name is rejected and leaves the timer unchanged.
func (t *Timer) SelectTickPreset(name string) error {
	buf, err := t.resolveTick(name)
	if err != nil {
		return err
	}

	from := t.phase
	changed := name != t.tickPreset
	t.tickPreset = name
	t.tickBuf = buf

	if changed {
		t.emit(ChangePreset, SoundNone, from)
	}

	return nil
}

// advance performs the end-of-phase procedure and returns what it changed.
// The session counter only moves when leaving Work, and the long-break test
// uses the incremented count.
func (t *Timer) advance() Change {
	changes := ChangePhase | ChangeTimeLeft

	if t.running {
		t.running = false
		changes |= ChangeRunning
	}

	t.player.Play(t.bellBuf)

	if t.phase == Work {
		t.sessionCount++
		changes |= ChangeSessions

		if t.sessionCount%t.settings.SessionsBeforeLongBreak == 0 {
			t.phase = LongBreak
		} else {
			t.phase = ShortBreak
		}
	} else {
		t.phase = Work
	}

	t.timeLeft = t.settings.Seconds(t.phase)

	return changes
}

func (t *Timer) resolveTick(name string) (*synth.Buffer, error) {
	if !synth.IsTick(name) {
		return nil, fmt.Errorf("%w: %q is not a tick sound", synth.ErrUnknownPreset, name)
	}

	buf, err := t.bank.Buffer(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load tick sound: %w", err)
	}

	return buf, nil
}

func (t *Timer) emit(changes Change, sound Sound, from Phase) {
	if changes == 0 {
		return
	}

	ev := Event{
		Changes: changes,
		State:   t.Snapshot(),
		Sound:   sound,
		From:    from,
	}

	for _, fn := range t.observers {
		fn(ev)
	}
}
