package timer

import (
	"errors"
	"fmt"
)

// Phase is one interval of the work/break cycle.
type Phase int

const (
	Work Phase = iota
	ShortBreak
	LongBreak
)

// String returns the machine-friendly name used in logs and the HTTP API.
func (p Phase) String() string {
	switch p {
	case Work:
		return "work"
	case ShortBreak:
		return "short_break"
	case LongBreak:
		return "long_break"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Label returns the display name of the phase.
func (p Phase) Label() string {
	switch p {
	case Work:
		return "WORK"
	case ShortBreak:
		return "SHORT BREAK"
	case LongBreak:
		return "LONG BREAK"
	default:
		return p.String()
	}
}

// MarshalText encodes the phase by its String name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{Work, ShortBreak, LongBreak} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}

	return fmt.Errorf("unknown phase %q", text)
}

// IsBreak reports whether p is one of the break phases.
func (p Phase) IsBreak() bool {
	return p == ShortBreak || p == LongBreak
}

const (
	DefaultWorkSeconds             = 25 * 60
	DefaultShortBreakSeconds       = 5 * 60
	DefaultLongBreakSeconds        = 15 * 60
	DefaultSessionsBeforeLongBreak = 4
)

// Settings holds the nominal phase durations, in whole seconds, and the
// number of work sessions between long breaks.
type Settings struct {
	WorkSeconds             int
	ShortBreakSeconds       int
	LongBreakSeconds        int
	SessionsBeforeLongBreak int
}

// DefaultSettings returns the classic 25/5/15 cycle with a long break every
// fourth session.
func DefaultSettings() Settings {
	return Settings{
		WorkSeconds:             DefaultWorkSeconds,
		ShortBreakSeconds:       DefaultShortBreakSeconds,
		LongBreakSeconds:        DefaultLongBreakSeconds,
		SessionsBeforeLongBreak: DefaultSessionsBeforeLongBreak,
	}
}

// Validate returns an error if any duration or the session count is not positive.
func (s Settings) Validate() error {
	if s.WorkSeconds <= 0 {
		return errors.New("work seconds must be positive")
	}

	if s.ShortBreakSeconds <= 0 {
		return errors.New("short break seconds must be positive")
	}

	if s.LongBreakSeconds <= 0 {
		return errors.New("long break seconds must be positive")
	}

	if s.SessionsBeforeLongBreak <= 0 {
		return errors.New("sessions before long break must be positive")
	}

	return nil
}

// Seconds returns the nominal duration of p in seconds.
func (s Settings) Seconds(p Phase) int {
	switch p {
	case ShortBreak:
		return s.ShortBreakSeconds
	case LongBreak:
		return s.LongBreakSeconds
	default:
		return s.WorkSeconds
	}
}

// FormatClock renders seconds as zero-padded MM:SS. Minutes are not capped
// at 59.
func FormatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// SessionText is the "Session N of M" caption. N counts from the session in
// progress and is not wrapped.
func SessionText(sessionCount int, s Settings) string {
	return fmt.Sprintf("Session %d of %d", sessionCount+1, s.SessionsBeforeLongBreak)
}
