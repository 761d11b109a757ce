package timer

import "strings"

// Change is a bit set naming the state fields an operation modified.
type Change uint8

const (
	ChangeTimeLeft Change = 1 << iota
	ChangePhase
	ChangeRunning
	ChangeSessions
	ChangePreset
)

// Has reports whether every bit in other is set in c.
func (c Change) Has(other Change) bool {
	return c&other == other
}

func (c Change) String() string {
	if c == 0 {
		return "none"
	}

	var parts []string
	for _, named := range []struct {
		bit  Change
		name string
	}{
		{ChangeTimeLeft, "time_left"},
		{ChangePhase, "phase"},
		{ChangeRunning, "running"},
		{ChangeSessions, "session_count"},
		{ChangePreset, "tick_preset"},
	} {
		if c.Has(named.bit) {
			parts = append(parts, named.name)
		}
	}

	return strings.Join(parts, "|")
}

// Sound names what was handed to the player during an operation.
type Sound int

const (
	SoundNone Sound = iota
	SoundTick
	SoundBell
)

// State is a read-only copy of the timer.
type State struct {
	Phase        Phase  `json:"phase"`
	TimeLeft     int    `json:"time_left"`
	Running      bool   `json:"running"`
	SessionCount int    `json:"session_count"`
	TickPreset   string `json:"tick_preset"`
	// Progress is the elapsed fraction of the phase, from 0 to 1.
	Progress float64 `json:"progress"`
}

// Event is emitted once per operation that changed something.
type Event struct {
	Changes Change
	State   State
	Sound   Sound
	// From is the phase before the operation; it differs from State.Phase
	// only when Changes has ChangePhase.
	From Phase
}

// Transition reports whether the event moved the timer to a new phase.
func (e Event) Transition() bool {
	return e.Changes.Has(ChangePhase)
}

// Observer receives events synchronously on the caller's goroutine.
type Observer func(Event)
