package tui

import (
	"github.com/alkime/pomodoro/internal/timer"
	"github.com/alkime/pomodoro/pkg/uictl"
)

// runningKnob exposes the countdown's start/pause state as a Knob.
type runningKnob struct {
	t *timer.Timer
}

var _ uictl.Knob = runningKnob{}

func (k runningKnob) Read() bool { return k.t.Running() }

func (k runningKnob) Toggle() { k.t.ToggleRunning() }

func (k runningKnob) On() {
	if !k.t.Running() {
		k.t.ToggleRunning()
	}
}

func (k runningKnob) Off() {
	if k.t.Running() {
		k.t.ToggleRunning()
	}
}

// remainingDial reports the seconds left in the phase.
type remainingDial struct {
	t *timer.Timer
}

var _ uictl.Dial[int] = remainingDial{}

func (d remainingDial) Read() int { return d.t.TimeLeft() }
