// Package uictl defines the small control surfaces UI components read and
// drive, so components never depend on the concrete timer or audio types.
package uictl

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

// Knob is a simple on/off toggle control.
type Knob interface {
	Read() bool
	On()
	Off()
	Toggle()
}

// Dial is a control that can read some value.
type Dial[N Number] interface {
	Read() N
}

// Levels is a control that exposes a window of recent samples.
type Levels[N Number] interface {
	Read() []N
}
