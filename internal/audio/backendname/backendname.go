// Package backendname lists the accepted AUDIO_BACKEND values. It has no
// device dependencies so configuration can validate names without cgo.
package backendname

import (
	"slices"
	"strings"
)

const (
	Auto  = "auto"
	Malgo = "malgo"
	Oto   = "oto"
	Pulse = "pulse"
	Exec  = "exec"
	None  = "none"
)

// Names lists every accepted backend name.
func Names() []string {
	return []string{Auto, Malgo, Oto, Pulse, Exec, None}
}

// Valid reports whether name is an accepted backend, ignoring case.
func Valid(name string) bool {
	return slices.Contains(Names(), strings.ToLower(name))
}
