// Package audio plays and encodes rendered timer sounds.
//
// A Backend blocks until a buffer has been handed to the output. The
// AsyncPlayer wraps a Backend so the timer can fire sounds without waiting
// on it.
package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/alkime/pomodoro/internal/audio/backendname"
	"github.com/alkime/pomodoro/internal/synth"
)

// ErrBackendUnavailable is returned when a backend cannot be opened on this
// machine (no device, no helper binary, unknown name).
var ErrBackendUnavailable = errors.New("audio backend unavailable")

// Backend names, re-exported for callers that already import audio.
const (
	BackendAuto  = backendname.Auto
	BackendMalgo = backendname.Malgo
	BackendOto   = backendname.Oto
	BackendPulse = backendname.Pulse
	BackendExec  = backendname.Exec
	BackendNone  = backendname.None
)

// Backend sends a buffer to an audio output.
type Backend interface {
	Name() string
	// Play blocks until buf has been handed to the output or ctx is done.
	Play(ctx context.Context, buf *synth.Buffer) error
	Close() error
}

// NewBackend opens the named backend at sampleRate. "auto" tries the device
// backends first and falls back to a helper process, then to silence.
func NewBackend(name string, sampleRate int) (Backend, error) {
	switch strings.ToLower(name) {
	case BackendMalgo:
		return NewMalgoBackend(DeviceConfig{SampleRate: sampleRate})
	case BackendOto:
		return NewOtoBackend(sampleRate)
	case BackendPulse:
		return NewPulseBackend(sampleRate)
	case BackendExec:
		return NewExecBackend(runtime.GOOS, "")
	case BackendNone:
		return NopBackend{}, nil
	case BackendAuto, "":
		return autoBackend(sampleRate), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrBackendUnavailable, name)
	}
}

func autoBackend(sampleRate int) Backend {
	openers := []func() (Backend, error){
		func() (Backend, error) { return NewMalgoBackend(DeviceConfig{SampleRate: sampleRate}) },
		func() (Backend, error) { return NewExecBackend(runtime.GOOS, "") },
	}

	for _, open := range openers {
		backend, err := open()
		if err == nil {
			return backend
		}

		slog.Debug("audio backend not available", "error", err)
	}

	slog.Warn("no audio output found, sounds are disabled")

	return NopBackend{}
}

// NopBackend discards every buffer.
type NopBackend struct{}

func (NopBackend) Name() string { return BackendNone }

func (NopBackend) Play(context.Context, *synth.Buffer) error { return nil }

func (NopBackend) Close() error { return nil }
