// Package synth renders the timer's sounds from closed-form waveform recipes.
//
// Nothing here loads sample data: every preset is a short table of
// oscillator and noise terms shaped by an exponential envelope, and rendering
// the same preset at the same sample rate always yields the same bytes.
package synth

import (
	"errors"
	"fmt"
	"time"

	"github.com/alkime/pomodoro/pkg/collections"
)

const (
	// DefaultSampleRate is the rate every cached buffer is rendered at.
	DefaultSampleRate = 44100
	// Seed is the PRNG seed used by every preset that contains noise.
	Seed = 42

	// BellPreset names the phase-end chime.
	BellPreset = "Bell"
	// DefaultTickPreset is the tick sound a new timer starts with.
	DefaultTickPreset = "Metronome"
)

// ErrUnknownPreset is returned when a preset name is not in the catalog.
var ErrUnknownPreset = errors.New("unknown sound preset")

// Source selects what a Term contributes to the mix.
type Source int

const (
	// Sine is an oscillator term.
	Sine Source = iota
	// Noise is a uniform white-noise term.
	Noise
)

// Kind separates tick sounds from the bell.
type Kind int

const (
	KindTick Kind = iota
	KindBell
)

// Term is one weighted component of a preset's mix.
type Term struct {
	Source Source
	// Freq is the oscillator frequency in Hz at t=0.
	Freq float64
	// FreqEnd, when non-zero, sweeps the frequency linearly to this value
	// over the preset's duration.
	FreqEnd float64
	Weight  float64
	// Decay, when positive, multiplies this term by exp(-t*Decay) on top of
	// the preset envelope.
	Decay float64
}

// Preset is an immutable waveform recipe.
type Preset struct {
	Name     string
	Kind     Kind
	Duration time.Duration
	// Decay is the envelope rate: envelope(t) = exp(-t*Decay).
	Decay float64
	Terms []Term
	// Peak is the integer amplitude a full-scale sample maps to.
	Peak int
}

// HasNoise reports whether rendering consumes the PRNG.
func (p Preset) HasNoise() bool {
	for _, term := range p.Terms {
		if term.Source == Noise {
			return true
		}
	}

	return false
}

// catalog is ordered the way the sound picker lists it. Mechanical Clock is
// the original hand-tuned tick; the others are variations on the same model.
var catalog = []Preset{
	{
		Name:     "Mechanical Clock",
		Kind:     KindTick,
		Duration: 35 * time.Millisecond,
		Decay:    300,
		Terms: []Term{
			{Source: Sine, Freq: 120, Weight: 0.35},
			{Source: Sine, Freq: 800, Weight: 0.30},
			{Source: Noise, Weight: 0.35, Decay: 600},
		},
		Peak: 12000,
	},
	{
		Name:     "Soft Click",
		Kind:     KindTick,
		Duration: 12 * time.Millisecond,
		Decay:    500,
		Terms: []Term{
			{Source: Sine, Freq: 2000, Weight: 0.40},
			{Source: Noise, Weight: 0.60, Decay: 900},
		},
		Peak: 8000,
	},
	{
		Name:     "Woodblock",
		Kind:     KindTick,
		Duration: 60 * time.Millisecond,
		Decay:    90,
		Terms: []Term{
			{Source: Sine, Freq: 880, Weight: 0.60},
			{Source: Sine, Freq: 1320, Weight: 0.25},
			{Source: Noise, Weight: 0.15, Decay: 1200},
		},
		Peak: 14000,
	},
	{
		Name:     "Metronome",
		Kind:     KindTick,
		Duration: 30 * time.Millisecond,
		Decay:    180,
		Terms: []Term{
			{Source: Sine, Freq: 1500, Weight: 0.80},
			{Source: Noise, Weight: 0.20, Decay: 1000},
		},
		Peak: 13000,
	},
	{
		Name:     "Drip",
		Kind:     KindTick,
		Duration: 80 * time.Millisecond,
		Decay:    60,
		Terms: []Term{
			{Source: Sine, Freq: 1800, FreqEnd: 600, Weight: 0.90},
		},
		Peak: 11000,
	},
	{
		Name:     "Typewriter",
		Kind:     KindTick,
		Duration: 25 * time.Millisecond,
		Decay:    250,
		Terms: []Term{
			{Source: Noise, Weight: 0.70},
			{Source: Sine, Freq: 3200, Weight: 0.30},
		},
		Peak: 15000,
	},
	{
		Name:     "Pulse",
		Kind:     KindTick,
		Duration: 50 * time.Millisecond,
		Decay:    80,
		Terms: []Term{
			{Source: Sine, Freq: 440, Weight: 1.0},
		},
		Peak: 10000,
	},
	{
		Name:     "Chirp",
		Kind:     KindTick,
		Duration: 40 * time.Millisecond,
		Decay:    70,
		Terms: []Term{
			{Source: Sine, Freq: 2000, FreqEnd: 4500, Weight: 0.85},
		},
		Peak: 9000,
	},
	{
		Name:     "Snap",
		Kind:     KindTick,
		Duration: 8 * time.Millisecond,
		Decay:    700,
		Terms: []Term{
			{Source: Noise, Weight: 0.85},
			{Source: Sine, Freq: 5000, Weight: 0.15},
		},
		Peak: 16000,
	},
	{
		Name:     "Sonar",
		Kind:     KindTick,
		Duration: 150 * time.Millisecond,
		Decay:    25,
		Terms: []Term{
			{Source: Sine, Freq: 1100, Weight: 0.80},
			{Source: Sine, Freq: 2200, Weight: 0.20},
		},
		Peak: 9000,
	},
	{
		Name:     BellPreset,
		Kind:     KindBell,
		Duration: 1500 * time.Millisecond,
		Decay:    3,
		Terms: []Term{
			{Source: Sine, Freq: 880, Weight: 0.50},
			{Source: Sine, Freq: 1760, Weight: 0.30, Decay: 2},
			{Source: Sine, Freq: 2637, Weight: 0.20, Decay: 4},
		},
		Peak: 16000,
	},
}

// Catalog returns every preset, ticks first and the bell last.
func Catalog() []Preset {
	out := make([]Preset, len(catalog))
	copy(out, catalog)

	return out
}

// TickPresets returns the presets selectable as the tick sound.
func TickPresets() []Preset {
	return collections.Filter(catalog, func(p Preset) bool { return p.Kind == KindTick })
}

// Names returns the names of the given presets in order.
func Names(presets []Preset) []string {
	return collections.Apply(presets, func(p Preset) string { return p.Name })
}

// Lookup finds a preset by its exact name.
func Lookup(name string) (Preset, error) {
	for _, p := range catalog {
		if p.Name == name {
			return p, nil
		}
	}

	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// MustLookup is Lookup for names fixed at compile time. It panics on a miss.
func MustLookup(name string) Preset {
	p, err := Lookup(name)
	if err != nil {
		panic(err)
	}

	return p
}

// IsTick reports whether name is a selectable tick preset.
func IsTick(name string) bool {
	p, err := Lookup(name)

	return err == nil && p.Kind == KindTick
}
