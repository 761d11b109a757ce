package audio

import (
	"github.com/alkime/pomodoro/internal/synth"
	"github.com/gen2brain/malgo"
)

// DeviceConfig describes the playback device format. Rendered buffers are
// always mono S16LE, so only the rate is really configurable.
type DeviceConfig struct {
	Format     malgo.FormatType
	Channels   int
	SampleRate int
}

// WithDefaults fills zero fields with the synth output format.
func (c DeviceConfig) WithDefaults() DeviceConfig {
	if c.Format == malgo.FormatUnknown {
		c.Format = malgo.FormatS16
	}

	if c.Channels == 0 {
		c.Channels = 1
	}

	if c.SampleRate == 0 {
		c.SampleRate = synth.DefaultSampleRate
	}

	return c
}
