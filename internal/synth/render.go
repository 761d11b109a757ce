package synth

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"time"
)

// BytesPerSample is the size of one mono S16LE sample.
const BytesPerSample = 2

// Buffer is a rendered preset: mono, signed 16-bit little-endian PCM.
// Buffers are never mutated after Render returns.
type Buffer struct {
	Name       string
	SampleRate int
	Data       []byte
}

// Len returns the number of samples.
func (b *Buffer) Len() int {
	return len(b.Data) / BytesPerSample
}

// Duration returns the playback length of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}

	return time.Duration(b.Len()) * time.Second / time.Duration(b.SampleRate)
}

// Samples decodes the buffer into a fresh int16 slice.
func (b *Buffer) Samples() []int16 {
	samples := make([]int16, b.Len())
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(b.Data[i*BytesPerSample:]))
	}

	return samples
}

// Render synthesizes p at sampleRate. The noise generator is reseeded with
// Seed for every call so output never depends on what was rendered before.
// Products are converted explicitly before each addition so the compiler
// cannot fuse them and output stays identical across architectures.
func Render(p Preset, sampleRate int) *Buffer {
	n := int(math.Round(p.Duration.Seconds() * float64(sampleRate)))
	if n < 0 {
		n = 0
	}

	var rng *rand.Rand
	if p.HasNoise() {
		rng = rand.New(rand.NewPCG(Seed, Seed)) //nolint:gosec // reproducible noise, not security
	}

	data := make([]byte, n*BytesPerSample)
	duration := p.Duration.Seconds()

	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)

		// one draw per sample, shared by every noise term
		var noise float64
		if rng != nil {
			noise = float64(rng.Float64()*2) - 1
		}

		var mix float64
		for _, term := range p.Terms {
			var v float64
			switch term.Source {
			case Sine:
				v = math.Sin(2 * math.Pi * term.frequency(t, duration) * t)
			case Noise:
				v = noise
			}

			if term.Decay > 0 {
				v *= math.Exp(-t * term.Decay)
			}

			mix += float64(term.Weight * v)
		}

		sample := math.Exp(-t*p.Decay) * mix
		value := int16(float64(p.Peak) * clamp(sample, -1, 1))
		binary.LittleEndian.PutUint16(data[i*BytesPerSample:], uint16(value))
	}

	return &Buffer{
		Name:       p.Name,
		SampleRate: sampleRate,
		Data:       data,
	}
}

func (t Term) frequency(at, duration float64) float64 {
	if t.FreqEnd == 0 || duration <= 0 {
		return t.Freq
	}

	return t.Freq + float64((t.FreqEnd-t.Freq)*(at/duration))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
