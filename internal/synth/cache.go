package synth

import (
	"fmt"
	"sync"
)

// Cache renders each preset at most once and hands out the shared buffer.
type Cache struct {
	sampleRate int

	mu      sync.Mutex
	buffers map[string]*Buffer
}

// NewCache creates an empty cache for the given sample rate.
func NewCache(sampleRate int) *Cache {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	return &Cache{
		sampleRate: sampleRate,
		buffers:    make(map[string]*Buffer, len(catalog)),
	}
}

// SampleRate returns the rate buffers are rendered at.
func (c *Cache) SampleRate() int {
	return c.sampleRate
}

// Buffer returns the rendered buffer for name, rendering it on first use.
func (c *Cache) Buffer(name string) (*Buffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if buf, ok := c.buffers[name]; ok {
		return buf, nil
	}

	p, err := Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("failed to render sound: %w", err)
	}

	buf := Render(p, c.sampleRate)
	c.buffers[name] = buf

	return buf, nil
}

// Warm renders the whole catalog so the first tick never pays for synthesis.
func (c *Cache) Warm() {
	for _, p := range catalog {
		// catalog names always resolve
		_, _ = c.Buffer(p.Name)
	}
}
