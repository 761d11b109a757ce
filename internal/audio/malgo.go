package audio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alkime/pomodoro/internal/synth"
	"github.com/alkime/pomodoro/pkg/collections"
	"github.com/gen2brain/malgo"
)

// MalgoBackend keeps one playback device open for the life of the program
// and streams buffers into its callback. A new buffer replaces whatever is
// still playing; sounds never overlap.
type MalgoBackend struct {
	conf DeviceConfig

	mgCtx    *malgo.AllocatedContext
	mgDevice *malgo.Device

	mu      sync.Mutex
	pending []byte
	pos     int
	done    chan struct{}
}

// NewMalgoBackend opens and starts the default playback device.
func NewMalgoBackend(conf DeviceConfig) (*MalgoBackend, error) {
	b := &MalgoBackend{conf: conf.WithDefaults()}

	if err := b.allocMGDevice(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	if err := b.mgDevice.Start(); err != nil {
		b.deallocMGDevice()
		return nil, fmt.Errorf("%w: failed to start malgo device: %w", ErrBackendUnavailable, err)
	}

	return b, nil
}

func (b *MalgoBackend) Name() string { return BackendMalgo }

// Play queues buf on the device and waits until the callback has consumed
// it, it was replaced by a newer buffer, or ctx is done.
func (b *MalgoBackend) Play(ctx context.Context, buf *synth.Buffer) error {
	if buf.SampleRate != b.conf.SampleRate {
		return fmt.Errorf("buffer %q is %d Hz, device runs at %d Hz",
			buf.Name, buf.SampleRate, b.conf.SampleRate)
	}

	done := make(chan struct{})

	b.mu.Lock()
	if b.done != nil {
		close(b.done)
	}
	b.pending = buf.Data
	b.pos = 0
	b.done = done
	b.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the device and frees the malgo context.
func (b *MalgoBackend) Close() error {
	b.deallocMGDevice()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done != nil {
		close(b.done)
		b.done = nil
	}

	return nil
}

// fill is the device data callback.
func (b *MalgoBackend) fill(out, _ []byte, _ uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := copy(out, b.pending[b.pos:])
	b.pos += n
	clear(out[n:])

	if b.done != nil && b.pos >= len(b.pending) {
		close(b.done)
		b.done = nil
	}
}

func (b *MalgoBackend) allocMGDevice() error {
	mgCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	devCnf := malgo.DefaultDeviceConfig(malgo.Playback)
	devCnf.Playback.Format = b.conf.Format
	devCnf.Playback.Channels = uint32(b.conf.Channels)
	devCnf.SampleRate = uint32(b.conf.SampleRate)

	mgDevice, err := malgo.InitDevice(mgCtx.Context, devCnf, malgo.DeviceCallbacks{
		Data: b.fill,
	})
	if err != nil {
		uninitializeContext(mgCtx)
		return fmt.Errorf("failed to initialize malgo device: %w", err)
	}

	b.mgCtx = mgCtx
	b.mgDevice = mgDevice

	return nil
}

func (b *MalgoBackend) deallocMGDevice() {
	if b.mgDevice == nil {
		return
	}

	b.mgDevice.Uninit()
	uninitializeContext(b.mgCtx)
	b.mgDevice = nil
	b.mgCtx = nil
}

// Info describes one output device.
type Info struct {
	Name        string
	IsDefault   bool
	FormatCount int
	Formats     []string
}

// EnumeratePlaybackDevices lists the output devices malgo can see.
func EnumeratePlaybackDevices(ctx context.Context) ([]Info, error) {
	// an empty context is enough for enumeration
	devCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	defer uninitializeContext(devCtx)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	playbackDevices, err := devCtx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to get playback devices: %w", err)
	}

	return collections.Apply(playbackDevices, malgoDeviceInfoToDeviceInfo), nil
}

func malgoDeviceInfoToDeviceInfo(mdi malgo.DeviceInfo) Info {
	formats := make([]string, len(mdi.Formats))
	for i, mf := range mdi.Formats {
		formats[i] = fmt.Sprintf("%d-bit, %d ch, %d Hz",
			malgo.SampleSizeInBytes(mf.Format)*8,
			mf.Channels, mf.SampleRate)
	}

	return Info{
		Name:        mdi.Name(),
		IsDefault:   mdi.IsDefault != 0,
		FormatCount: int(mdi.FormatCount),
		Formats:     formats,
	}
}

func uninitializeContext(deviceCtx *malgo.AllocatedContext) {
	if deviceCtx == nil {
		return
	}

	if err := deviceCtx.Uninit(); err != nil {
		slog.Error("failed to uninitialize malgo context", "error", err)
	}
	deviceCtx.Free()
}
