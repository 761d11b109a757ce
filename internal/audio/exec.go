package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alkime/pomodoro/internal/audio/codec"
	"github.com/alkime/pomodoro/internal/synth"
)

// ExecBackend plays sounds by running the platform's command-line player on
// a WAV file. Each preset is written to the temp directory once.
type ExecBackend struct {
	binary string
	args   []string
	dir    string

	mu    sync.Mutex
	files map[string]string
}

// NewExecBackend picks afplay on darwin and aplay elsewhere. A non-empty
// binary overrides the lookup.
func NewExecBackend(goos, binary string) (*ExecBackend, error) {
	var args []string

	if binary == "" {
		if goos == "darwin" {
			binary = "afplay"
		} else {
			binary = "aplay"
			args = []string{"-q"}
		}
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	dir, err := os.MkdirTemp("", "pomodoro-sounds-")
	if err != nil {
		return nil, fmt.Errorf("failed to create sound directory: %w", err)
	}

	return &ExecBackend{
		binary: path,
		args:   args,
		dir:    dir,
		files:  make(map[string]string),
	}, nil
}

func (b *ExecBackend) Name() string { return BackendExec }

// Play runs the player and waits for it to exit.
func (b *ExecBackend) Play(ctx context.Context, buf *synth.Buffer) error {
	path, err := b.file(buf)
	if err != nil {
		return err
	}

	args := append(append([]string{}, b.args...), path)

	//nolint:gosec // binary is resolved once from a fixed name
	out, err := exec.CommandContext(ctx, b.binary, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", filepath.Base(b.binary), err, strings.TrimSpace(string(out)))
	}

	return nil
}

// Close removes the written sound files.
func (b *ExecBackend) Close() error {
	if err := os.RemoveAll(b.dir); err != nil {
		return fmt.Errorf("failed to remove sound directory: %w", err)
	}

	return nil
}

func (b *ExecBackend) file(buf *synth.Buffer) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if path, ok := b.files[buf.Name]; ok {
		return path, nil
	}

	name := strings.ToLower(strings.ReplaceAll(buf.Name, " ", "-")) + ".wav"
	path := filepath.Join(b.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create sound file: %w", err)
	}
	defer f.Close()

	if err := codec.EncodeWAV(f, buf); err != nil {
		return "", err
	}

	b.files[buf.Name] = path

	return path, nil
}

// Dir returns where sound files are written.
func (b *ExecBackend) Dir() string {
	return b.dir
}
