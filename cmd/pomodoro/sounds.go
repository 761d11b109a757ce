package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alkime/pomodoro/internal/audio"
	"github.com/alkime/pomodoro/internal/audio/codec"
	"github.com/alkime/pomodoro/internal/synth"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// PresetsCmd lists the sound catalog.
type PresetsCmd struct{}

// Run executes the presets command.
//
//nolint:unparam // error return required by Kong interface
func (c *PresetsCmd) Run() error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "KIND", "DURATION", "PEAK", "NOISE")

	for _, p := range synth.Catalog() {
		kind := "tick"
		if p.Kind == synth.KindBell {
			kind = "bell"
		}

		noise := ""
		if p.HasNoise() {
			noise = "yes"
		}

		t.Row(p.Name, kind, p.Duration.String(), fmt.Sprint(p.Peak), noise)
	}

	fmt.Println(t)

	return nil
}

// ExportCmd renders one preset to disk.
type ExportCmd struct {
	Name   string `arg:"" help:"Preset name, e.g. \"Mechanical Clock\""`
	Format string `flag:"" enum:"wav,mp3" default:"wav" help:"Output format: wav or mp3"`
	Output string `flag:"" short:"o" type:"path" help:"Output file (default: <preset>.<format>)"`
}

// Run executes the export command.
func (c *ExportCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	preset, err := synth.Lookup(c.Name)
	if err != nil {
		return fmt.Errorf("%w (known: %s)", err, strings.Join(synth.Names(synth.Catalog()), ", "))
	}

	if c.Output == "" {
		c.Output = strings.ToLower(strings.ReplaceAll(preset.Name, " ", "-")) + "." + c.Format
	}

	buf := synth.Render(preset, cfg.SampleRate)

	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := encodeTo(f, c.Format, buf); err != nil {
		return err
	}

	slog.Info("Sound exported",
		"preset", preset.Name,
		"path", c.Output,
		"samples", buf.Len(),
		"duration", buf.Duration().Round(time.Millisecond),
	)

	return nil
}

// encodeTo writes buf to f in format and closes f. A failed close is an
// error: the file may be truncated.
func encodeTo(f io.WriteSeeker, format string, buf *synth.Buffer) (err error) {
	defer func() {
		if closer, ok := f.(io.Closer); ok {
			if cerr := closer.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cerr)
			}
		}
	}()

	switch format {
	case "mp3":
		err = codec.EncodeMP3(f, buf)
	default:
		err = codec.EncodeWAV(f, buf)
	}

	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}

	return nil
}

// DevicesCmd lists available playback devices.
type DevicesCmd struct{}

// Run executes the devices command.
func (dcmd *DevicesCmd) Run() error {
	slog.Info("Enumerating playback devices...")

	devices, err := audio.EnumeratePlaybackDevices(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	for _, dev := range devices {
		slog.Info("Audio Device",
			"name", dev.Name,
			"isDefault", dev.IsDefault,
			"formatCount", dev.FormatCount,
			"formats", dev.Formats,
		)
	}

	return nil
}
