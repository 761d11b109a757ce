package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/alkime/pomodoro/internal/audio"
	"github.com/alkime/pomodoro/internal/config"
	"github.com/alkime/pomodoro/internal/keyring"
	"github.com/alkime/pomodoro/internal/logger"
	"github.com/alkime/pomodoro/internal/notify"
	"github.com/alkime/pomodoro/internal/runner"
	"github.com/alkime/pomodoro/internal/server"
	"github.com/alkime/pomodoro/internal/synth"
	"github.com/alkime/pomodoro/internal/timer"
	"github.com/alkime/pomodoro/internal/tui"
	"github.com/alkime/pomodoro/pkg/channels"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// levelWindow is how many recent samples the waveform draws from.
	levelWindow = 2048
	// notifyTimeout bounds how long the event loop waits on the notifier.
	notifyTimeout = 100 * time.Millisecond
)

// CLI defines the pomodoro command structure.
type CLI struct {
	Globals

	// Default TUI command (runs when no subcommand given)
	TUI TUICmd `cmd:"" default:"withargs" help:"Run the timer in the terminal"`

	// Subcommands
	Serve   ServeCmd   `cmd:"" help:"Run the timer headless behind an HTTP API"`
	Presets PresetsCmd `cmd:"" help:"List the built-in sounds"`
	Export  ExportCmd  `cmd:"" help:"Render a sound to a WAV or MP3 file"`
	Devices DevicesCmd `cmd:"" help:"List available playback devices"`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration"`
}

// Globals are flags shared by every command. Set flags win over the
// config file and the environment.
type Globals struct {
	ConfigFile string `name:"config" short:"c" type:"path" help:"YAML config file (default: $POMODORO_CONFIG)"`
	Work       int    `help:"Work phase length in seconds"`
	ShortBreak int    `name:"short-break" help:"Short break length in seconds"`
	LongBreak  int    `name:"long-break" help:"Long break length in seconds"`
	Sessions   int    `help:"Work sessions before a long break"`
	Tick       string `help:"Tick sound preset"`
	Backend    string `help:"Audio backend: auto, malgo, oto, pulse, exec or none"`
	LogLevel   string `name:"log-level" help:"Log level: debug, info, warn or error"`
	Notify     bool   `help:"Send a desktop notification when a phase ends"`
}

// load resolves the configuration for a command.
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.LoadConfig(g.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	g.override(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (g *Globals) override(cfg *config.Config) {
	setIf(&cfg.WorkSeconds, g.Work)
	setIf(&cfg.ShortBreakSeconds, g.ShortBreak)
	setIf(&cfg.LongBreakSeconds, g.LongBreak)
	setIf(&cfg.SessionsBeforeLongBreak, g.Sessions)
	setIf(&cfg.TickPreset, g.Tick)
	setIf(&cfg.AudioBackend, g.Backend)
	setIf(&cfg.LogLevel, g.LogLevel)

	if g.Notify {
		cfg.Notify = true
	}
}

func setIf[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// setup loads the config and installs the configured logger. Log output
// goes to w unless the config names a log file.
func (g *Globals) setup(w io.Writer) (*config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, nil, nil, err
	}

	log, closer, err := logger.SetupLogger(cfg, w)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	return cfg, log, closer, nil
}

// soundStack renders every sound up front and opens the playback backend.
func soundStack(cfg *config.Config, log *slog.Logger) (*synth.Cache, *audio.AsyncPlayer, *audio.SampleRingBuffer, error) {
	cache := synth.NewCache(cfg.SampleRate)
	cache.Warm()

	backend, err := audio.NewBackend(cfg.AudioBackend, cfg.SampleRate)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open audio backend: %w", err)
	}

	log.Debug("audio backend ready", "backend", backend.Name(), "sampleRate", cfg.SampleRate)

	levels := audio.NewSampleRingBuffer(cfg.SampleRate)
	player := audio.NewAsyncPlayer(backend,
		audio.WithLevels(levels),
		audio.WithPlayerLogger(log),
	)

	return cache, player, levels, nil
}

// TUICmd is the default command that runs the terminal UI.
type TUICmd struct{}

// Run executes the TUI command.
func (c *TUICmd) Run(g *Globals) error {
	cfg, log, closer, err := g.setup(io.Discard)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache, player, levels, err := soundStack(cfg, log)
	if err != nil {
		return err
	}

	// always release the device when we're done
	defer func() {
		if err := player.Close(); err != nil {
			log.Error("failed to close audio backend", "error", err)
		}

		log.Debug("audio player closed", "stats", player.Stats())
	}()

	wg := sync.WaitGroup{}
	defer func() {
		cancel()
		wg.Wait()
	}()

	settings := cfg.TimerSettings()
	opts := []timer.Option{timer.WithTickPreset(cfg.TickPreset)}

	if cfg.Notify {
		events := make(chan timer.Event, 8)
		notifier := notify.New(notify.Desktop, settings, log)
		wg.Go(func() { notifier.Run(ctx, events) })

		opts = append(opts, timer.WithObserver(func(ev timer.Event) {
			if ev.Transition() {
				_ = channels.SendNonBlock(events, ev)
			}
		}))
	}

	tmr, err := timer.New(settings, cache, player, opts...)
	if err != nil {
		return fmt.Errorf("failed to create timer: %w", err)
	}

	p := tea.NewProgram(tui.New(tui.Options{
		Timer:  tmr,
		Sounds: cache,
		Player: player,
		Levels: levels.Window(levelWindow),
		Cancel: cancel,
	}))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	fmt.Printf("\n%s after %d sessions. bye!\n", tmr.Phase().Label(), tmr.SessionCount())

	return nil
}

// ServeCmd runs the timer without a terminal UI.
type ServeCmd struct {
	Addr  string `help:"Listen address (overrides config)"`
	Start bool   `help:"Start the countdown immediately"`
}

// Run executes the serve command.
//
//nolint:funlen // CLI command with multiple setup steps
func (c *ServeCmd) Run(g *Globals) error {
	cfg, log, closer, err := g.setup(os.Stdout)
	if err != nil {
		return err
	}
	defer closer.Close()

	setIf(&cfg.Addr, c.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, player, _, err := soundStack(cfg, log)
	if err != nil {
		return err
	}
	defer player.Close()

	token, err := keyring.Get(keyring.APIToken)
	if err != nil {
		log.Debug("keychain lookup failed", "key", keyring.APIToken, "error", err)
	}

	if token == "" {
		log.Warn("no control token set, timer commands are open to anyone who can reach " + cfg.Addr)
	}

	settings := cfg.TimerSettings()

	r, err := runner.New(settings, cache, player,
		[]timer.Option{timer.WithTickPreset(cfg.TickPreset)},
		runner.WithLogger(log),
	)
	if err != nil {
		return err
	}

	wg := sync.WaitGroup{}

	if cfg.Notify {
		events := make(chan timer.Event, 8)
		if err := r.SubscribeWithTimeout(events, notifyTimeout); err != nil {
			return err
		}

		notifier := notify.New(notify.Desktop, settings, log)
		wg.Go(func() { notifier.Run(ctx, events) })
	}

	wg.Go(func() {
		if err := r.Run(ctx); err != nil {
			log.Error("timer loop stopped", "error", err)
		}
	})

	if c.Start {
		err := r.Do(ctx, func(t *timer.Timer) error {
			t.ToggleRunning()
			return nil
		})
		if err != nil {
			log.Warn("failed to start countdown", "error", err)
		}
	}

	srv := server.New(cfg, log, r, cache, token)
	err = srv.Run(ctx)

	stop()
	wg.Wait()

	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

func main() {
	// Set up text-based logger for CLI output
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("pomodoro"),
		kong.Description("A pomodoro timer with synthesized tick sounds."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}
