package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alkime/pomodoro/internal/config"
	"github.com/alkime/pomodoro/internal/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pomodoro.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, timer.DefaultSettings(), cfg.TimerSettings())
	assert.Equal(t, "Metronome", cfg.TickPreset)
	assert.Equal(t, 44100, cfg.SampleRate)
	assert.Equal(t, "auto", cfg.AudioBackend)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeFile(t, `
work_seconds: 1200
short_break_seconds: 240
tick_preset: Woodblock
audio_backend: none
`)

	t.Setenv("POMODORO_SHORT_BREAK_SECONDS", "120")
	t.Setenv("POMODORO_NOTIFY", "true")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 1200, cfg.WorkSeconds, "file overrides default")
	assert.Equal(t, 120, cfg.ShortBreakSeconds, "env overrides file")
	assert.Equal(t, 900, cfg.LongBreakSeconds, "default survives")
	assert.Equal(t, "Woodblock", cfg.TickPreset)
	assert.Equal(t, "none", cfg.AudioBackend)
	assert.True(t, cfg.Notify)
}

func TestLoadConfig_FileFromEnv(t *testing.T) {
	t.Setenv(config.EnvConfigFile, writeFile(t, "sessions_before_long_break: 2\n"))

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.SessionsBeforeLongBreak)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := config.LoadConfig(writeFile(t, "work_seconds: [1, 2"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("POMODORO_WORK_SECONDS", "soon")

		_, err := config.LoadConfig("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to process environment variables")
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("POMODORO_TICK_PRESET", "Bell")

		_, err := config.LoadConfig("")
		require.ErrorIs(t, err, config.ErrInvalid)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{"zero work", func(c *config.Config) { c.WorkSeconds = 0 }, "work seconds must be positive"},
		{"no sessions", func(c *config.Config) { c.SessionsBeforeLongBreak = 0 }, "sessions before long break"},
		{"bell as tick", func(c *config.Config) { c.TickPreset = "Bell" }, "not a tick sound"},
		{"unknown tick", func(c *config.Config) { c.TickPreset = "Cowbell" }, "not a tick sound"},
		{"sample rate", func(c *config.Config) { c.SampleRate = -1 }, "sample rate must be positive"},
		{"backend", func(c *config.Config) { c.AudioBackend = "alsa" }, "audio backend"},
		{"log level", func(c *config.Config) { c.LogLevel = "loud" }, "log level"},
		{"log format", func(c *config.Config) { c.LogFormat = "xml" }, "log format"},
		{"csp", func(c *config.Config) { c.CSPMode = "off" }, "csp mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, config.ErrInvalid)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.WorkSeconds = -5
	cfg.AudioBackend = "alsa"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "work seconds")
	assert.Contains(t, err.Error(), "audio backend")
}

func TestBuildCSP(t *testing.T) {
	t.Parallel()

	assert.Contains(t, config.BuildCSP("strict"), "object-src 'none'")
	assert.Contains(t, config.BuildCSP("relaxed"), "'unsafe-inline'")
	assert.NotContains(t, config.BuildCSP("relaxed"), "object-src")
}
