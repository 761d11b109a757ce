package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alkime/pomodoro/internal/config"
	"github.com/alkime/pomodoro/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests replace the default logger, so they do not run in parallel.

func TestSetupLogger_JSON(t *testing.T) {
	cfg := config.Default()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	var out bytes.Buffer
	log, closer, err := logger.SetupLogger(cfg, &out)
	require.NoError(t, err)
	defer closer.Close()

	log.Info("hidden")
	log.Warn("phase finished", "phase", "short_break")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "phase finished", entry["msg"])
	assert.Equal(t, "short_break", entry["phase"])
}

func TestSetupLogger_DevelopmentIsDebug(t *testing.T) {
	cfg := config.Default()
	cfg.Env = config.EnvDevelopment
	cfg.LogLevel = "error"

	var out bytes.Buffer
	log, closer, err := logger.SetupLogger(cfg, &out)
	require.NoError(t, err)
	defer closer.Close()

	log.Debug("dropped sound", "preset", "Snap")
	assert.Contains(t, out.String(), "preset=Snap")
}

func TestSetupLogger_File(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "pomodoro.log")

	var out bytes.Buffer
	log, closer, err := logger.SetupLogger(cfg, &out)
	require.NoError(t, err)

	log.Info("started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=started")
	assert.Empty(t, out.String())
}

func TestSetupLogger_BadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "loud"

	_, _, err := logger.SetupLogger(cfg, &bytes.Buffer{})
	require.Error(t, err)
}
