// Package logger configures the process-wide slog logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alkime/pomodoro/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupLogger configures structured logging based on cfg and installs it as
// the default. Output goes to LOG_FILE when set, otherwise to w. The
// returned closer releases the log file.
func SetupLogger(cfg *config.Config, w io.Writer) (*slog.Logger, io.Closer, error) {
	logLevel, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}

	var closer io.Closer = nopCloser{}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}

		w = f
		closer = f
	}

	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)

	// Set as default logger
	slog.SetDefault(logger)

	return logger, closer, nil
}
