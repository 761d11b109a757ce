// Package config loads pomodoro settings from defaults, an optional YAML
// file and POMODORO_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alkime/pomodoro/internal/audio/backendname"
	"github.com/alkime/pomodoro/internal/synth"
	"github.com/alkime/pomodoro/internal/timer"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is prepended to every environment key.
	EnvPrefix = "POMODORO"
	// EnvConfigFile names the YAML file to load, if any.
	EnvConfigFile = EnvPrefix + "_CONFIG"

	// EnvProduction represents the production environment.
	EnvProduction = "production"
	// EnvDevelopment turns on debug logging.
	EnvDevelopment = "development"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all application configuration.
type Config struct {
	Env string `envconfig:"ENV" yaml:"env"`

	// Timer settings
	WorkSeconds             int    `envconfig:"WORK_SECONDS" yaml:"work_seconds"`
	ShortBreakSeconds       int    `envconfig:"SHORT_BREAK_SECONDS" yaml:"short_break_seconds"`
	LongBreakSeconds        int    `envconfig:"LONG_BREAK_SECONDS" yaml:"long_break_seconds"`
	SessionsBeforeLongBreak int    `envconfig:"SESSIONS_BEFORE_LONG_BREAK" yaml:"sessions_before_long_break"`
	TickPreset              string `envconfig:"TICK_PRESET" yaml:"tick_preset"`

	// Audio settings
	SampleRate   int    `envconfig:"SAMPLE_RATE" yaml:"sample_rate"`
	AudioBackend string `envconfig:"AUDIO_BACKEND" yaml:"audio_backend"`
	Notify       bool   `envconfig:"NOTIFY" yaml:"notify"`

	// Logging settings
	LogLevel  string `envconfig:"LOG_LEVEL" yaml:"log_level"`
	LogFormat string `envconfig:"LOG_FORMAT" yaml:"log_format"`
	LogFile   string `envconfig:"LOG_FILE" yaml:"log_file"`

	// Server settings
	Addr       string `envconfig:"ADDR" yaml:"addr"`
	PublicDir  string `envconfig:"PUBLIC_DIR" yaml:"public_dir"`
	HSTSMaxAge int    `envconfig:"HSTS_MAX_AGE" yaml:"hsts_max_age"`
	CSPMode    string `envconfig:"CSP_MODE" yaml:"csp_mode"`
}

// Default returns the built-in configuration.
func Default() *Config {
	settings := timer.DefaultSettings()

	return &Config{
		Env:                     EnvProduction,
		WorkSeconds:             settings.WorkSeconds,
		ShortBreakSeconds:       settings.ShortBreakSeconds,
		LongBreakSeconds:        settings.LongBreakSeconds,
		SessionsBeforeLongBreak: settings.SessionsBeforeLongBreak,
		TickPreset:              synth.DefaultTickPreset,
		SampleRate:              synth.DefaultSampleRate,
		AudioBackend:            backendname.Auto,
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    "127.0.0.1:8765",
		HSTSMaxAge:              31536000,
		CSPMode:                 "relaxed",
	}
}

// LoadConfig loads .env, then the YAML file named by POMODORO_CONFIG (or
// path, when non-empty), then environment variables. The result is
// validated.
func LoadConfig(path string) (*Config, error) {
	// Try to load .env file (optional)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to load .env file", "error", err)
		}
	}

	config := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}

	if path != "" {
		if err := config.loadFile(path); err != nil {
			return nil, err
		}
	}

	// unset variables leave the field alone, so file values survive
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// Validate reports every problem at once, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	var problems []error

	if err := c.TimerSettings().Validate(); err != nil {
		problems = append(problems, err)
	}

	if !synth.IsTick(c.TickPreset) {
		problems = append(problems, fmt.Errorf("tick preset %q is not a tick sound", c.TickPreset))
	}

	if c.SampleRate <= 0 {
		problems = append(problems, errors.New("sample rate must be positive"))
	}

	if !backendname.Valid(c.AudioBackend) {
		problems = append(problems, fmt.Errorf("audio backend %q must be one of %s",
			c.AudioBackend, strings.Join(backendname.Names(), ", ")))
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		problems = append(problems, fmt.Errorf("log format %q must be text or json", c.LogFormat))
	}

	if c.CSPMode != "strict" && c.CSPMode != "relaxed" {
		problems = append(problems, fmt.Errorf("csp mode %q must be strict or relaxed", c.CSPMode))
	}

	if len(problems) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(problems...))
}

// TimerSettings returns the phase durations.
func (c *Config) TimerSettings() timer.Settings {
	return timer.Settings{
		WorkSeconds:             c.WorkSeconds,
		ShortBreakSeconds:       c.ShortBreakSeconds,
		LongBreakSeconds:        c.LongBreakSeconds,
		SessionsBeforeLongBreak: c.SessionsBeforeLongBreak,
	}
}

// IsDevelopment reports whether debug behavior is on.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// ParseLevel maps a LOG_LEVEL value to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", level, err)
	}

	return l, nil
}

// BuildCSP constructs Content Security Policy based on mode.
func BuildCSP(mode string) string {
	if mode == "strict" {
		return "default-src 'self'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"script-src 'self'; " +
			"img-src 'self' data:; " +
			"media-src 'self'; " +
			"object-src 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
	}

	// relaxed
	return "default-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:; " +
		"media-src 'self' blob:"
}
