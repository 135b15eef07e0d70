// Package config handles parmul configuration via a YAML file and
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Command-line flags (--workers, --log-level, --log-format)
//  2. Environment variables (PARMUL_*)
//  3. Config file (--config parmul.yaml)
//  4. Built-in defaults
//
// Environment variables:
//   - PARMUL_WORKERS=4
//   - PARMUL_LOG_LEVEL="info"
//   - PARMUL_LOG_FORMAT="text" or "json"
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ajroetker/go-parmul/par"
)

// Log formats understood by NewLogger.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config is the complete parmul configuration.
type Config struct {
	// Workers is the pool size P of every multiply.
	Workers int `yaml:"workers" env:"PARMUL_WORKERS"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"PARMUL_LOG_LEVEL"`

	// LogFormat is text or json.
	LogFormat string `yaml:"log_format" env:"PARMUL_LOG_FORMAT"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Workers:   par.DefaultWorkers,
		LogLevel:  "info",
		LogFormat: FormatText,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("%w: log level %q: %v", ErrInvalidConfig, c.LogLevel, err)
	}
	return level, nil
}

// NewLogger builds the slog logger described by the configuration.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(c.LogFormat) {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	case FormatText:
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	return slog.New(handler), nil
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Workers: %d, LogLevel: %s, LogFormat: %s}", c.Workers, c.LogLevel, c.LogFormat)
}
