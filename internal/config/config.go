// Package config loads client and server configuration. Values come from
// TXT_* environment variables first and are then overridden by flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ErrInvalidConfig indicates a configuration value that cannot be used
var ErrInvalidConfig = errors.New("invalid configuration")

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseLevel converts a level name (debug, info, warn, error) into a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, name)
	}
	return level, nil
}
