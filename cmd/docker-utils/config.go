package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Compose ComposeConfig `mapstructure:"compose"`
	Log     LogConfig     `mapstructure:"log"`
}

// ComposeConfig holds compose file output configuration.
type ComposeConfig struct {
	// Version is the format version used when a command does not get one.
	Version string `mapstructure:"version"`

	// Indent is the YAML indentation of written files.
	Indent int `mapstructure:"indent"`

	// Project is the project name used by inspect.
	Project string `mapstructure:"project"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("compose.version", "3.8")
	v.SetDefault("compose.indent", 4)
	v.SetDefault("compose.project", "docker-utils")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// A missing file falls back to defaults; a file that does not parse is fatal.
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// DOCKER_UTILS_COMPOSE_VERSION overrides compose.version, and so on.
	v.SetEnvPrefix("DOCKER_UTILS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger writing to w with the configured level and format.
func SetupLogger(cfg *Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
