// Package config loads cqexpr settings from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"go.cqexpr.dev/pkg"
)

// Config holds the settings shared by every CLI command.
type Config struct {
	MaxDepth         int    `yaml:"max_depth"`
	IdentifierPolicy string `yaml:"identifier_policy"`
	LogLevel         string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		MaxDepth:         cqexpr.DefaultMaxDepth,
		IdentifierPolicy: cqexpr.IdentifierLastChar.String(),
		LogLevel:         "info",
	}
}

// FromYAML parses data on top of Default. Keys missing from data keep
// their default value.
func FromYAML(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Load reads a YAML file. An empty path yields Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return FromYAML(data)
}

func (c Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}

	if _, err := cqexpr.ParseIdentifierPolicy(c.IdentifierPolicy); err != nil {
		return err
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// Options converts the configuration into engine options. The config must
// have been validated.
func (c Config) Options(logger *slog.Logger) []cqexpr.Option {
	policy, _ := cqexpr.ParseIdentifierPolicy(c.IdentifierPolicy)

	return []cqexpr.Option{
		cqexpr.WithMaxDepth(c.MaxDepth),
		cqexpr.WithIdentifierPolicy(policy),
		cqexpr.WithLogger(logger),
	}
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return 0, fmt.Errorf("unknown log level %q", s)
}
