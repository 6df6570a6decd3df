// Package config loads the shell's YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Markdown rendering modes.
const (
	MarkdownAuto  = "auto"
	MarkdownPlain = "plain"
)

// Config holds all shell configuration. Zero values in the file leave the
// defaults in place.
type Config struct {
	// Library is opened at startup when set.
	Library string `yaml:"library"`

	// HistoryFile persists line history between runs. Empty disables it.
	HistoryFile string `yaml:"history_file"`
	HistorySize int    `yaml:"history_size"`

	// Markdown is "auto" (styled with glamour) or "plain".
	Markdown string `yaml:"markdown"`
	Color    bool   `yaml:"color"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`

	MantraInterval time.Duration `yaml:"mantra_interval"`

	// ScoresLimit is the number of scores shown when the scores command is
	// not given an explicit count.
	ScoresLimit int `yaml:"scores_limit"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		HistoryFile:    ".trane_history",
		HistorySize:    1000,
		Markdown:       MarkdownAuto,
		Color:          true,
		LogLevel:       "info",
		MantraInterval: 2 * time.Second,
		ScoresLimit:    25,
	}
}

// DefaultPath resolves the config file path in priority order:
// 1. TRANE_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/trane/config.yaml
// 3. ~/.config/trane/config.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv("TRANE_CONFIG"); p != "" {
		return p, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "trane", "config.yaml"), nil
}

// Load reads the config at path on top of DefaultConfig. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Markdown {
	case MarkdownAuto, MarkdownPlain:
	default:
		return fmt.Errorf("markdown must be %q or %q, got %q", MarkdownAuto, MarkdownPlain, c.Markdown)
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("history_size must not be negative")
	}
	if c.ScoresLimit <= 0 {
		return fmt.Errorf("scores_limit must be positive")
	}
	if c.MantraInterval <= 0 {
		return fmt.Errorf("mantra_interval must be positive")
	}
	return nil
}
