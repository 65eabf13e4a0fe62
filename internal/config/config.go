// Package config loads ministore settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultSubmitDelay = 2 * time.Second
	DefaultJournal     = ":memory:"
	DefaultLogLevel    = "info"
)

// Config holds the settings of one ministore process.
type Config struct {
	// Catalog is the path of a CUE catalog file. Empty selects the
	// built-in catalog.
	Catalog string `yaml:"catalog"`

	// SubmitDelay is the simulated order submission latency.
	SubmitDelay time.Duration `yaml:"submit_delay"`

	// Journal is the SQLite path of the session journal.
	Journal string `yaml:"journal"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SubmitDelay: DefaultSubmitDelay,
		Journal:     DefaultJournal,
		LogLevel:    DefaultLogLevel,
	}
}

// Load reads a config file. Keys absent from the file keep their default
// values; unknown keys are rejected. A relative catalog path is resolved
// against the directory of the config file. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Catalog != "" && !filepath.IsAbs(cfg.Catalog) {
		cfg.Catalog = filepath.Join(filepath.Dir(path), cfg.Catalog)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.SubmitDelay < 0 {
		return fmt.Errorf("submit_delay must not be negative, got %s", c.SubmitDelay)
	}
	if c.Journal == "" {
		return errors.New("journal is required")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level for LogLevel. Invalid levels map to Info;
// Validate reports them.
func (c Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLevel resolves a log level name.
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", name)
	}
}
