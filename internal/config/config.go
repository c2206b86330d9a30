// Package config resolves runtime settings from defaults, an optional YAML
// file and GAMIFYLIFE_* environment variables, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/gamifylife/internal/clock"
	"github.com/julianstephens/gamifylife/internal/constants"
)

type Config struct {
	// Store is a file path (SQLite, or JSON for *.json), ":memory:" or a PostgreSQL connection string.
	Store        string        `yaml:"store" env:"GAMIFYLIFE_STORE"`
	Debug        bool          `yaml:"debug" env:"GAMIFYLIFE_DEBUG"`
	Timezone     string        `yaml:"timezone" env:"GAMIFYLIFE_TIMEZONE"`
	RemovalDelay time.Duration `yaml:"workout_removal_delay" env:"GAMIFYLIFE_WORKOUT_REMOVAL_DELAY"`
	Notify       bool          `yaml:"notify" env:"GAMIFYLIFE_NOTIFY"`
}

func Default() Config {
	return Config{
		Store:        constants.DefaultStorePath,
		Timezone:     constants.DefaultTimezone,
		RemovalDelay: constants.DefaultWorkoutRemovalDelay,
		Notify:       true,
	}
}

// Load reads path (a missing file is fine) and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ExpandPath(path))
	switch {
	case err == nil:
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Store) == "" {
		return errors.New("store must not be empty")
	}
	if !clock.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.RemovalDelay < 0 {
		return fmt.Errorf("workout removal delay must not be negative, got %s", c.RemovalDelay)
	}
	return nil
}

// Save writes c as YAML, creating the directory if needed.
func Save(path string, c Config) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DataDir is the directory holding logs and backups: the store's directory
// for file stores, the default config directory otherwise.
func (c Config) DataDir() string {
	if strings.Contains(c.Store, "://") || c.Store == ":memory:" || strings.Contains(c.Store, "host=") {
		return ExpandPath(constants.DefaultConfigDir)
	}
	return filepath.Dir(ExpandPath(c.Store))
}
