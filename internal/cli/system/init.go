package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/gamifylife/internal/cli"
	"github.com/julianstephens/gamifylife/internal/config"
	"github.com/julianstephens/gamifylife/internal/constants"
	"github.com/julianstephens/gamifylife/internal/logger"
	"github.com/julianstephens/gamifylife/internal/storage"
	"github.com/julianstephens/gamifylife/internal/storage/postgres"
)

// migratedKeys are the keys copied by init --source.
var migratedKeys = []string{
	constants.StateKey,
	constants.LastResetDateKey,
	constants.LastStreakDateKey,
	constants.ThemeKey,
}

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing store file before initialization."`
	Source string `help:"Store path or connection string to copy progress from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		n, err := migrateData(ctx.Store, c.Source)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Printf("Migration completed successfully! (%d keys)\n", n)
	}

	// Loading seeds the default habits, rewards and achievements on a fresh store.
	if err := ctx.StartEngine(); err != nil {
		return err
	}
	if err := writeStarterConfig(ctx); err != nil {
		logger.Warn("failed to write starter config", "path", ctx.ConfigPath, "error", err)
	}

	s := ctx.Engine.Snapshot()
	ctx.Printf("Ready: %d habits, %d rewards, %d gems\n", len(s.Habits), len(s.Rewards), s.Gems)
	return nil
}

// writeStarterConfig saves the running config when no config file exists yet.
// Connection strings stay out of the file; they belong in the keyring.
func writeStarterConfig(ctx *cli.Context) error {
	if ctx.ConfigPath == "" {
		return nil
	}
	path := config.ExpandPath(ctx.ConfigPath)
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return err
	}

	cfg := ctx.Config
	cfg.Debug = false
	if postgres.IsConnString(cfg.Store) || strings.Contains(cfg.Store, "host=") || cfg.Store == ":memory:" {
		cfg.Store = constants.DefaultStorePath
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	ctx.Printf("Wrote config: %s\n", path)
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absPath, err1 := filepath.Abs(path)
		absSource, err2 := filepath.Abs(c.Source)
		if err1 == nil && err2 == nil && absPath == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing store: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing store: %w", err)
		}
		ctx.Printf("Deleted existing store at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing store: %w", err)
	}
	return nil
}

// migrateData copies every known key from the source store into dst.
func migrateData(dst storage.Store, source string) (int, error) {
	src, err := cli.OpenStore(source)
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source store: %w", err)
	}
	defer src.Close()

	entries := make(map[string]string)
	for _, key := range migratedKeys {
		v, err := src.Get(key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read %s from source: %w", key, err)
		}
		entries[key] = v
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("source store %s has no saved progress", source)
	}
	if err := storage.SetAll(dst, entries); err != nil {
		return 0, fmt.Errorf("failed to write to destination: %w", err)
	}
	return len(entries), nil
}
