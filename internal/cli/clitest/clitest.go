// Package clitest builds command contexts over a throwaway SQLite store.
package clitest

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/julianstephens/gamifylife/internal/cli"
	"github.com/julianstephens/gamifylife/internal/clock"
	"github.com/julianstephens/gamifylife/internal/config"
	"github.com/julianstephens/gamifylife/internal/storage/sqlite"
)

// Day is the date every test context starts on.
const Day = "2025-01-15"

// NewContext returns a context with an initialized store, a fixed clock on
// Day and a loaded engine. Output is captured in the returned buffer.
func NewContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	cfg := config.Default()
	cfg.Store = dbPath
	cfg.RemovalDelay = 0
	cfg.Notify = false

	var out bytes.Buffer
	ctx := &cli.Context{
		Store:  store,
		Config: cfg,
		Clock:  clock.NewFixedClock(Day),
		Out:    &out,
	}
	if err := ctx.StartEngine(); err != nil {
		t.Fatalf("failed to start engine: %v", err)
	}

	t.Cleanup(func() {
		if err := ctx.Close(); err != nil {
			t.Errorf("failed to close context: %v", err)
		}
	})
	return ctx, &out
}
