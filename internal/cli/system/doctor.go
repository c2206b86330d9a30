package system

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/gamifylife/internal/backup"
	"github.com/julianstephens/gamifylife/internal/cli"
	"github.com/julianstephens/gamifylife/internal/clock"
	"github.com/julianstephens/gamifylife/internal/constants"
	"github.com/julianstephens/gamifylife/internal/keyring"
	"github.com/julianstephens/gamifylife/internal/migration"
	"github.com/julianstephens/gamifylife/internal/models"
	"github.com/julianstephens/gamifylife/internal/snapshot"
	"github.com/julianstephens/gamifylife/internal/storage"
)

// migrator is implemented by the SQL-backed stores.
type migrator interface {
	Migrator() (*migration.Runner, error)
}

// keyLister is implemented by stores that can enumerate their keys.
type keyLister interface {
	Keys() ([]string, error)
}

// knownKeys are the keys the engine reads or writes.
var knownKeys = map[string]bool{
	constants.StateKey:          true,
	constants.CorruptStateKey:   true,
	constants.LastResetDateKey:  true,
	constants.LastStreakDateKey: true,
	constants.ThemeKey:          true,
}

type check struct {
	name      string
	needStore bool
	warnOnly  bool
	run       func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needStore: true, run: checkSchemaVersion},
	{name: "Migrations complete", needStore: true, run: checkMigrationsComplete},
	{name: "Saved state", needStore: true, run: checkSavedState},
	{name: "Data integrity", needStore: true, run: checkDataIntegrity},
	{name: "Stored keys", needStore: true, warnOnly: true, run: checkStoredKeys},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "OS keyring", warnOnly: true, run: checkKeyring},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	storeReachable := true
	if err := ctx.Store.Load(); err != nil {
		ctx.Printf("❌ Store reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		storeReachable = false
	} else {
		ctx.Printf("✓ Store reachable: OK\n")
	}

	for _, c := range checks {
		if c.needStore && !storeReachable {
			ctx.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func schemaVersions(ctx *cli.Context) (current, latest int, ok bool, err error) {
	m, isSQL := ctx.Store.(migrator)
	if !isSQL {
		// file and memory stores have no schema
		return 0, 0, false, nil
	}
	runner, err := m.Migrator()
	if err != nil {
		return 0, 0, true, err
	}
	current, err = runner.GetCurrentVersion()
	if err != nil {
		return 0, 0, true, fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err = runner.GetLatestVersion()
	if err != nil {
		return 0, 0, true, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, true, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if !ok || err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, isSQL := ctx.Store.(migrator)
	if !isSQL {
		return nil
	}
	runner, err := m.Migrator()
	if err != nil {
		return err
	}
	upToDate, err := runner.IsUpToDate()
	if err != nil {
		return fmt.Errorf("failed to compare schema versions: %w", err)
	}
	if !upToDate {
		current, _ := runner.GetCurrentVersion()
		latest, _ := runner.GetLatestVersion()
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func loadState(ctx *cli.Context) (models.State, bool, error) {
	raw, err := ctx.Store.Get(constants.StateKey)
	if errors.Is(err, storage.ErrNotFound) {
		return models.State{}, false, nil
	}
	if err != nil {
		return models.State{}, false, fmt.Errorf("failed to read saved state: %w", err)
	}
	state, err := snapshot.Decode([]byte(raw), time.Now().Format(constants.DateFormat))
	if err != nil {
		return models.State{}, false, err
	}
	return state, true, nil
}

func checkSavedState(ctx *cli.Context) error {
	_, _, err := loadState(ctx)
	return err
}

func checkDataIntegrity(ctx *cli.Context) error {
	state, found, err := loadState(ctx)
	if err != nil || !found {
		// a decode failure is already reported by the saved state check
		return nil
	}

	seen := make(map[models.ID]string)
	claim := func(kind string, id models.ID) error {
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("duplicate %s ID found: %s (also used by a %s)", kind, id, prev)
		}
		seen[id] = kind
		return nil
	}

	for _, h := range state.Habits {
		if err := claim("habit", h.ID); err != nil {
			return err
		}
		for _, d := range h.CompletedDates {
			if _, err := clock.ParseDay(d); err != nil {
				return fmt.Errorf("habit %q has invalid completion date %q", h.Name, d)
			}
		}
	}
	for _, r := range state.Rewards {
		if err := claim("reward", r.ID); err != nil {
			return err
		}
	}
	for _, p := range state.Punishments {
		if err := claim("punishment", p.ID); err != nil {
			return err
		}
	}
	return nil
}

func checkStoredKeys(ctx *cli.Context) error {
	lister, ok := ctx.Store.(keyLister)
	if !ok {
		return nil
	}
	keys, err := lister.Keys()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	var unknown []string
	for _, k := range keys {
		if k == constants.CorruptStateKey {
			ctx.Printf("   A malformed save was set aside under %q\n", k)
			continue
		}
		if !knownKeys[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unrecognized keys: %s", strings.Join(unknown, ", "))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("store is not a local file; back it up with your database tooling")
	}
	backups, err := backup.NewManager(path).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if !clock.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("unknown timezone %q", ctx.Config.Timezone)
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}
