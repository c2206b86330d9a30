package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/gamifylife/internal/backup"
	"github.com/julianstephens/gamifylife/internal/clock"
	"github.com/julianstephens/gamifylife/internal/config"
	"github.com/julianstephens/gamifylife/internal/constants"
	"github.com/julianstephens/gamifylife/internal/engine"
	"github.com/julianstephens/gamifylife/internal/keyring"
	"github.com/julianstephens/gamifylife/internal/logger"
	"github.com/julianstephens/gamifylife/internal/models"
	"github.com/julianstephens/gamifylife/internal/storage"
	"github.com/julianstephens/gamifylife/internal/storage/postgres"
	"github.com/julianstephens/gamifylife/internal/storage/sqlite"
)

// Announcer delivers level-ups and unlocks outside the terminal.
type Announcer interface {
	Announce(out engine.Outcome) error
}

type Context struct {
	Store    storage.Provider
	Engine   *engine.Engine
	Config   config.Config
	Notifier Announcer

	// ConfigPath is where init writes a starter config. Empty skips it.
	ConfigPath string

	// Clock defaults to the system clock in Config.Timezone.
	Clock clock.Clock
	// Out defaults to os.Stdout.
	Out io.Writer
}

var getConnectionString = keyring.GetConnectionString

// StoreTarget names the store to open and where the name came from.
type StoreTarget struct {
	Value       string
	FromKeyring bool
}

// ResolveStoreTarget picks the store: an explicit flag wins, then a store set
// in config or environment, then a connection string saved in the keyring,
// then the default SQLite file.
func ResolveStoreTarget(flag string, cfg config.Config) StoreTarget {
	if flag != "" {
		return StoreTarget{Value: flag}
	}
	if cfg.Store != "" && cfg.Store != constants.DefaultStorePath {
		return StoreTarget{Value: cfg.Store}
	}
	if connStr, err := getConnectionString(); err == nil {
		return StoreTarget{Value: connStr, FromKeyring: true}
	} else if !errors.Is(err, keyring.ErrNotFound) {
		logger.Debug("keyring lookup failed", "error", err)
	}
	return StoreTarget{Value: constants.DefaultStorePath}
}

// Open returns the unopened store. Keyring entries may carry a password.
func (t StoreTarget) Open() (storage.Provider, error) {
	if t.FromKeyring {
		return postgres.New(t.Value), nil
	}
	return OpenStore(t.Value)
}

// OpenStore returns an unopened store for target: ":memory:", a PostgreSQL
// connection string, a *.json file or (otherwise) a SQLite file.
func OpenStore(target string) (storage.Provider, error) {
	switch {
	case target == ":memory:":
		return storage.NewMemoryStore(), nil
	case postgres.IsConnString(target) || strings.Contains(target, "host="):
		if err := postgres.ValidateConnString(target); err != nil {
			return nil, err
		}
		return postgres.New(target), nil
	case strings.EqualFold(filepath.Ext(target), ".json"):
		return storage.NewJSONStore(config.ExpandPath(target)), nil
	default:
		return sqlite.NewStore(config.ExpandPath(target)), nil
	}
}

// StartEngine builds the engine over the (already loaded) store and loads the saved state.
func (c *Context) StartEngine() error {
	if c.Clock == nil {
		sys, err := clock.NewSystemClock(c.Config.Timezone)
		if err != nil {
			return err
		}
		c.Clock = sys
	}
	eng := engine.New(c.Store, c.Clock, engine.WithRemovalDelay(c.Config.RemovalDelay))
	if err := eng.Load(); err != nil {
		return fmt.Errorf("failed to load saved state: %w", err)
	}
	c.Engine = eng
	return nil
}

// Close flushes pending workout removals and closes the store.
func (c *Context) Close() error {
	var errs []error
	if c.Engine != nil {
		errs = append(errs, c.Engine.Close())
	}
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	return errors.Join(errs...)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Report prints what an operation changed and forwards its events to the notifier.
func (c *Context) Report(out engine.Outcome) {
	switch {
	case out.GemsDelta > 0:
		c.Printf("  +%d gems\n", out.GemsDelta)
	case out.GemsDelta < 0:
		c.Printf("  %d gems\n", out.GemsDelta)
	}
	if out.XPEarned > 0 {
		c.Printf("  +%d XP\n", out.XPEarned)
	}
	if out.Refund > 0 {
		c.Printf("  +%d gems refunded\n", out.Refund)
	}
	if out.Workout != nil && !out.Workout.Completed {
		c.Printf("  Workout assigned: %s (%s), complete it to win back %d gems\n",
			out.Workout.Name, out.Workout.Reps, engine.WorkoutRefund(*out.Workout))
	}
	if out.LeveledUp {
		c.Printf("  ★ Level up! Level %d, %s (+%d gems)\n", out.Level, out.Title, out.LevelUpGems)
	}
	for _, a := range out.Unlocked {
		c.Printf("  %s Achievement unlocked: %s (+%d gems)\n", a.Icon, a.Name, a.Reward)
	}
	c.Printf("  Balance: %d gems · streak %d\n", out.Gems, out.Streak)

	if c.notificationsEnabled() {
		if err := c.Notifier.Announce(out); err != nil {
			logger.Debug("notification not delivered", "error", err)
		}
	}
}

// notificationsEnabled requires both the config switch and the user's saved setting.
func (c *Context) notificationsEnabled() bool {
	if c.Notifier == nil || !c.Config.Notify {
		return false
	}
	if c.Engine == nil {
		return true
	}
	return c.Engine.Snapshot().Settings.Notifications
}

// PerformAutomaticBackup backs up file stores before destructive operations.
// Failures are logged, never returned.
func (c *Context) PerformAutomaticBackup() {
	if c.Store == nil {
		return
	}
	path := c.Store.GetConfigPath()
	if _, err := os.Stat(path); err != nil {
		// memory and postgres stores have no file to copy
		return
	}
	mgr := backup.NewManager(path)
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// FindHabit resolves a habit by id (or id prefix) and, failing that, by
// case-insensitive name.
func FindHabit(habits []models.Habit, ref string) (models.Habit, error) {
	ids := make([]models.ID, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	if id, err := ResolveID(ids, ref); err == nil {
		for _, h := range habits {
			if h.ID == id {
				return h, nil
			}
		}
	}

	var matches []models.Habit
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("habit %q: %w", ref, engine.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%d habits are named %q, use the id instead", len(matches), ref)
	}
}

// ShortID is the first eight characters of an id, enough to tell items apart in listings.
func ShortID(id models.ID) string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// ResolveID expands a short id prefix to the unique full id in ids.
func ResolveID(ids []models.ID, ref string) (models.ID, error) {
	if ref == "" {
		return "", fmt.Errorf("empty id: %w", engine.ErrNotFound)
	}
	var found []models.ID
	for _, id := range ids {
		if string(id) == ref {
			return id, nil
		}
		if strings.HasPrefix(string(id), ref) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%q: %w", ref, engine.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous", ref)
	}
}
