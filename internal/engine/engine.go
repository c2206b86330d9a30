// Package engine implements the gamification rules: habit completion and
// failure, workouts, rewards, streaks, levels and achievements, plus the
// reconciliation of saved state with defaults.
//
// Every public operation is a critical section. It works on a copy of the
// state, persists the copy, and only then makes it current, so a failed write
// leaves the engine exactly as it was.
package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/julianstephens/gamifylife/internal/clock"
	"github.com/julianstephens/gamifylife/internal/constants"
	"github.com/julianstephens/gamifylife/internal/logger"
	"github.com/julianstephens/gamifylife/internal/models"
	"github.com/julianstephens/gamifylife/internal/snapshot"
	"github.com/julianstephens/gamifylife/internal/storage"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyDone       = errors.New("already done today")
	ErrInsufficientFunds = errors.New("insufficient gems")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotLoaded         = errors.New("engine not loaded")
)

// Outcome describes what an operation changed, for the caller to report.
type Outcome struct {
	GemsDelta   int // gems earned (positive) or actually deducted (negative) by the operation itself
	XPEarned    int
	Level       int
	LeveledUp   bool
	LevelUpGems int
	Title       string
	Streak      int
	Unlocked    []models.Achievement
	Workout     *models.PendingWorkout
	Refund      int
	Gems        int // balance after the operation
}

type Option func(*Engine)

// WithRand sets the random source used to pick workouts.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithRemovalDelay sets how long a completed workout stays listed before it is
// removed. Zero or less removes it immediately.
func WithRemovalDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.removalDelay = d
	}
}

type Engine struct {
	mu sync.Mutex

	store        storage.Store
	clock        clock.Clock
	rng          *rand.Rand
	removalDelay time.Duration

	loaded     bool
	state      models.State
	lastStreak string
	lastReset  string
	theme      string
	timers     map[models.ID]*time.Timer
}

func New(store storage.Store, c clock.Clock, opts ...Option) *Engine {
	e := &Engine{
		store:        store,
		clock:        c,
		removalDelay: constants.DefaultWorkoutRemovalDelay,
		timers:       make(map[models.ID]*time.Timer),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// txn is the working copy of one operation.
type txn struct {
	today      string
	state      models.State
	lastStreak string
	lastReset  string
	theme      string
	extra      map[string]string
}

func (e *Engine) begin() *txn {
	return &txn{
		today:      e.clock.Today(),
		state:      e.state.Clone(),
		lastStreak: e.lastStreak,
		lastReset:  e.lastReset,
		theme:      e.theme,
		extra:      map[string]string{},
	}
}

// mutate runs fn on a fresh transaction and commits it if fn succeeds.
// The daily reset is applied first so markers from a previous day never count.
func (e *Engine) mutate(fn func(tx *txn) error) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	tx := e.begin()
	resetDaily(tx)
	if err := fn(tx); err != nil {
		return err
	}
	return e.commit(tx)
}

// commit persists the snapshot and every changed marker in one write, then
// makes tx current.
func (e *Engine) commit(tx *txn) error {
	data, err := snapshot.Encode(tx.state)
	if err != nil {
		return err
	}

	entries := map[string]string{constants.StateKey: string(data)}
	for k, v := range tx.extra {
		entries[k] = v
	}
	if tx.lastStreak != e.lastStreak {
		entries[constants.LastStreakDateKey] = tx.lastStreak
	}
	if tx.lastReset != e.lastReset {
		entries[constants.LastResetDateKey] = tx.lastReset
	}
	if tx.theme != e.theme {
		entries[constants.ThemeKey] = tx.theme
	}

	if err := storage.SetAll(e.store, entries); err != nil {
		logger.Error("Failed to persist state", "error", err)
		return fmt.Errorf("failed to persist state: %w", err)
	}

	tx.state.Version = constants.SnapshotVersion
	e.state = tx.state
	e.lastStreak = tx.lastStreak
	e.lastReset = tx.lastReset
	e.theme = tx.theme
	return nil
}

// Load reads the saved state, reconciles it with defaults, seeds default
// content on a fresh install, clears yesterday's daily markers and writes the
// normalized result back.
func (e *Engine) Load() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTimersLocked()

	today := e.clock.Today()
	tx := &txn{today: today, extra: map[string]string{}}

	state, err := e.loadData(tx)
	if err != nil {
		return err
	}
	tx.state = state

	for key, dst := range map[string]*string{
		constants.LastStreakDateKey: &tx.lastStreak,
		constants.LastResetDateKey:  &tx.lastReset,
		constants.ThemeKey:          &tx.theme,
	} {
		v, err := e.store.Get(key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		*dst = v
	}
	// Markers as read from the store are the baseline; only changes are rewritten.
	e.lastStreak, e.lastReset, e.theme = tx.lastStreak, tx.lastReset, tx.theme
	if tx.theme == "" {
		tx.theme = themeFor(tx.state.Settings)
	}

	if len(tx.state.Habits) == 0 {
		loadDefaultData(tx)
	}
	if len(tx.state.Achievements) == 0 {
		tx.state.Achievements = models.DefaultAchievements()
	}

	if resetDaily(tx) {
		logger.Debug("Daily markers cleared", "day", today)
	}

	if err := e.commit(tx); err != nil {
		return err
	}
	e.loaded = true
	return nil
}

// loadData decodes the saved snapshot. A payload that cannot be parsed is
// kept under the quarantine key and replaced with defaults.
func (e *Engine) loadData(tx *txn) (models.State, error) {
	raw, err := e.store.Get(constants.StateKey)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultState(tx.today), nil
	}
	if err != nil {
		return models.State{}, fmt.Errorf("failed to read saved state: %w", err)
	}

	state, err := snapshot.Decode([]byte(raw), tx.today)
	switch {
	case errors.Is(err, snapshot.ErrMalformed):
		logger.Warn("Saved state is malformed, starting fresh", "error", err, "quarantine", constants.CorruptStateKey)
		tx.extra[constants.CorruptStateKey] = raw
		return models.DefaultState(tx.today), nil
	case err != nil:
		return models.State{}, err
	}

	// Workouts whose removal was interrupted are finished business.
	active := state.PendingWorkouts[:0]
	for _, w := range state.PendingWorkouts {
		if !w.Completed {
			active = append(active, w)
		}
	}
	state.PendingWorkouts = active

	state.Level = LevelForXP(state.XP)
	return state, nil
}

// loadDefaultData seeds a fresh install.
func loadDefaultData(tx *txn) {
	logger.Info("Seeding default content")
	tx.state.Habits = models.DefaultHabits(tx.today)
	if len(tx.state.Rewards) == 0 {
		tx.state.Rewards = models.DefaultRewards()
	}
	if len(tx.state.Punishments) == 0 {
		tx.state.Punishments = models.DefaultPunishments()
	}
	if len(tx.state.Achievements) == 0 {
		tx.state.Achievements = models.DefaultAchievements()
	}
}

// resetDaily clears the daily markers when the day has changed since the last
// reset. It reports whether it did.
func resetDaily(tx *txn) bool {
	if tx.lastReset == tx.today {
		return false
	}
	tx.state.DailyCompletions = map[string]string{}
	tx.lastReset = tx.today
	return true
}

// Close cancels pending workout removals and applies them immediately.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.timers) == 0 {
		return nil
	}
	ids := make([]models.ID, 0, len(e.timers))
	for id, t := range e.timers {
		t.Stop()
		ids = append(ids, id)
	}
	clear(e.timers)

	tx := e.begin()
	for _, id := range ids {
		removeWorkout(tx, id)
	}
	return e.commit(tx)
}

func (e *Engine) stopTimersLocked() {
	for _, t := range e.timers {
		t.Stop()
	}
	clear(e.timers)
}
