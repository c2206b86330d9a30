package engine

import (
	"fmt"
	"strings"

	"github.com/julianstephens/gamifylife/internal/constants"
	"github.com/julianstephens/gamifylife/internal/models"
)

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() models.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Habits lists habits of the given difficulty, or all of them for "".
func (e *Engine) Habits(filter models.Difficulty) []models.Habit {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []models.Habit
	for _, h := range e.state.Clone().Habits {
		if filter == "" || h.Difficulty == filter {
			out = append(out, h)
		}
	}
	return out
}

// ActiveWorkouts lists assigned workouts that are not yet completed.
func (e *Engine) ActiveWorkouts() []models.PendingWorkout {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []models.PendingWorkout
	for _, w := range e.state.PendingWorkouts {
		if !w.Completed {
			out = append(out, w)
		}
	}
	return out
}

// PendingCount is the number of active workouts.
func (e *Engine) PendingCount() int {
	return len(e.ActiveWorkouts())
}

// TodayProgress reports how many habits were completed today out of all habits.
func (e *Engine) TodayProgress() (done, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.clock.Today()
	for _, h := range e.state.Habits {
		if h.CompletedOn(today) {
			done++
		}
	}
	return done, len(e.state.Habits)
}

// FailedToday reports whether the habit carries today's fail marker.
func (e *Engine) FailedToday(id models.ID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.DailyCompletions[models.FailMarkerKey(id)] == e.clock.Today()
}

// Theme returns the stored theme preference.
func (e *Engine) Theme() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.theme == "" {
		return themeFor(e.state.Settings)
	}
	return e.theme
}

// UpdateSettings replaces the settings. The theme follows DarkMode.
func (e *Engine) UpdateSettings(s models.Settings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.mutate(func(tx *txn) error {
		tx.state.Settings = s
		tx.theme = themeFor(s)
		return nil
	})
}

// SetUserName renames the user.
func (e *Engine) SetUserName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.mutate(func(tx *txn) error {
		tx.state.User.Name = name
		return nil
	})
}

// SetTheme stores "dark" or "light" and keeps Settings.DarkMode in step.
func (e *Engine) SetTheme(theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme != constants.ThemeDark && theme != constants.ThemeLight {
		return fmt.Errorf("%w: theme must be %q or %q", ErrInvalidInput, constants.ThemeDark, constants.ThemeLight)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.mutate(func(tx *txn) error {
		tx.theme = theme
		tx.state.Settings.DarkMode = theme == constants.ThemeDark
		return nil
	})
}
