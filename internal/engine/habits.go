package engine

import (
	"fmt"
	"strings"

	"github.com/julianstephens/gamifylife/internal/constants"
	"github.com/julianstephens/gamifylife/internal/logger"
	"github.com/julianstephens/gamifylife/internal/models"
)

type HabitInput struct {
	Name       string
	Category   string
	Difficulty models.Difficulty
	Importance int
}

func (in HabitInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: habit name is required", ErrInvalidInput)
	}
	if !in.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, in.Difficulty)
	}
	if in.Importance < constants.MinImportance || in.Importance > constants.MaxImportance {
		return fmt.Errorf("%w: importance must be between %d and %d, got %d",
			ErrInvalidInput, constants.MinImportance, constants.MaxImportance, in.Importance)
	}
	return nil
}

// AddHabit creates a habit dated today with no completions.
func (e *Engine) AddHabit(in HabitInput) (models.Habit, error) {
	if err := in.validate(); err != nil {
		return models.Habit{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var habit models.Habit
	err := e.mutate(func(tx *txn) error {
		habit = models.Habit{
			ID:             models.NewID(),
			Name:           strings.TrimSpace(in.Name),
			Category:       strings.TrimSpace(in.Category),
			Difficulty:     in.Difficulty,
			Importance:     in.Importance,
			Created:        tx.today,
			CompletedDates: []string{},
		}
		tx.state.Habits = append(tx.state.Habits, habit)
		return nil
	})
	if err != nil {
		return models.Habit{}, err
	}
	logger.Debug("Habit added", "habit", habit.Name, "id", habit.ID)
	return habit, nil
}

// CompleteHabit records today's completion of a habit and pays out gems and
// xp, then updates the streak, level and achievements.
func (e *Engine) CompleteHabit(id models.ID) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out Outcome
	err := e.mutate(func(tx *txn) error {
		i := tx.state.HabitIndex(id)
		if i < 0 {
			return fmt.Errorf("habit %s: %w", id, ErrNotFound)
		}
		h := &tx.state.Habits[i]
		if h.CompletedOn(tx.today) {
			return fmt.Errorf("habit %q completed: %w", h.Name, ErrAlreadyDone)
		}

		h.CompletedDates = append(h.CompletedDates, tx.today)
		h.TotalCompletions++
		tx.state.Stats.TotalCompletions++

		gems := GemsForCompletion(*h)
		xp := XPForCompletion(*h)
		tx.state.Gems += gems
		tx.state.Stats.TotalGemsEarned += gems
		tx.state.XP += xp
		out.GemsDelta = gems
		out.XPEarned = xp

		updateStreak(tx, true)
		checkLevelUp(tx, &out)
		checkAchievements(tx, &out)
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return e.finish(out), nil
}

// FailHabit records today's failure of a habit, deducts gems, assigns a
// workout and breaks the streak. Completion and failure are tracked apart, so
// a habit completed today can still be failed today.
func (e *Engine) FailHabit(id models.ID) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out Outcome
	err := e.mutate(func(tx *txn) error {
		i := tx.state.HabitIndex(id)
		if i < 0 {
			return fmt.Errorf("habit %s: %w", id, ErrNotFound)
		}
		h := &tx.state.Habits[i]
		marker := models.FailMarkerKey(h.ID)
		if tx.state.DailyCompletions[marker] == tx.today {
			return fmt.Errorf("habit %q failed: %w", h.Name, ErrAlreadyDone)
		}

		h.TotalFails++
		tx.state.Stats.TotalFails++
		tx.state.DailyCompletions[marker] = tx.today

		// Stats keep the full loss even when the balance could not cover it.
		loss := GemLossForFail(*h)
		before := tx.state.Gems
		tx.state.Gems = max(0, before-loss)
		tx.state.Stats.TotalGemsLost += loss
		out.GemsDelta = tx.state.Gems - before

		if w, ok := e.addRandomWorkout(tx); ok {
			out.Workout = &w
		}
		updateStreak(tx, false)
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return e.finish(out), nil
}

// finish fills the fields every outcome reports from the committed state.
func (e *Engine) finish(out Outcome) Outcome {
	out.Level = e.state.Level
	out.Title = e.state.User.Title
	out.Streak = e.state.Streak
	out.Gems = e.state.Gems
	return out
}
