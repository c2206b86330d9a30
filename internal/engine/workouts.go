package engine

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/gamifylife/internal/logger"
	"github.com/julianstephens/gamifylife/internal/models"
)

type PunishmentInput struct {
	Name        string
	Reps        string
	GemLoss     int
	Difficulty  models.Difficulty
	Description string
}

func (in PunishmentInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: punishment name is required", ErrInvalidInput)
	}
	if in.GemLoss < 0 {
		return fmt.Errorf("%w: gem loss must not be negative", ErrInvalidInput)
	}
	if !in.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, in.Difficulty)
	}
	return nil
}

// AddPunishment adds a workout template to the punishment library.
func (e *Engine) AddPunishment(in PunishmentInput) (models.Punishment, error) {
	if err := in.validate(); err != nil {
		return models.Punishment{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p := models.Punishment{
		ID:          models.NewID(),
		Name:        strings.TrimSpace(in.Name),
		Reps:        strings.TrimSpace(in.Reps),
		GemLoss:     in.GemLoss,
		Difficulty:  in.Difficulty,
		Description: in.Description,
	}
	err := e.mutate(func(tx *txn) error {
		tx.state.Punishments = append(tx.state.Punishments, p)
		return nil
	})
	if err != nil {
		return models.Punishment{}, err
	}
	return p, nil
}

// addRandomWorkout assigns a uniformly chosen punishment as today's workout.
func (e *Engine) addRandomWorkout(tx *txn) (models.PendingWorkout, bool) {
	library := tx.state.Punishments
	if len(library) == 0 {
		return models.PendingWorkout{}, false
	}
	w := models.NewPendingWorkout(library[e.rng.IntN(len(library))], tx.today)
	tx.state.PendingWorkouts = append(tx.state.PendingWorkouts, w)
	logger.Debug("Workout assigned", "workout", w.Name, "id", w.ID)
	return w, true
}

// CompleteWorkout marks a pending workout done and refunds part of its gem
// loss. The workout stays listed as completed for the removal delay and is
// then dropped.
func (e *Engine) CompleteWorkout(id models.ID) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out Outcome
	err := e.mutate(func(tx *txn) error {
		i := tx.state.WorkoutIndex(id)
		if i < 0 {
			return fmt.Errorf("workout %s: %w", id, ErrNotFound)
		}
		w := &tx.state.PendingWorkouts[i]
		if w.Completed {
			return fmt.Errorf("workout %q completed: %w", w.Name, ErrAlreadyDone)
		}

		w.Completed = true
		tx.state.Stats.WorkoutsCompleted++
		refund := WorkoutRefund(*w)
		tx.state.Gems += refund

		done := *w
		out.Workout = &done
		out.Refund = refund
		out.GemsDelta = refund
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	out = e.finish(out)
	if e.removalDelay <= 0 {
		// The completion is committed; a leftover completed workout is dropped on the next Load.
		if err := e.removeNowLocked(id); err != nil {
			logger.Error("Failed to remove completed workout", "id", id, "error", err)
		}
		return out, nil
	}
	e.timers[id] = time.AfterFunc(e.removalDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.timers[id]; !ok {
			// Close or Load got here first.
			return
		}
		delete(e.timers, id)
		if err := e.removeNowLocked(id); err != nil {
			logger.Error("Failed to remove completed workout", "id", id, "error", err)
		}
	})
	return out, nil
}

func (e *Engine) removeNowLocked(id models.ID) error {
	tx := e.begin()
	if !removeWorkout(tx, id) {
		return nil
	}
	return e.commit(tx)
}

// removeWorkout drops the completed workout with the given id, if present.
func removeWorkout(tx *txn, id models.ID) bool {
	n := len(tx.state.PendingWorkouts)
	tx.state.PendingWorkouts = slices.DeleteFunc(tx.state.PendingWorkouts, func(w models.PendingWorkout) bool {
		return w.ID == id && w.Completed
	})
	return len(tx.state.PendingWorkouts) != n
}
