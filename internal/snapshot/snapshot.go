// Package snapshot converts the engine State to and from its persisted JSON form.
//
// Saved payloads may come from any earlier release: fields that are missing or
// null are replaced with defaults one by one, so a partially shaped save still
// decodes into a complete State.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/julianstephens/gamifylife/internal/constants"
	"github.com/julianstephens/gamifylife/internal/models"
)

var (
	// ErrMalformed is returned when the payload is not a JSON object of the expected shape.
	ErrMalformed = errors.New("malformed saved state")
	// ErrUnsupportedVersion is returned when the payload was written by a newer release.
	ErrUnsupportedVersion = errors.New("saved state version is newer than supported")
)

type wireUser struct {
	Name     *string `json:"name"`
	Title    *string `json:"title"`
	JoinDate *string `json:"joinDate"`
}

type wireSettings struct {
	DarkMode      *bool `json:"darkMode"`
	Notifications *bool `json:"notifications"`
	Sound         *bool `json:"sound"`
	Vibration     *bool `json:"vibration"`
}

type wireState struct {
	Version          *int                    `json:"version"`
	Gems             *int                    `json:"gems"`
	XP               *int                    `json:"xp"`
	Level            *int                    `json:"level"`
	Streak           *int                    `json:"streak"`
	User             *wireUser               `json:"user"`
	Settings         *wireSettings           `json:"settings"`
	DailyCompletions map[string]string       `json:"dailyCompletions"`
	Habits           []models.Habit          `json:"habits"`
	Rewards          []models.Reward         `json:"rewards"`
	Punishments      []models.Punishment     `json:"punishments"`
	PendingWorkouts  []models.PendingWorkout `json:"pendingWorkouts"`
	Achievements     []models.Achievement    `json:"achievements"`
	Stats            *models.Stats           `json:"stats"`
}

// Encode serializes state, stamping the current snapshot version.
func Encode(state models.State) ([]byte, error) {
	state.Version = constants.SnapshotVersion
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize state: %w", err)
	}
	return data, nil
}

// Decode parses a persisted payload. today is used for defaults that need a date.
func Decode(data []byte, today string) (models.State, error) {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return models.State{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if w.Version != nil && *w.Version > constants.SnapshotVersion {
		return models.State{}, fmt.Errorf("%w: got %d, support up to %d", ErrUnsupportedVersion, *w.Version, constants.SnapshotVersion)
	}

	state := models.DefaultState(today)

	if w.Gems != nil {
		state.Gems = max(0, *w.Gems)
	}
	if w.XP != nil {
		state.XP = max(0, *w.XP)
	}
	if w.Level != nil {
		state.Level = max(1, *w.Level)
	}
	if w.Streak != nil {
		state.Streak = max(0, *w.Streak)
	}

	if w.User != nil {
		if w.User.Name != nil && *w.User.Name != "" {
			state.User.Name = *w.User.Name
		}
		if w.User.Title != nil && *w.User.Title != "" {
			state.User.Title = *w.User.Title
		}
		if w.User.JoinDate != nil && *w.User.JoinDate != "" {
			state.User.JoinDate = *w.User.JoinDate
		}
	}

	if w.Settings != nil {
		applyBool(&state.Settings.DarkMode, w.Settings.DarkMode)
		applyBool(&state.Settings.Notifications, w.Settings.Notifications)
		applyBool(&state.Settings.Sound, w.Settings.Sound)
		applyBool(&state.Settings.Vibration, w.Settings.Vibration)
	}

	if w.DailyCompletions != nil {
		state.DailyCompletions = w.DailyCompletions
	}
	if w.Habits != nil {
		state.Habits = normalizeHabits(w.Habits)
	}
	if w.Rewards != nil {
		state.Rewards = w.Rewards
		for i := range state.Rewards {
			state.Rewards[i].Cost = max(0, state.Rewards[i].Cost)
		}
	}
	if w.Punishments != nil {
		state.Punishments = w.Punishments
		for i := range state.Punishments {
			p := &state.Punishments[i]
			p.GemLoss = max(0, p.GemLoss)
			if !p.Difficulty.Valid() {
				p.Difficulty = models.DifficultyEasy
			}
		}
	}
	if w.PendingWorkouts != nil {
		state.PendingWorkouts = normalizeWorkouts(w.PendingWorkouts, state.Punishments)
	}
	if w.Achievements != nil {
		state.Achievements = w.Achievements
	}
	if w.Stats != nil {
		state.Stats = *w.Stats
	}

	return state, nil
}

func applyBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// normalizeWorkouts reissues ids that are empty, repeated or borrowed from a
// punishment. Older saves copied the punishment id onto every workout it spawned.
func normalizeWorkouts(workouts []models.PendingWorkout, punishments []models.Punishment) []models.PendingWorkout {
	punishmentIDs := make(map[models.ID]bool, len(punishments))
	for _, p := range punishments {
		punishmentIDs[p.ID] = true
	}

	seen := make(map[models.ID]bool, len(workouts))
	for i := range workouts {
		w := &workouts[i]
		w.GemLoss = max(0, w.GemLoss)
		if w.ID != "" && !seen[w.ID] && !punishmentIDs[w.ID] {
			seen[w.ID] = true
			continue
		}
		if w.PunishmentID == "" && punishmentIDs[w.ID] {
			w.PunishmentID = w.ID
		}
		w.ID = models.NewID()
		seen[w.ID] = true
	}
	return workouts
}

func normalizeHabits(habits []models.Habit) []models.Habit {
	for i := range habits {
		h := &habits[i]
		if !h.Difficulty.Valid() {
			h.Difficulty = models.DifficultyEasy
		}
		h.Importance = min(max(h.Importance, constants.MinImportance), constants.MaxImportance)

		// A day may appear at most once.
		dates := make([]string, 0, len(h.CompletedDates))
		for _, d := range h.CompletedDates {
			if !slices.Contains(dates, d) {
				dates = append(dates, d)
			}
		}
		h.CompletedDates = dates

		h.TotalCompletions = max(h.TotalCompletions, 0)
		h.TotalFails = max(h.TotalFails, 0)
	}
	return habits
}
