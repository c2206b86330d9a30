package models

import (
	"maps"
	"slices"
)

type User struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	JoinDate string `json:"joinDate"`
}

type Settings struct {
	DarkMode      bool `json:"darkMode"`
	Notifications bool `json:"notifications"`
	Sound         bool `json:"sound"`
	Vibration     bool `json:"vibration"`
}

// State is the aggregate root persisted as a single snapshot.
type State struct {
	Version          int               `json:"version"`
	Gems             int               `json:"gems"`
	XP               int               `json:"xp"`
	Level            int               `json:"level"`
	Streak           int               `json:"streak"`
	User             User              `json:"user"`
	Settings         Settings          `json:"settings"`
	DailyCompletions map[string]string `json:"dailyCompletions"`
	Habits           []Habit           `json:"habits"`
	Rewards          []Reward          `json:"rewards"`
	Punishments      []Punishment      `json:"punishments"`
	PendingWorkouts  []PendingWorkout  `json:"pendingWorkouts"`
	Achievements     []Achievement     `json:"achievements"`
	Stats            Stats             `json:"stats"`
}

// Clone returns a deep copy of s. Nil collections come back as empty, non-nil values.
func (s State) Clone() State {
	c := s
	c.DailyCompletions = make(map[string]string, len(s.DailyCompletions))
	maps.Copy(c.DailyCompletions, s.DailyCompletions)

	c.Habits = make([]Habit, len(s.Habits))
	for i, h := range s.Habits {
		h.CompletedDates = slices.Clone(h.CompletedDates)
		if h.CompletedDates == nil {
			h.CompletedDates = []string{}
		}
		c.Habits[i] = h
	}
	c.Rewards = append([]Reward{}, s.Rewards...)
	c.Punishments = append([]Punishment{}, s.Punishments...)
	c.PendingWorkouts = append([]PendingWorkout{}, s.PendingWorkouts...)
	c.Achievements = append([]Achievement{}, s.Achievements...)
	return c
}

// HabitIndex returns the index of the habit with the given id, or -1.
func (s *State) HabitIndex(id ID) int {
	return slices.IndexFunc(s.Habits, func(h Habit) bool { return h.ID == id })
}

// RewardIndex returns the index of the reward with the given id, or -1.
func (s *State) RewardIndex(id ID) int {
	return slices.IndexFunc(s.Rewards, func(r Reward) bool { return r.ID == id })
}

// WorkoutIndex returns the index of the pending workout with the given id, or -1.
func (s *State) WorkoutIndex(id ID) int {
	return slices.IndexFunc(s.PendingWorkouts, func(w PendingWorkout) bool { return w.ID == id })
}
