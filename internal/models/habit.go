package models

import (
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/gamifylife/internal/constants"
)

type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyExtreme Difficulty = "extreme"
)

// Difficulties lists every difficulty from easiest to hardest.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExtreme}

func (d Difficulty) Valid() bool {
	return slices.Contains(Difficulties, d)
}

// ParseDifficulty parses a case-insensitive difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("invalid difficulty %q (expected easy, medium, hard or extreme)", s)
	}
	return d, nil
}

// Habit is a tracked practice that can be completed or failed once per day.
type Habit struct {
	ID               ID         `json:"id"`
	Name             string     `json:"name"`
	Category         string     `json:"category"`
	Difficulty       Difficulty `json:"difficulty"`
	Importance       int        `json:"importance"`     // 1-5
	Created          string     `json:"created"`        // YYYY-MM-DD
	CompletedDates   []string   `json:"completedDates"` // each day at most once
	TotalCompletions int        `json:"totalCompletions"`
	TotalFails       int        `json:"totalFails"`
}

// CompletedOn reports whether the habit was completed on the given day.
func (h Habit) CompletedOn(day string) bool {
	return slices.Contains(h.CompletedDates, day)
}

// FailMarkerKey returns the DailyCompletions key recording that habitID was failed.
func FailMarkerKey(habitID ID) string {
	return constants.FailMarkerPrefix + string(habitID)
}
