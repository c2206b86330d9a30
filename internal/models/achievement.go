package models

// Achievement ids with built-in unlock rules.
const (
	AchievementFirstStep       ID = "1"
	AchievementConsistencyKing ID = "2"
	AchievementGemCollector    ID = "3"
)

type Achievement struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	Unlocked     bool   `json:"unlocked"`
	Reward       int    `json:"reward"`
	UnlockedDate string `json:"unlockedDate,omitempty"`
}

// Stats are lifetime counters. They only ever grow and are never recomputed
// from the collections.
type Stats struct {
	TotalCompletions  int `json:"totalCompletions"`
	TotalFails        int `json:"totalFails"`
	TotalGemsEarned   int `json:"totalGemsEarned"`
	TotalGemsLost     int `json:"totalGemsLost"`
	WorkoutsCompleted int `json:"workoutsCompleted"`
}
