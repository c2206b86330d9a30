package models

import "github.com/julianstephens/gamifylife/internal/constants"

// DefaultSettings returns the settings a new user starts with.
func DefaultSettings() Settings {
	return Settings{
		DarkMode:      constants.DefaultDarkMode,
		Notifications: constants.DefaultNotifications,
		Sound:         constants.DefaultSound,
		Vibration:     constants.DefaultVibration,
	}
}

// DefaultState returns an empty state for a user joining on today.
func DefaultState(today string) State {
	return State{
		Version: constants.SnapshotVersion,
		Gems:    constants.StartingGems,
		XP:      constants.StartingXP,
		Level:   constants.StartingLevel,
		User: User{
			Name:     constants.DefaultUserName,
			Title:    constants.Titles[0],
			JoinDate: today,
		},
		Settings:         DefaultSettings(),
		DailyCompletions: map[string]string{},
		Habits:           []Habit{},
		Rewards:          []Reward{},
		Punishments:      []Punishment{},
		PendingWorkouts:  []PendingWorkout{},
		Achievements:     []Achievement{},
	}
}

// DefaultHabits returns the seed habits created on a fresh install.
func DefaultHabits(today string) []Habit {
	seed := func(name, category string, d Difficulty, importance int) Habit {
		return Habit{
			ID:             NewID(),
			Name:           name,
			Category:       category,
			Difficulty:     d,
			Importance:     importance,
			Created:        today,
			CompletedDates: []string{},
		}
	}
	return []Habit{
		seed("Drink 8 glasses of water", "health", DifficultyEasy, 4),
		seed("30-minute workout", "fitness", DifficultyMedium, 5),
		seed("Read 20 pages", "learning", DifficultyMedium, 3),
	}
}

func DefaultRewards() []Reward {
	return []Reward{
		{ID: NewID(), Name: "Movie Night", Cost: 100, Description: "Enjoy your favorite movie", Category: "entertainment"},
		{ID: NewID(), Name: "Coffee Treat", Cost: 50, Description: "Get your favorite coffee", Category: "food"},
		{ID: NewID(), Name: "Game Time", Cost: 150, Description: "1 hour of gaming", Category: "entertainment"},
	}
}

func DefaultPunishments() []Punishment {
	return []Punishment{
		{ID: NewID(), Name: "Push-ups", Reps: "20 reps", GemLoss: 10, Difficulty: DifficultyMedium},
		{ID: NewID(), Name: "Sit-ups", Reps: "30 reps", GemLoss: 8, Difficulty: DifficultyEasy},
		{ID: NewID(), Name: "Plank", Reps: "1 minute", GemLoss: 15, Difficulty: DifficultyHard},
	}
}

func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: AchievementFirstStep, Name: "First Step", Description: "Complete your first habit", Icon: "fa-shoe-prints", Reward: 50},
		{ID: AchievementConsistencyKing, Name: "Consistency King", Description: "Maintain a 3-day streak", Icon: "fa-crown", Reward: 100},
		{ID: AchievementGemCollector, Name: "Gem Collector", Description: "Earn 500 gems in total", Icon: "fa-gem", Reward: 200},
	}
}
