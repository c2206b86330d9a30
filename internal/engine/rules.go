package engine

import (
	"math"

	"github.com/julianstephens/gamifylife/internal/clock"
	"github.com/julianstephens/gamifylife/internal/constants"
	"github.com/julianstephens/gamifylife/internal/logger"
	"github.com/julianstephens/gamifylife/internal/models"
)

var baseGems = map[models.Difficulty]int{
	models.DifficultyEasy:    5,
	models.DifficultyMedium:  10,
	models.DifficultyHard:    20,
	models.DifficultyExtreme: 50,
}

// XP is not scaled by importance.
var baseXP = map[models.Difficulty]int{
	models.DifficultyEasy:    10,
	models.DifficultyMedium:  25,
	models.DifficultyHard:    50,
	models.DifficultyExtreme: 100,
}

// GemsForCompletion is the reward for completing h once.
func GemsForCompletion(h models.Habit) int {
	return baseGems[h.Difficulty] * h.Importance
}

// XPForCompletion is the experience for completing h once.
func XPForCompletion(h models.Habit) int {
	return baseXP[h.Difficulty]
}

// GemLossForFail is the penalty for failing h, before clipping at zero gems.
func GemLossForFail(h models.Habit) int {
	return constants.FailGemLossPerImportance * h.Importance
}

// WorkoutRefund is the gems returned for finishing w.
func WorkoutRefund(w models.PendingWorkout) int {
	return w.GemLoss * constants.WorkoutRefundPercent / 100
}

// LevelForXP returns floor(sqrt(xp/100)) + 1.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return constants.StartingLevel
	}
	return isqrt(xp/constants.XPPerLevelUnit) + 1
}

func isqrt(n int) int {
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// TitleForLevel clamps to the last title for levels past the list.
func TitleForLevel(level int) string {
	i := min(max(level-1, 0), len(constants.Titles)-1)
	return constants.Titles[i]
}

// updateStreak applies the streak law. A failure zeroes the streak and leaves
// the last streak day alone. A success on the day after the last one extends
// the chain, a gap restarts it and a repeat on the same day changes nothing.
func updateStreak(tx *txn, success bool) {
	if !success {
		tx.state.Streak = 0
		return
	}
	defer func() { tx.lastStreak = tx.today }()

	if tx.lastStreak == "" {
		tx.state.Streak = 1
		return
	}
	diff, err := clock.DaysBetween(tx.lastStreak, tx.today)
	if err != nil {
		logger.Warn("Ignoring unreadable last streak day", "value", tx.lastStreak, "error", err)
		tx.state.Streak = 1
		return
	}
	switch {
	case diff == 1:
		tx.state.Streak++
	case diff > 1:
		tx.state.Streak = 1
	}
}

// checkLevelUp recomputes the level from xp and pays out a level-up bonus.
func checkLevelUp(tx *txn, out *Outcome) {
	old := tx.state.Level
	level := LevelForXP(tx.state.XP)
	tx.state.Level = level
	if level <= old {
		return
	}
	bonus := old * constants.LevelUpGemsPerLevel
	tx.state.Gems += bonus
	tx.state.User.Title = TitleForLevel(level)

	logger.Info("Level up", "from", old, "to", level, "bonus", bonus)
	out.LeveledUp = true
	out.LevelUpGems = bonus
}

// unlockRules holds the predicate for each achievement id. Achievements
// without a rule never unlock.
var unlockRules = map[models.ID]func(models.State) bool{
	models.AchievementFirstStep: func(s models.State) bool {
		return s.Stats.TotalCompletions >= 1
	},
	models.AchievementConsistencyKing: func(s models.State) bool {
		return s.Streak >= 3
	},
	models.AchievementGemCollector: func(s models.State) bool {
		return s.Stats.TotalGemsEarned >= 500
	},
}

// checkAchievements unlocks, in order, every locked achievement whose rule
// now holds and grants its reward.
func checkAchievements(tx *txn, out *Outcome) {
	for i := range tx.state.Achievements {
		a := &tx.state.Achievements[i]
		if a.Unlocked {
			continue
		}
		rule, ok := unlockRules[a.ID]
		if !ok || !rule(tx.state) {
			continue
		}
		a.Unlocked = true
		a.UnlockedDate = tx.today
		tx.state.Gems += a.Reward

		logger.Info("Achievement unlocked", "achievement", a.Name, "reward", a.Reward)
		out.Unlocked = append(out.Unlocked, *a)
	}
}

func themeFor(s models.Settings) string {
	if s.DarkMode {
		return constants.ThemeDark
	}
	return constants.ThemeLight
}
