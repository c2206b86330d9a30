package profile

import (
	"github.com/julianstephens/gamifylife/internal/cli"
	"github.com/julianstephens/gamifylife/internal/constants"
)

// nextLevelXP is the xp at which level+1 begins.
func nextLevelXP(level int) int {
	return constants.XPPerLevelUnit * level * level
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	s := ctx.Engine.Snapshot()
	done, total := ctx.Engine.TodayProgress()

	ctx.Printf("%s, %s\n", s.User.Name, s.User.Title)
	ctx.Printf("  Level:    %d (%d/%d XP)\n", s.Level, s.XP, nextLevelXP(s.Level))
	ctx.Printf("  Gems:     %d\n", s.Gems)
	ctx.Printf("  Streak:   %d day(s)\n", s.Streak)
	ctx.Printf("  Today:    %d/%d habits completed\n", done, total)
	if n := ctx.Engine.PendingCount(); n > 0 {
		ctx.Printf("  Pending:  %d workout(s), see 'gamifylife workout list'\n", n)
	}
	return nil
}

type ProfileCmd struct {
	Name string `help:"Change your display name."`
}

func (c *ProfileCmd) Run(ctx *cli.Context) error {
	if c.Name != "" {
		if err := ctx.Engine.SetUserName(c.Name); err != nil {
			return err
		}
		ctx.Printf("Name updated to %s\n\n", c.Name)
	}

	s := ctx.Engine.Snapshot()
	unlocked := 0
	for _, a := range s.Achievements {
		if a.Unlocked {
			unlocked++
		}
	}

	ctx.Printf("%s, %s (joined %s)\n\n", s.User.Name, s.User.Title, s.User.JoinDate)
	ctx.Printf("  Level:               %d\n", s.Level)
	ctx.Printf("  XP:                  %d\n", s.XP)
	ctx.Printf("  Gems:                %d\n", s.Gems)
	ctx.Printf("  Streak:              %d\n", s.Streak)
	ctx.Printf("  Habits completed:    %d\n", s.Stats.TotalCompletions)
	ctx.Printf("  Habits failed:       %d\n", s.Stats.TotalFails)
	ctx.Printf("  Gems earned:         %d\n", s.Stats.TotalGemsEarned)
	ctx.Printf("  Gems lost:           %d\n", s.Stats.TotalGemsLost)
	ctx.Printf("  Workouts completed:  %d\n", s.Stats.WorkoutsCompleted)
	ctx.Printf("  Achievements:        %d/%d\n", unlocked, len(s.Achievements))
	return nil
}

type AchievementsCmd struct{}

func (c *AchievementsCmd) Run(ctx *cli.Context) error {
	for _, a := range ctx.Engine.Snapshot().Achievements {
		if a.Unlocked {
			ctx.Printf("[✓] %-18s %-28s +%d gems  unlocked %s\n", a.Name, a.Description, a.Reward, a.UnlockedDate)
		} else {
			ctx.Printf("[ ] %-18s %-28s +%d gems\n", a.Name, a.Description, a.Reward)
		}
	}
	return nil
}
