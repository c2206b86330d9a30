package habits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/gamifylife/internal/cli"
	"github.com/julianstephens/gamifylife/internal/engine"
	"github.com/julianstephens/gamifylife/internal/models"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits and today's progress." default:"1"`
	Complete HabitCompleteCmd `cmd:"" help:"Mark a habit as completed today."`
	Fail     HabitFailCmd     `cmd:"" help:"Mark a habit as failed today."`
}

type HabitAddCmd struct {
	Name       string `arg:"" help:"Name of the habit."`
	Category   string `help:"Category (health, fitness, learning, ...)." default:"general"`
	Difficulty string `help:"Difficulty: easy, medium, hard or extreme." default:"easy" enum:"easy,medium,hard,extreme"`
	Importance int    `help:"Importance from 1 to 5; scales the gem loss on failure." default:"3"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	d, err := models.ParseDifficulty(c.Difficulty)
	if err != nil {
		return err
	}
	h, err := ctx.Engine.AddHabit(engine.HabitInput{
		Name:       c.Name,
		Category:   c.Category,
		Difficulty: d,
		Importance: c.Importance,
	})
	if err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}

	ctx.Printf("Added habit: %s (%s)\n", h.Name, cli.ShortID(h.ID))
	ctx.Printf("  Rewards %d gems and %d XP per completion\n", engine.GemsForCompletion(h), engine.XPForCompletion(h))
	return nil
}

type HabitListCmd struct {
	Difficulty string `help:"Only show habits of this difficulty (easy, medium, hard, extreme)."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	var filter models.Difficulty
	if c.Difficulty != "" {
		d, err := models.ParseDifficulty(c.Difficulty)
		if err != nil {
			return err
		}
		filter = d
	}

	habits := ctx.Engine.Habits(filter)
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	today := ctx.Clock.Today()
	done, total := ctx.Engine.TodayProgress()
	ctx.Printf("Today: %d/%d habits completed\n\n", done, total)

	for _, h := range habits {
		status := "[ ]"
		switch {
		case h.CompletedOn(today):
			status = "[✓]"
		case ctx.Engine.FailedToday(h.ID):
			status = "[✗]"
		}
		ctx.Printf("%s %s  %-30s %-8s %-10s %s  +%d gems\n",
			status, cli.ShortID(h.ID), h.Name, h.Difficulty, h.Category,
			strings.Repeat("!", h.Importance), engine.GemsForCompletion(h))
	}
	return nil
}

type HabitCompleteCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *HabitCompleteCmd) Run(ctx *cli.Context) error {
	h, err := cli.FindHabit(ctx.Engine.Habits(""), c.Habit)
	if err != nil {
		return err
	}
	out, err := ctx.Engine.CompleteHabit(h.ID)
	if errors.Is(err, engine.ErrAlreadyDone) {
		ctx.Printf("⚠ %s is already completed today.\n", h.Name)
		return nil
	}
	if err != nil {
		return err
	}

	ctx.Printf("✓ Completed: %s\n", h.Name)
	ctx.Report(out)
	return nil
}

type HabitFailCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *HabitFailCmd) Run(ctx *cli.Context) error {
	h, err := cli.FindHabit(ctx.Engine.Habits(""), c.Habit)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	out, err := ctx.Engine.FailHabit(h.ID)
	if errors.Is(err, engine.ErrAlreadyDone) {
		ctx.Printf("⚠ %s is already marked as failed today.\n", h.Name)
		return nil
	}
	if err != nil {
		return err
	}

	ctx.Printf("✗ Failed: %s\n", h.Name)
	ctx.Report(out)
	return nil
}
