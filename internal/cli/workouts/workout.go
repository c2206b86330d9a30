package workouts

import (
	"fmt"

	"github.com/julianstephens/gamifylife/internal/cli"
	"github.com/julianstephens/gamifylife/internal/engine"
	"github.com/julianstephens/gamifylife/internal/models"
)

type PunishmentCmd struct {
	Add  PunishmentAddCmd  `cmd:"" help:"Add a workout to the punishment library."`
	List PunishmentListCmd `cmd:"" help:"List the punishment library." default:"1"`
}

type PunishmentAddCmd struct {
	Name        string `arg:"" help:"Name of the workout."`
	Reps        string `arg:"" help:"Amount, e.g. \"20 reps\" or \"1 minute\"."`
	GemLoss     int    `help:"Gem value of the workout; half is refunded on completion." default:"10"`
	Difficulty  string `help:"Difficulty: easy, medium, hard or extreme." default:"medium" enum:"easy,medium,hard,extreme"`
	Description string `help:"Optional description."`
}

func (c *PunishmentAddCmd) Run(ctx *cli.Context) error {
	d, err := models.ParseDifficulty(c.Difficulty)
	if err != nil {
		return err
	}
	p, err := ctx.Engine.AddPunishment(engine.PunishmentInput{
		Name:        c.Name,
		Reps:        c.Reps,
		GemLoss:     c.GemLoss,
		Difficulty:  d,
		Description: c.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to add punishment: %w", err)
	}
	ctx.Printf("Added punishment: %s, %s (%s)\n", p.Name, p.Reps, cli.ShortID(p.ID))
	return nil
}

type PunishmentListCmd struct{}

func (c *PunishmentListCmd) Run(ctx *cli.Context) error {
	library := ctx.Engine.Snapshot().Punishments
	if len(library) == 0 {
		ctx.Println("Punishment library is empty; failed habits will not assign workouts.")
		return nil
	}
	for _, p := range library {
		ctx.Printf("%s  %-20s %-10s %-8s %d gems\n", cli.ShortID(p.ID), p.Name, p.Reps, p.Difficulty, p.GemLoss)
	}
	return nil
}

type WorkoutCmd struct {
	List     WorkoutListCmd     `cmd:"" help:"List pending workouts." default:"1"`
	Complete WorkoutCompleteCmd `cmd:"" help:"Complete a pending workout for a partial refund."`
}

type WorkoutListCmd struct{}

func (c *WorkoutListCmd) Run(ctx *cli.Context) error {
	active := ctx.Engine.ActiveWorkouts()
	if len(active) == 0 {
		ctx.Println("No pending workouts. Keep it up!")
		return nil
	}
	ctx.Printf("%d pending workout(s):\n\n", len(active))
	for _, w := range active {
		ctx.Printf("%s  %-20s %-10s assigned %s  refund %d gems\n",
			cli.ShortID(w.ID), w.Name, w.Reps, w.Date, engine.WorkoutRefund(w))
	}
	return nil
}

type WorkoutCompleteCmd struct {
	Workout string `arg:"" help:"Workout id or id prefix."`
}

func (c *WorkoutCompleteCmd) Run(ctx *cli.Context) error {
	active := ctx.Engine.ActiveWorkouts()
	ids := make([]models.ID, len(active))
	for i, w := range active {
		ids[i] = w.ID
	}
	id, err := cli.ResolveID(ids, c.Workout)
	if err != nil {
		return fmt.Errorf("workout %w", err)
	}

	out, err := ctx.Engine.CompleteWorkout(id)
	if err != nil {
		return err
	}
	ctx.Printf("💪 Workout done: %s\n", out.Workout.Name)
	ctx.Report(out)
	return nil
}
