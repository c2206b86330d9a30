package workouts

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/gamifylife/internal/cli"
	"github.com/julianstephens/gamifylife/internal/cli/clitest"
	"github.com/julianstephens/gamifylife/internal/engine"
)

func TestPunishmentAddCmd(t *testing.T) {
	tests := []struct {
		name      string
		cmd       PunishmentAddCmd
		wantError bool
	}{
		{name: "valid", cmd: PunishmentAddCmd{Name: "Burpees", Reps: "15 reps", GemLoss: 12, Difficulty: "hard"}},
		{name: "negative gem loss", cmd: PunishmentAddCmd{Name: "Burpees", Reps: "15 reps", GemLoss: -1, Difficulty: "hard"}, wantError: true},
		{name: "bad difficulty", cmd: PunishmentAddCmd{Name: "Burpees", Reps: "15 reps", GemLoss: 5, Difficulty: "nope"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := clitest.NewContext(t)
			before := len(ctx.Engine.Snapshot().Punishments)

			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantError {
				t.Fatalf("PunishmentAddCmd.Run() error = %v, wantError %v", err, tt.wantError)
			}
			want := before
			if !tt.wantError {
				want++
			}
			if got := len(ctx.Engine.Snapshot().Punishments); got != want {
				t.Errorf("punishment count = %d, want %d", got, want)
			}
		})
	}
}

func TestWorkoutCompleteCmd(t *testing.T) {
	ctx, out := clitest.NewContext(t)

	h := ctx.Engine.Habits("")[0]
	failed, err := ctx.Engine.FailHabit(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if failed.Workout == nil {
		t.Fatal("expected a workout to be assigned")
	}

	if err := (&WorkoutListCmd{}).Run(ctx); err != nil {
		t.Fatalf("WorkoutListCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), failed.Workout.Name) {
		t.Errorf("workout list missing %q:\n%s", failed.Workout.Name, out.String())
	}

	before := ctx.Engine.Snapshot().Gems
	cmd := &WorkoutCompleteCmd{Workout: cli.ShortID(failed.Workout.ID)}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("WorkoutCompleteCmd.Run() error = %v", err)
	}

	s := ctx.Engine.Snapshot()
	if want := before + engine.WorkoutRefund(*failed.Workout); s.Gems != want {
		t.Errorf("gems = %d, want %d", s.Gems, want)
	}
	// No removal delay in tests: the workout is gone immediately.
	if len(s.PendingWorkouts) != 0 {
		t.Errorf("expected no pending workouts, got %d", len(s.PendingWorkouts))
	}
	if s.Stats.WorkoutsCompleted != 1 {
		t.Errorf("workouts completed = %d, want 1", s.Stats.WorkoutsCompleted)
	}

	if err := cmd.Run(ctx); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("completing a removed workout error = %v, want ErrNotFound", err)
	}
}

func TestWorkoutListCmd_Empty(t *testing.T) {
	ctx, out := clitest.NewContext(t)
	if err := (&WorkoutListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No pending workouts") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestPunishmentListCmd(t *testing.T) {
	ctx, out := clitest.NewContext(t)
	if err := (&PunishmentListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	for _, p := range ctx.Engine.Snapshot().Punishments {
		if !strings.Contains(out.String(), p.Name) {
			t.Errorf("listing missing %q", p.Name)
		}
	}
}
