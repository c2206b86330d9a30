package habits

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/gamifylife/internal/cli"
	"github.com/julianstephens/gamifylife/internal/cli/clitest"
	"github.com/julianstephens/gamifylife/internal/engine"
)

func TestHabitAddCmd(t *testing.T) {
	tests := []struct {
		name      string
		cmd       HabitAddCmd
		wantError bool
	}{
		{
			name: "valid habit",
			cmd:  HabitAddCmd{Name: "Meditate", Category: "mind", Difficulty: "medium", Importance: 3},
		},
		{
			name:      "empty name",
			cmd:       HabitAddCmd{Name: "  ", Category: "mind", Difficulty: "easy", Importance: 3},
			wantError: true,
		},
		{
			name:      "importance out of range",
			cmd:       HabitAddCmd{Name: "Stretch", Category: "fitness", Difficulty: "easy", Importance: 6},
			wantError: true,
		},
		{
			name:      "unknown difficulty",
			cmd:       HabitAddCmd{Name: "Stretch", Category: "fitness", Difficulty: "legendary", Importance: 2},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := clitest.NewContext(t)
			before := len(ctx.Engine.Habits(""))

			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantError {
				t.Fatalf("HabitAddCmd.Run() error = %v, wantError %v", err, tt.wantError)
			}

			after := len(ctx.Engine.Habits(""))
			if tt.wantError {
				if after != before {
					t.Errorf("habit count changed on error: %d -> %d", before, after)
				}
				return
			}
			if after != before+1 {
				t.Errorf("expected %d habits, got %d", before+1, after)
			}
			if !strings.Contains(out.String(), "Added habit: "+tt.cmd.Name) {
				t.Errorf("unexpected output: %q", out.String())
			}
		})
	}
}

func TestHabitCompleteCmd(t *testing.T) {
	ctx, out := clitest.NewContext(t)

	cmd := &HabitAddCmd{Name: "Meditate", Category: "mind", Difficulty: "easy", Importance: 3}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	complete := &HabitCompleteCmd{Habit: "meditate"}
	if err := complete.Run(ctx); err != nil {
		t.Fatalf("HabitCompleteCmd.Run() error = %v", err)
	}

	// 100 start + 5*3 easy completion + 50 First Step
	if got := ctx.Engine.Snapshot().Gems; got != 165 {
		t.Errorf("gems = %d, want 165", got)
	}
	for _, want := range []string{"✓ Completed: Meditate", "+15 gems", "+10 XP", "First Step"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	gems := ctx.Engine.Snapshot().Gems
	out.Reset()
	if err := complete.Run(ctx); err != nil {
		t.Errorf("second completion should only warn, got %v", err)
	}
	if !strings.Contains(out.String(), "already completed today") {
		t.Errorf("missing warning:\n%s", out.String())
	}
	if got := ctx.Engine.Snapshot().Gems; got != gems {
		t.Errorf("gems changed on repeat completion: %d -> %d", gems, got)
	}
}

func TestHabitFailCmd(t *testing.T) {
	ctx, out := clitest.NewContext(t)

	h := ctx.Engine.Habits("")[0]
	fail := &HabitFailCmd{Habit: cli.ShortID(h.ID)}
	if err := fail.Run(ctx); err != nil {
		t.Fatalf("HabitFailCmd.Run() error = %v", err)
	}

	s := ctx.Engine.Snapshot()
	if want := 100 - engine.GemLossForFail(h); s.Gems != want {
		t.Errorf("gems = %d, want %d", s.Gems, want)
	}
	if len(ctx.Engine.ActiveWorkouts()) != 1 {
		t.Errorf("expected one assigned workout, got %d", len(ctx.Engine.ActiveWorkouts()))
	}
	if !strings.Contains(out.String(), "Workout assigned") {
		t.Errorf("output missing workout line:\n%s", out.String())
	}

	out.Reset()
	if err := fail.Run(ctx); err != nil {
		t.Errorf("second failure should only warn, got %v", err)
	}
	if !strings.Contains(out.String(), "already marked as failed today") {
		t.Errorf("missing warning:\n%s", out.String())
	}
	if n := len(ctx.Engine.ActiveWorkouts()); n != 1 {
		t.Errorf("repeat failure assigned another workout: %d active", n)
	}
}

func TestHabitCmd_UnknownHabit(t *testing.T) {
	ctx, _ := clitest.NewContext(t)

	if err := (&HabitCompleteCmd{Habit: "does-not-exist"}).Run(ctx); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("complete unknown habit error = %v, want ErrNotFound", err)
	}
	if err := (&HabitFailCmd{Habit: "does-not-exist"}).Run(ctx); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("fail unknown habit error = %v, want ErrNotFound", err)
	}
}

func TestHabitListCmd(t *testing.T) {
	ctx, out := clitest.NewContext(t)

	habits := ctx.Engine.Habits("")
	if _, err := ctx.Engine.CompleteHabit(habits[0].ID); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Engine.FailHabit(habits[1].ID); err != nil {
		t.Fatal(err)
	}

	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatalf("HabitListCmd.Run() error = %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Today: 1/3 habits completed") {
		t.Errorf("missing progress line:\n%s", got)
	}
	if !strings.Contains(got, "[✓]") || !strings.Contains(got, "[✗]") {
		t.Errorf("missing status markers:\n%s", got)
	}

	if err := (&HabitListCmd{Difficulty: "bogus"}).Run(ctx); err == nil {
		t.Error("expected error for unknown difficulty filter")
	}
}
