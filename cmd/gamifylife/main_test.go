package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var binPath string

// TestMain builds the binary once for the end-to-end tests below.
func TestMain(m *testing.M) {
	if os.Getenv("GAMIFYLIFE_SKIP_E2E") != "" {
		os.Exit(m.Run())
	}

	dir, err := os.MkdirTemp("", "gamifylife-e2e")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	binPath = filepath.Join(dir, "gamifylife")

	build := exec.Command("go", "build", "-o", binPath, ".")
	if out, err := build.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build binary: %v\n%s", err, out)
		binPath = ""
	}

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type env struct {
	t     *testing.T
	home  string
	store string
	vars  []string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	if testing.Short() || binPath == "" {
		t.Skip("end-to-end test needs a built binary")
	}

	home := t.TempDir()
	vars := []string{
		"HOME=" + home,
		"PATH=" + os.Getenv("PATH"),
		"GAMIFYLIFE_NOTIFY=false",
		"GAMIFYLIFE_WORKOUT_REMOVAL_DELAY=0s",
	}
	return &env{
		t:     t,
		home:  home,
		store: filepath.Join(home, "data", "gamifylife.db"),
		vars:  vars,
	}
}

func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	full := append([]string{"--store", e.store, "--config", filepath.Join(e.home, "config.yaml")}, args...)
	cmd := exec.Command(binPath, full...)
	cmd.Env = e.vars

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		return stdout.String() + stderr.String(), err
	}
	return stdout.String(), nil
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("gamifylife %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func expectContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEndToEndWorkflow(t *testing.T) {
	e := newEnv(t)

	expectContains(t, e.mustRun("init"), "Ready: 3 habits", "100 gems")

	expectContains(t, e.mustRun("habit", "add", "Stretch", "--difficulty", "medium", "--importance", "2"),
		"Added habit: Stretch")
	expectContains(t, e.mustRun("habit", "add", "Floss"), "Added habit: Floss")

	out := e.mustRun("habit", "complete", "stretch")
	expectContains(t, out, "✓ Completed: Stretch", "Achievement unlocked: First Step")

	expectContains(t, e.mustRun("habit", "complete", "Stretch"), "already completed today")

	out = e.mustRun("habit", "fail", "Floss")
	expectContains(t, out, "✗ Failed: Floss", "Workout assigned")

	out = e.mustRun("workout")
	expectContains(t, out, "1 pending workout(s)")

	expectContains(t, e.mustRun("backup", "list"), "Available backups")

	out = e.mustRun("status")
	expectContains(t, out, "Gems:", "Today:    1/5 habits completed", "Pending:  1 workout(s)")

	expectContains(t, e.mustRun("achievements"), "[✓] First Step")
}

func TestEndToEndUnknownHabit(t *testing.T) {
	e := newEnv(t)
	e.mustRun("init")

	out, err := e.run("habit", "complete", "does-not-exist")
	if err == nil {
		t.Fatalf("expected failure for unknown habit:\n%s", out)
	}
	expectContains(t, out, "not found")
}

func TestEndToEndDoctor(t *testing.T) {
	e := newEnv(t)
	e.mustRun("init")
	e.mustRun("backup", "create")

	out, err := e.run("doctor")
	if err != nil {
		t.Fatalf("doctor failed on a healthy store: %v\n%s", err, out)
	}
	expectContains(t, out, "Store reachable")
}
