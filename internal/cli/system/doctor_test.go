package system

import (
	"bytes"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/gamifylife/internal/cli"
	"github.com/julianstephens/gamifylife/internal/cli/backups"
	"github.com/julianstephens/gamifylife/internal/cli/clitest"
	"github.com/julianstephens/gamifylife/internal/config"
	"github.com/julianstephens/gamifylife/internal/constants"
	"github.com/julianstephens/gamifylife/internal/storage"
	"github.com/julianstephens/gamifylife/internal/storage/sqlite"
)

func TestDoctorCmd_HealthyStore(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := clitest.NewContext(t)

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy store: %v\n%s", err, out.String())
	}
	for _, want := range []string{"✓ Store reachable: OK", "✓ Schema version: OK", "✓ Migrations complete: OK", "✓ Saved state: OK", "✓ Data integrity: OK", "✓ Stored keys: OK"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("doctor output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDoctorCmd_MissingBackups(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := clitest.NewContext(t)

	// Missing backups is a warning, not a failure
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command should not fail on missing backups: %v", err)
	}
	if !strings.Contains(out.String(), "⚠ Backups present: WARNING") {
		t.Errorf("expected backup warning:\n%s", out.String())
	}

	out.Reset()
	if err := (&backups.BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "✓ Backups present: OK") {
		t.Errorf("expected backups OK after creating one:\n%s", out.String())
	}
}

func TestDoctorCmd_MalformedState(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := clitest.NewContext(t)

	if err := ctx.Store.Set(constants.StateKey, "{not json"); err != nil {
		t.Fatal(err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail on a malformed saved state")
	}
	if !strings.Contains(out.String(), "❌ Saved state: FAIL") {
		t.Errorf("expected saved state failure:\n%s", out.String())
	}
}

func TestDoctorCmd_DuplicateHabitIDs(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := clitest.NewContext(t)

	raw := `{"version":1,"gems":10,"habits":[` +
		`{"id":"a","name":"One","difficulty":"easy","importance":2,"completedDates":[]},` +
		`{"id":"a","name":"Two","difficulty":"easy","importance":2,"completedDates":[]}]}`
	if err := ctx.Store.Set(constants.StateKey, raw); err != nil {
		t.Fatal(err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail on duplicate habit ids")
	}
	if !strings.Contains(out.String(), "duplicate habit ID found: a") {
		t.Errorf("expected duplicate id error:\n%s", out.String())
	}
}

func TestDoctorCmd_MemoryStore(t *testing.T) {
	gokeyring.MockInit()
	var out bytes.Buffer
	ctx := &cli.Context{
		Store:  storage.NewMemoryStore(),
		Config: config.Default(),
		Out:    &out,
	}

	// No schema and no backups to speak of, but nothing is broken.
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor failed on memory store: %v\n%s", err, out.String())
	}
}

func TestDoctorCmd_UnknownAndQuarantinedKeys(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := clitest.NewContext(t)

	if err := ctx.Store.Set("leftover", "x"); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Store.Set(constants.CorruptStateKey, "{not json"); err != nil {
		t.Fatal(err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("unknown keys should only warn: %v\n%s", err, out.String())
	}
	for _, want := range []string{"⚠ Stored keys: WARNING", "unrecognized keys: leftover", "malformed save was set aside"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("doctor output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDoctorCmd_IncompleteMigrations(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := clitest.NewContext(t)

	runner, err := ctx.Store.(*sqlite.Store).Migrator()
	if err != nil {
		t.Fatal(err)
	}
	if err := runner.SetVersion(0); err != nil {
		t.Fatal(err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Errorf("doctor should fail with pending migrations:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "migrations incomplete: current version 0") {
		t.Errorf("expected migration failure:\n%s", out.String())
	}
}
