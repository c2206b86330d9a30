package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/gamifylife/internal/cli"
	"github.com/julianstephens/gamifylife/internal/cli/backups"
	"github.com/julianstephens/gamifylife/internal/cli/habits"
	"github.com/julianstephens/gamifylife/internal/cli/profile"
	"github.com/julianstephens/gamifylife/internal/cli/rewards"
	"github.com/julianstephens/gamifylife/internal/cli/settings"
	"github.com/julianstephens/gamifylife/internal/cli/system"
	"github.com/julianstephens/gamifylife/internal/cli/workouts"
	"github.com/julianstephens/gamifylife/internal/config"
	"github.com/julianstephens/gamifylife/internal/constants"
	apperrors "github.com/julianstephens/gamifylife/internal/errors"
	"github.com/julianstephens/gamifylife/internal/logger"
	"github.com/julianstephens/gamifylife/internal/notifier"
)

var _ cli.Announcer = (*notifier.Notifier)(nil)

var CLI struct {
	Version kong.VersionFlag
	Store   string `help:"Store file path (.db for SQLite, .json for JSON), :memory:, or a PostgreSQL connection string without a password. Defaults to the configured store, then the OS keyring." type:"string"`
	Config  string `help:"YAML config file." type:"string" default:"${config_file}"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init         system.InitCmd          `cmd:"" help:"Initialize storage and seed the default catalog."`
	Status       profile.StatusCmd       `cmd:"" help:"Show gems, level and today's progress." default:"1"`
	Profile      profile.ProfileCmd      `cmd:"" help:"Show or rename your profile."`
	Achievements profile.AchievementsCmd `cmd:"" help:"List achievements."`
	Habit        habits.HabitCmd         `cmd:"" help:"Manage and track habits."`
	Reward       rewards.RewardCmd       `cmd:"" help:"Manage and redeem rewards."`
	Punishment   workouts.PunishmentCmd  `cmd:"" help:"Manage the punishment workout catalog."`
	Workout      workouts.WorkoutCmd     `cmd:"" help:"List and complete assigned workouts."`
	Settings     settings.SettingsCmd    `cmd:"" help:"Show or change settings."`
	Theme        settings.ThemeCmd       `cmd:"" help:"Show or set the color theme."`
	Backup       backups.BackupCmd       `cmd:"" help:"Manage store backups."`
	Doctor       system.DoctorCmd        `cmd:"" help:"Run health checks and diagnostics."`
	Keyring      system.ConfigCmd        `cmd:"" name:"config" help:"Manage the connection string saved in the OS keyring."`
}

// Commands that manage the store themselves and must not have the saved state loaded first.
var selfLoading = map[string]bool{
	"init":   true,
	"config": true,
	"doctor": true,
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker that pays gems for good habits and assigns workouts for missed ones"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatalf("failed to load config %s: %v", CLI.Config, err)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	target := cli.ResolveStoreTarget(CLI.Store, cfg)
	cfg.Store = target.Value

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.DataDir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := target.Open()
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store:      store,
		Config:     cfg,
		Notifier:   notifier.New(),
		ConfigPath: CLI.Config,
	}

	command, _, _ := strings.Cut(kctx.Command(), " ")
	if !selfLoading[command] {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
		if err := appCtx.StartEngine(); err != nil {
			_ = store.Close()
			apperrors.Fatal(err)
		}
	}

	err = kctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("failed to close store", "error", closeErr)
	}
	apperrors.Fatal(err)
}
