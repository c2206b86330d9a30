package constants

import "time"

const (
	AppName            = "gamifylife"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/gamifylife"
	DefaultStorePath   = "~/.config/gamifylife/gamifylife.db"
	DefaultConfigFile  = "~/.config/gamifylife/config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Store keys
	StateKey          = "gamifyLifeData"
	CorruptStateKey   = "gamifyLifeData.corrupt"
	LastResetDateKey  = "lastResetDate"
	LastStreakDateKey = "lastStreakDate"
	ThemeKey          = "theme"

	// Theme values
	ThemeDark  = "dark"
	ThemeLight = "light"

	// FailMarkerPrefix prefixes a habit id in State.DailyCompletions when the habit was failed.
	FailMarkerPrefix = "fail_"

	// Snapshot schema version written by this build
	SnapshotVersion = 1

	// Starting balances
	StartingGems  = 100
	StartingXP    = 0
	StartingLevel = 1

	// Rules
	FailGemLossPerImportance = 10
	WorkoutRefundPercent     = 50
	LevelUpGemsPerLevel      = 100
	XPPerLevelUnit           = 100
	MinImportance            = 1
	MaxImportance            = 5

	// DefaultWorkoutRemovalDelay is how long a completed workout stays visible before removal.
	DefaultWorkoutRemovalDelay = time.Second

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "gamifylife-"

	// Notify constants
	NotifierLockfileName   = "gamifylife-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.gamifylife"
	TrayAppExecutable      = "gamifylife-tray"
)

// Titles is the ordered list of user titles indexed by level-1.
var Titles = []string{"Beginner", "Apprentice", "Warrior", "Champion", "Master", "Legend"}
