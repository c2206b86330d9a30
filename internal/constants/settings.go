package constants

const (
	// Settings keys
	SettingDarkMode      = "dark_mode"
	SettingNotifications = "notifications"
	SettingSound         = "sound"
	SettingVibration     = "vibration"

	// Default settings values
	DefaultDarkMode      = false
	DefaultNotifications = true
	DefaultSound         = true
	DefaultVibration     = true
	DefaultTimezone      = "Local" // Use system local timezone by default
	DefaultUserName      = "Habit Hero"
)
