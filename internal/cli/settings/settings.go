package settings

import (
	"fmt"

	"github.com/julianstephens/gamifylife/internal/cli"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	DarkMode      *bool `help:"Enable or disable dark mode."`
	Notifications *bool `help:"Enable or disable notifications."`
	Sound         *bool `help:"Enable or disable sound."`
	Vibration     *bool `help:"Enable or disable vibration."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings := ctx.Engine.Snapshot().Settings

	updated := false
	if c.DarkMode != nil {
		settings.DarkMode = *c.DarkMode
		updated = true
	}
	if c.Notifications != nil {
		settings.Notifications = *c.Notifications
		updated = true
	}
	if c.Sound != nil {
		settings.Sound = *c.Sound
		updated = true
	}
	if c.Vibration != nil {
		settings.Vibration = *c.Vibration
		updated = true
	}

	if updated {
		if err := ctx.Engine.UpdateSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Println("Settings updated successfully.")
		if !c.List {
			return nil
		}
	}

	ctx.Println("Current Settings:")
	ctx.Printf("  Dark Mode:      %v\n", settings.DarkMode)
	ctx.Printf("  Notifications:  %v\n", settings.Notifications)
	ctx.Printf("  Sound:          %v\n", settings.Sound)
	ctx.Printf("  Vibration:      %v\n", settings.Vibration)
	ctx.Printf("  Theme:          %s\n", ctx.Engine.Theme())
	return nil
}

type ThemeCmd struct {
	Theme string `arg:"" optional:"" help:"dark or light. Prints the current theme when omitted."`
}

func (c *ThemeCmd) Run(ctx *cli.Context) error {
	if c.Theme == "" {
		ctx.Println(ctx.Engine.Theme())
		return nil
	}
	if err := ctx.Engine.SetTheme(c.Theme); err != nil {
		return err
	}
	ctx.Printf("Theme set to %s\n", c.Theme)
	return nil
}
