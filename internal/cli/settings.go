package cli

import "fmt"

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA time zone for reminders, or Local."`
	NotificationsEnabled *bool   `help:"Enable or disable reminders."`
	NotifyShowAlert      *bool   `help:"Show a visible alert when a reminder fires."`
	NotifyPlaySound      *bool   `help:"Play a sound with reminders."`
	NotifySetBadge       *bool   `help:"Set a badge with reminders."`
	NotifyChannel        *string `help:"Delivery channel (tray, telegram or log)."`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		ctx.println("Current Settings:")
		ctx.printf("  Timezone:              %s\n", settings.Timezone)
		ctx.println("\nNotification Settings:")
		ctx.printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		ctx.printf("  Show Alert:            %v\n", settings.NotifyShowAlert)
		ctx.printf("  Play Sound:            %v\n", settings.NotifyPlaySound)
		ctx.printf("  Set Badge:             %v\n", settings.NotifySetBadge)
		ctx.printf("  Channel:               %s\n", settings.NotifyChannel)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if _, err := loadLocation(*c.Timezone); err != nil {
			return err
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.NotifyShowAlert != nil {
		settings.NotifyShowAlert = *c.NotifyShowAlert
		updated = true
	}
	if c.NotifyPlaySound != nil {
		settings.NotifyPlaySound = *c.NotifyPlaySound
		updated = true
	}
	if c.NotifySetBadge != nil {
		settings.NotifySetBadge = *c.NotifySetBadge
		updated = true
	}
	if c.NotifyChannel != nil {
		switch *c.NotifyChannel {
		case "tray", "telegram", "log":
		default:
			return fmt.Errorf("unknown notification channel %q (expected tray, telegram or log)", *c.NotifyChannel)
		}
		settings.NotifyChannel = *c.NotifyChannel
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.println("Settings updated successfully.")
	} else {
		ctx.println("No changes specified. Use --list to view settings or flags to update them.")
	}
	return nil
}
