package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/dearme/internal/constants"
)

// Settings represents application-wide settings
type Settings struct {
	Timezone             string `json:"timezone"`              // IANA timezone name or "Local"
	TokenSecret          string `json:"-"`                     // hex encoded HMAC key for session tokens
	NotificationsEnabled bool   `json:"notifications_enabled"` // whether habit reminders are delivered at all
	NotifyShowAlert      bool   `json:"notify_show_alert"`     // show a visible alert when a reminder fires
	NotifyPlaySound      bool   `json:"notify_play_sound"`     // ask the sender to play a sound
	NotifySetBadge       bool   `json:"notify_set_badge"`      // ask the sender to set a badge
	NotifyChannel        string `json:"notify_channel"`        // tray, telegram or log
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingTokenSecret:
			settings.TokenSecret = value
		case constants.SettingNotifyChannel:
			settings.NotifyChannel = value
		case constants.SettingNotificationsEnabled,
			constants.SettingNotifyShowAlert,
			constants.SettingNotifyPlaySound,
			constants.SettingNotifySetBadge:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			switch key {
			case constants.SettingNotificationsEnabled:
				settings.NotificationsEnabled = b
			case constants.SettingNotifyShowAlert:
				settings.NotifyShowAlert = b
			case constants.SettingNotifyPlaySound:
				settings.NotifyPlaySound = b
			case constants.SettingNotifySetBadge:
				settings.NotifySetBadge = b
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingTokenSecret:          settings.TokenSecret,
		constants.SettingNotifyChannel:        settings.NotifyChannel,
		constants.SettingNotificationsEnabled: strconv.FormatBool(settings.NotificationsEnabled),
		constants.SettingNotifyShowAlert:      strconv.FormatBool(settings.NotifyShowAlert),
		constants.SettingNotifyPlaySound:      strconv.FormatBool(settings.NotifyPlaySound),
		constants.SettingNotifySetBadge:       strconv.FormatBool(settings.NotifySetBadge),
	}
}

// DefaultSettings returns the settings written by a fresh init.
func DefaultSettings() Settings {
	return Settings{
		Timezone:             constants.DefaultTimezone,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		NotifyShowAlert:      constants.DefaultNotifyShowAlert,
		NotifyPlaySound:      constants.DefaultNotifyPlaySound,
		NotifySetBadge:       constants.DefaultNotifySetBadge,
		NotifyChannel:        constants.DefaultNotifyChannel,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.NotifyChannel == "" {
		settings.NotifyChannel = constants.DefaultNotifyChannel
	}
}
