package constants

const (
	// General Settings
	SettingTimezone    = "timezone"
	SettingTokenSecret = "token_secret"

	// Notification Settings
	SettingNotificationsEnabled = "notifications_enabled"
	SettingNotifyShowAlert      = "notify_show_alert"
	SettingNotifyPlaySound      = "notify_play_sound"
	SettingNotifySetBadge       = "notify_set_badge"
	SettingNotifyChannel        = "notify_channel"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled = true
	DefaultNotifyShowAlert      = true
	DefaultNotifyPlaySound      = false
	DefaultNotifySetBadge       = false
	DefaultNotifyChannel        = "tray"
)
