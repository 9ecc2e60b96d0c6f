package constants

import "time"

const (
	AppName            = "dearme"
	DefaultKeyringUser = "database-connection"
	SessionKeyringUser = "session"
	DefaultConfigPath  = "~/.config/dearme/dearme.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// MonthFormat is used by the calendar views (YYYY-MM)
	MonthFormat = "2006-01"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "dearme-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "dearme-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.dearme"
	NotificationFanOut     = 8

	// Session constants
	SessionTTL       = 30 * 24 * time.Hour
	TokenSecretBytes = 32
	ICalProductID    = "-//julianstephens//dearme//EN"
)

// Collection names used by the document store.
const (
	CollectionHabits      = "habits"
	CollectionJournals    = "journals"
	CollectionGratitude   = "gratitude"
	CollectionReflections = "reflections"
	CollectionABCDE       = "abcde"
	CollectionGoals       = "goals"
	CollectionVideos      = "videos"
)

// GlobalOwner owns documents shared by every account (the video library).
const GlobalOwner = ""
