package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/dearme/internal/auth"
	"github.com/julianstephens/dearme/internal/keyring"
	"github.com/julianstephens/dearme/internal/notifier"
	"github.com/julianstephens/dearme/internal/storage/sqlite"
)

type DoctorCmd struct{}

// check is one diagnostic. Advisory checks only warn.
type check struct {
	name     string
	advisory bool
	run      func(ctx *Context) error
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", run: checkSchemaVersion},
	{name: "Settings readable", run: checkSettings},
	{name: "Backups present", advisory: true, run: checkBackupsPresent},
	{name: "OS keyring", advisory: true, run: checkKeyring},
	{name: "Session", advisory: true, run: checkSession},
	{name: "Reminder channel", advisory: true, run: checkChannel},
	{name: "Clock", run: checkClock},
}

// schemaReporter is implemented by stores that track migrations.
type schemaReporter interface {
	SchemaVersions() (current, latest int, err error)
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	failed := 0
	for _, c := range checks {
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", c.name)
		case c.advisory:
			ctx.printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			failed++
		}
	}

	ctx.println()
	if failed > 0 {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("%d health check(s) failed", failed)
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if s, ok := ctx.Store.(*sqlite.Store); ok {
		var one int
		if err := s.GetDB().QueryRow("SELECT 1").Scan(&one); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	r, ok := ctx.Store.(schemaReporter)
	if !ok {
		return nil
	}
	current, latest, err := r.SchemaVersions()
	if err != nil {
		return err
	}
	switch {
	case current > latest:
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	case current < latest:
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d, run 'dearme migrate'", current, latest)
	}
	return nil
}

func checkSettings(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	_, err = loadLocation(settings.Timezone)
	return err
}

func checkBackupsPresent(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, consider creating one with 'dearme backup create'")
	}
	return nil
}

func checkKeyring(*Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkSession(ctx *Context) error {
	_, err := ctx.CurrentUser(context.Background())
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return fmt.Errorf("not logged in, run 'dearme login'")
	}
	return err
}

func checkChannel(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	switch settings.NotifyChannel {
	case "tray", "":
		if err := notifier.TrayAvailable(); err != nil {
			return fmt.Errorf("%w; the tray channel needs the dearme-tray companion, "+
				"so the daemon logs reminders until it runs (or set notify_channel to telegram or log)", err)
		}
	case "telegram":
		if os.Getenv("DEARME_TELEGRAM_TOKEN") == "" {
			return fmt.Errorf("DEARME_TELEGRAM_TOKEN is not set")
		}
	}
	return nil
}

func checkClock(*Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
