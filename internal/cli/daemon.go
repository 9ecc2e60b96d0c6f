package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/dearme/internal/logger"
	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/notifier"
	"github.com/julianstephens/dearme/internal/reminder"
)

// DaemonCmd keeps habit reminders scheduled and delivers them when due.
type DaemonCmd struct {
	DryRun         bool          `help:"Log reminders instead of delivering them."`
	Once           bool          `help:"Schedule pending reminders, report and exit."`
	Resync         time.Duration `help:"How often to pick up habits added by other commands." default:"5m"`
	TelegramToken  string        `help:"Telegram bot token for the telegram channel." env:"DEARME_TELEGRAM_TOKEN"`
	TelegramChatID int64         `help:"Telegram chat to deliver to." env:"DEARME_TELEGRAM_CHAT_ID"`
}

func (c *DaemonCmd) Validate() error {
	if c.Resync <= 0 {
		return fmt.Errorf("--resync must be positive")
	}
	return nil
}

func (c *DaemonCmd) Run(ctx *Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if !settings.NotificationsEnabled && !c.DryRun {
		return fmt.Errorf("notifications are disabled in settings")
	}
	loc, err := loadLocation(settings.Timezone)
	if err != nil {
		return err
	}

	sender, err := c.sender(settings)
	if err != nil {
		return err
	}
	sched, err := notifier.NewScheduler(notifier.Config{
		Policy: notifier.Policy{
			ShowAlert: settings.NotifyShowAlert,
			PlaySound: settings.NotifyPlaySound,
			SetBadge:  settings.NotifySetBadge,
		},
		Location: loc,
		Sender:   sender,
	})
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, clock, err := habitService(ctx)
	if err != nil {
		return err
	}
	// Each pass reconciles with the store, so habits deleted elsewhere stop firing.
	sync := func() error {
		reqs, err := svc.Pending(runCtx, user.ID, reminder.DateOf(clock()))
		if err != nil {
			return err
		}
		removed, err := sched.Sync(reqs)
		if err != nil {
			return err
		}
		logger.Debug("Reminders synced", "pending", len(reqs), "removed", removed, "entries", sched.Len())
		return nil
	}

	if err := sync(); err != nil {
		return err
	}
	if c.Once {
		ctx.printf("%d reminder(s) scheduled for %s\n", sched.Len(), user.Email)
		return nil
	}

	sched.Start()
	defer sched.Stop()
	ctx.printf("Delivering reminders for %s (%d scheduled). Press Ctrl+C to stop.\n", user.Email, sched.Len())

	ticker := time.NewTicker(c.Resync)
	defer ticker.Stop()
	for {
		select {
		case <-runCtx.Done():
			ctx.println("Shutting down...")
			return nil
		case <-ticker.C:
			if err := sync(); err != nil {
				logger.Warn("Reminder resync failed", "error", err)
			}
		}
	}
}

func (c *DaemonCmd) sender(settings models.Settings) (notifier.Sender, error) {
	if c.DryRun {
		return notifier.LogSender{}, nil
	}
	switch settings.NotifyChannel {
	case "tray", "":
		if err := notifier.TrayAvailable(); err != nil {
			logger.Warn("Tray companion unavailable, logging reminders instead",
				"error", err, "hint", "start dearme-tray or set notify_channel")
			return notifier.LogSender{}, nil
		}
		return notifier.NewTrayNotifier(), nil
	case "telegram":
		return notifier.NewTelegramSender(c.TelegramToken, c.TelegramChatID)
	case "log":
		return notifier.LogSender{}, nil
	}
	return nil, fmt.Errorf("unknown notification channel %q (expected tray, telegram or log)", settings.NotifyChannel)
}
