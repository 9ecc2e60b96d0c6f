package notifier

import (
	"context"

	"github.com/julianstephens/dearme/internal/logger"
)

// Policy is how a delivered reminder should present itself.
type Policy struct {
	ShowAlert bool
	PlaySound bool
	SetBadge  bool
}

// Notification is what a Sender delivers.
type Notification struct {
	Title  string
	Body   string
	Policy Policy
}

// Text joins title and body into one line for plain-text channels.
func (n Notification) Text() string {
	if n.Body == "" {
		return n.Title
	}
	return n.Title + ": " + n.Body
}

// Sender delivers a notification over one channel.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender writes notifications to the log instead of delivering them.
type LogSender struct{}

func (LogSender) Send(_ context.Context, n Notification) error {
	logger.Info("Reminder",
		"title", n.Title,
		"body", n.Body,
		"alert", n.Policy.ShowAlert,
		"sound", n.Policy.PlaySound,
		"badge", n.Policy.SetBadge,
	)
	return nil
}
