package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender delivers reminders as bot messages to a single chat.
type TelegramSender struct {
	api    botAPI
	chatID int64
}

// NewTelegramSender authenticates the bot token against the Telegram API.
func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id is required")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return &TelegramSender{api: api, chatID: chatID}, nil
}

func (t *TelegramSender) Send(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, fmt.Sprintf("%s\n%s", n.Title, n.Body))
	msg.DisableNotification = !n.Policy.PlaySound
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
