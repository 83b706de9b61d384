// Package notify holds Notifier implementations that reach people outside
// the process.
package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gentyx/clienthub/internal/service"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts notifications to a single Telegram chat, typically
// the practice's staff group.
type TelegramNotifier struct {
	bot    sender
	chatID int64
}

// NewTelegramNotifier connects to the Bot API with the given token.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connecting telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func newTelegramNotifier(bot sender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

func (n *TelegramNotifier) Notify(ctx context.Context, msg service.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, formatMessage(msg))); err != nil {
		return fmt.Errorf("sending telegram notification: %w", err)
	}
	return nil
}

func formatMessage(msg service.Notification) string {
	var b strings.Builder
	b.WriteString(msg.Subject)
	if msg.Body != "" {
		b.WriteString("\n")
		b.WriteString(msg.Body)
	}
	if msg.Recipient != "" {
		fmt.Fprintf(&b, "\nfor: %s", msg.Recipient)
	}
	return b.String()
}

// Fanout delivers to every notifier and returns the first failure.
type Fanout []service.Notifier

func (f Fanout) Notify(ctx context.Context, msg service.Notification) error {
	var first error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, msg); err != nil && first == nil {
			first = err
		}
	}
	return first
}
