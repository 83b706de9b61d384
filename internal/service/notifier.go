package service

import (
	"context"
	"log/slog"

	"github.com/gentyx/clienthub/internal/domain"
)

// Notification tells the people around a client that something moved.
type Notification struct {
	ClientID  string
	TaskID    string
	Recipient domain.Role
	Subject   string
	Body      string
}

// Notifier delivers notifications. Delivery is best-effort: callers log a
// failure and carry on.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a Notifier that only writes the notification to the
// log.
func NewLogNotifier(logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(ctx context.Context, msg Notification) error {
	n.logger.InfoContext(ctx, "notification",
		"client_id", msg.ClientID,
		"task_id", msg.TaskID,
		"recipient", string(msg.Recipient),
		"subject", msg.Subject,
	)
	return nil
}

func notifyBestEffort(ctx context.Context, notifier Notifier, n Notification) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, n); err != nil {
		slog.Default().WarnContext(ctx, "notification failed",
			"client_id", n.ClientID,
			"task_id", n.TaskID,
			"error", err.Error(),
		)
	}
}
