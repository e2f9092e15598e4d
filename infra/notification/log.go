package notification

import (
	"context"
	"log/slog"

	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/amirasaad/bankmanager/pkg/notification"
)

// LogNotifier writes messages to the log instead of sending them.
type LogNotifier struct {
	logger *slog.Logger
}

var _ notification.Notifier = (*LogNotifier)(nil)

func NewLog(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("notifier", "log")}
}

// Notify never logs the message body; it may hold credentials.
func (n *LogNotifier) Notify(_ context.Context, msgs ...notification.Message) error {
	for _, m := range msgs {
		n.logger.Info("Notification queued",
			"channel", m.Channel,
			"recipient", m.Recipient,
			"subject", m.Subject,
		)
	}
	return nil
}

func (n *LogNotifier) Close() error {
	return nil
}

// New returns a Kafka notifier when brokers are configured, the log
// notifier otherwise.
func New(cfg *config.Notification, logger *slog.Logger) (notification.Notifier, error) {
	if cfg == nil || cfg.KafkaBrokers == "" {
		logger.Warn("No Kafka brokers configured, notifications are only logged")
		return NewLog(logger), nil
	}
	return NewKafka(cfg, logger)
}
