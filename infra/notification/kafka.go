// Package notification publishes client notifications.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/amirasaad/bankmanager/pkg/notification"
	"github.com/segmentio/kafka-go"
)

const defaultTopicPrefix = "bankmanager.notifications"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes each message to <prefix>.<channel>, keyed by
// recipient. Delivery to the end user is done by downstream consumers.
type KafkaNotifier struct {
	writer messageWriter
	prefix string
	logger *slog.Logger
}

var _ notification.Notifier = (*KafkaNotifier)(nil)

// NewKafka creates a KafkaNotifier for the comma-separated brokers in cfg.
func NewKafka(cfg *config.Notification, logger *slog.Logger) (*KafkaNotifier, error) {
	brokers := parseBrokers(cfg.KafkaBrokers)
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka notifier: brokers are required")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
	}
	logger.Info("Kafka notifier initialized", "brokers", brokers, "topic_prefix", cfg.TopicPrefix)
	return newKafkaNotifier(writer, cfg.TopicPrefix, logger), nil
}

func newKafkaNotifier(w messageWriter, prefix string, logger *slog.Logger) *KafkaNotifier {
	prefix = TopicPrefix(prefix)
	return &KafkaNotifier{writer: w, prefix: prefix, logger: logger.With("notifier", "kafka")}
}

func (n *KafkaNotifier) Notify(ctx context.Context, msgs ...notification.Message) error {
	out := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		value, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("kafka notifier: marshal failed: %w", err)
		}
		out = append(out, kafka.Message{
			Topic: TopicName(n.prefix, m.Channel),
			Key:   []byte(m.Recipient),
			Value: value,
			Headers: []kafka.Header{
				{Key: "channel", Value: []byte(m.Channel)},
			},
		})
	}
	if err := n.writer.WriteMessages(ctx, out...); err != nil {
		return fmt.Errorf("kafka notifier: publish failed: %w", err)
	}
	n.logger.Debug("Notifications published", "count", len(out))
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// TopicPrefix returns prefix, or the default prefix when it is blank.
func TopicPrefix(prefix string) string {
	if strings.TrimSpace(prefix) == "" {
		return defaultTopicPrefix
	}
	return prefix
}

func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TopicName is the topic carrying messages of channel.
func TopicName(prefix string, channel notification.Channel) string {
	return fmt.Sprintf("%s.%s", prefix, strings.ToLower(string(channel)))
}
