package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	infranotification "github.com/amirasaad/bankmanager/infra/notification"
	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/amirasaad/bankmanager/pkg/notification"
	"github.com/segmentio/kafka-go"
)

// RunSmokeTest publishes one welcome e-mail and one activation SMS through
// the Kafka notifier and reads them back from their topics.
func RunSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := &config.Notification{
		KafkaBrokers: config.GetEnv("BROKERS", "localhost:9093,localhost:9092"),
		TopicPrefix:  config.GetEnv("TOPIC_PREFIX", ""),
	}
	groupID := config.GetEnv("GROUP_ID", "bankmanager-smoketest")
	brokers := strings.Split(cfg.KafkaBrokers, ",")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	notifier, err := infranotification.NewKafka(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = notifier.Close() }()

	sent := []notification.Message{
		notification.Welcome("smoke@example.com", "Smoke Test", "C00000000", "temporaire"),
		notification.VerificationCode("+221770000000", "SMOKETST"),
	}
	if err := notifier.Notify(ctx, sent...); err != nil {
		logger.Error("publish failed", "error", err)
		return err
	}
	logger.Info("published", "count", len(sent))

	for _, want := range sent {
		topic := infranotification.TopicName(infranotification.TopicPrefix(cfg.TopicPrefix), want.Channel)
		r := kafka.NewReader(kafka.ReaderConfig{
			Brokers:     brokers,
			GroupID:     groupID,
			Topic:       topic,
			StartOffset: kafka.FirstOffset,
			MinBytes:    1,
			MaxBytes:    10e6,
			MaxWait:     500 * time.Millisecond,
		})
		defer func(rd *kafka.Reader) { _ = rd.Close() }(r)

		readCtx, cancelRead := context.WithTimeout(ctx, 10*time.Second)
		defer cancelRead()

		msg, err := r.FetchMessage(readCtx)
		if err != nil {
			logger.Error("fetch failed", "topic", topic, "error", err)
			return err
		}
		var got notification.Message
		if err := json.Unmarshal(msg.Value, &got); err != nil {
			return fmt.Errorf("decode %s: %w", topic, err)
		}
		logger.Info("consumed", "topic", topic, "recipient", got.Recipient, "key", string(msg.Key))
		_ = r.CommitMessages(ctx, msg)
	}

	logger.Info("kafka smoke test passed")
	return nil
}

// main runs the smoke test and exits non-zero on failure.
func main() {
	if err := RunSmokeTest(); err != nil {
		os.Exit(1)
	}
}
