package app

import (
	"context"
	"fmt"

	"go-leave/internal/messaging/kafka"
	"go-leave/internal/messaging/kafka/producer"
	"go-leave/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays pending outbox rows to kafka. It blocks until ctx is done.
func RunWorker(ctx context.Context, cfg *Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")

	if err := cfg.RequireKafka(); err != nil {
		return err
	}

	db, err := connection.ConnectGORMWithRetry(cfg.Postgres(), cfg.DBMaxRetries, log)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql.DB: %w", err)
	}
	defer sqlDB.Close()

	writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.DBMaxRetries, log)
	if err != nil {
		return fmt.Errorf("connect kafka: %w", err)
	}
	defer writer.Close()

	log.Info("outbox relay started",
		zap.String("broker", cfg.KafkaBroker),
		zap.Duration("poll_interval", cfg.OutboxPollInterval),
	)
	producer.ProcessOutboxEvents(ctx, kafka.NewOutboxRepository(sqlDB), writer, log, cfg.OutboxPollInterval)
	log.Info("outbox relay stopped")

	return nil
}
