package app

import (
	"context"

	"go-leave/internal/bootstrap"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const auditConsumerGroup = "go-leave-audit"

func lifecycleReaderConfig(broker string) kafkago.ReaderConfig {
	return kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       events.LeaveLifecycleTopic,
		GroupID:     auditConsumerGroup,
		StartOffset: kafkago.FirstOffset,
	}
}

// RunConsumer copies leave lifecycle events into the audit trail until ctx
// is done.
func RunConsumer(ctx context.Context, cfg *Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	if err := cfg.RequireKafka(); err != nil {
		return err
	}

	reader := kafkago.NewReader(lifecycleReaderConfig(cfg.KafkaBroker))
	defer reader.Close()

	log.Debug("joining consumer group", zap.String("group", auditConsumerGroup))
	consumer.ConsumeLeaveLifecycle(ctx, reader, bootstrap.NewStdoutAuditLogger(logger), log)

	return nil
}
