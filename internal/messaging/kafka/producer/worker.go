package producer

import (
	"context"
	"time"

	"go-leave/internal/messaging/kafka"

	"go.uber.org/zap"
)

const outboxBatchSize = 50

// ProcessOutboxEvents polls due outbox rows and publishes them until ctx is
// cancelled.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			result, err := processPendingEvents(ctx, repo, writer, log)
			if err != nil {
				log.Error("process outbox events failed", zap.Error(err))
				continue
			}
			if result.Sent > 0 || result.Failed > 0 {
				log.Debug("outbox batch done",
					zap.Int("sent", result.Sent),
					zap.Int("failed", result.Failed),
					zap.Int("held", result.Held),
				)
			}
		}
	}
}

type batchResult struct {
	Sent   int
	Failed int
	// Held counts rows skipped because an earlier row with the same
	// partition key failed in this batch.
	Held int
}

// processPendingEvents publishes one batch in order. Once a row fails, later
// rows sharing its partition key wait for the next poll, which keeps a
// user's lifecycle events in order on the topic.
func processPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) (batchResult, error) {
	var result batchResult

	rows, err := repo.ListPending(ctx, outboxBatchSize)
	if err != nil {
		return result, err
	}
	if len(rows) == 0 {
		return result, nil
	}

	blocked := make(map[string]bool)
	for _, event := range rows {
		key := event.PartitionKey
		if blocked[key] {
			result.Held++
			continue
		}

		fields := []zap.Field{
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("partition_key", key),
		}

		if err := writer.WriteMessages(ctx, toMessage(event)); err != nil {
			logger.Error("publish outbox event failed", append(fields, zap.Int("retry_count", event.RetryCount), zap.Error(err))...)
			blocked[key] = true
			result.Failed++
			if err := repo.MarkFailed(ctx, event.ID, err.Error()); err != nil {
				logger.Error("mark outbox failed failed", append(fields, zap.Error(err))...)
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			// Already published. The next poll sends it again and the audit
			// trail records both copies under the same outbox_id.
			logger.Error("mark outbox sent failed", append(fields, zap.Error(err))...)
			blocked[key] = true
			continue
		}

		result.Sent++
		logger.Info("outbox event sent", fields...)
	}

	return result, nil
}
