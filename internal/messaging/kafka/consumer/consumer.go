package consumer

import (
	"context"
	"encoding/json"
	"strings"

	"go-leave/internal/bootstrap"
	"go-leave/internal/events"
	"go-leave/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeLeaveLifecycle records every leave lifecycle event in the audit
// trail. Undecodable messages are committed and skipped.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader MessageReader,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		handleLifecycleMessage(ctx, msg, audit, log)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}
	}
}

func handleLifecycleMessage(ctx context.Context, msg kafkago.Message, audit bootstrap.AuditLogger, log *zap.Logger) {
	var event events.LeaveLifecycleEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode leave lifecycle event failed",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return
	}

	if !events.IsKnownLeaveEvent(event.EventType) {
		log.Warn("unknown leave lifecycle event, skipping",
			zap.String("event_type", event.EventType),
			zap.Int64("offset", msg.Offset),
		)
		return
	}

	ctx = contextutil.WithMetadata(ctx, contextutil.Metadata{
		RequestID: header(msg, "request_id"),
		UserID:    event.ActorID,
	})
	audit.Log(ctx, bootstrap.AuditLog{
		Action:  strings.ToUpper(event.EventType),
		Message: "leave lifecycle event",
		Meta: map[string]any{
			"leave_id":    event.LeaveID,
			"user_id":     event.UserID,
			"actor_id":    event.ActorID,
			"leave_type":  event.LeaveType,
			"status":      event.Status,
			"amount":      event.Amount,
			"occurred_at": event.OccurredAt,
			"offset":      msg.Offset,
			"outbox_id":   header(msg, "outbox_id"),
		},
	})

	log.Info("leave lifecycle event audited",
		zap.String("event_type", event.EventType),
		zap.String("leave_id", event.LeaveID),
	)
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
