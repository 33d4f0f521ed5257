package app

import (
	"context"
	"testing"

	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRunners_RequireKafkaBroker(t *testing.T) {
	cfg := &Config{}

	assert.EqualError(t, RunWorker(context.Background(), cfg, zap.NewNop()), "KAFKA_BROKER is required")
	assert.EqualError(t, RunConsumer(context.Background(), cfg, zap.NewNop()), "KAFKA_BROKER is required")
}

func TestLifecycleReaderConfig(t *testing.T) {
	rc := lifecycleReaderConfig("broker:9092")

	assert.Equal(t, []string{"broker:9092"}, rc.Brokers)
	assert.Equal(t, events.LeaveLifecycleTopic, rc.Topic)
	assert.Equal(t, auditConsumerGroup, rc.GroupID)
	assert.Equal(t, kafkago.FirstOffset, rc.StartOffset)
}
