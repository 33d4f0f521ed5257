package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestNewOutboxEvent(t *testing.T) {
	payload := events.LeaveLifecycleEvent{EventType: events.EventLeaveSubmitted, LeaveID: "leave-1", UserID: "user-1"}

	event, err := kafka.NewOutboxEvent(kafka.OutboxMessage{
		RequestID:     "rid-1",
		AggregateType: events.AggregateLeave,
		AggregateID:   "leave-1",
		PartitionKey:  "user-1",
		EventType:     events.EventLeaveSubmitted,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, kafka.OutboxStatusPending, event.Status)
	assert.Equal(t, "user-1", event.PartitionKey)

	var decoded events.LeaveLifecycleEvent
	assert.NoError(t, json.Unmarshal(event.Payload, &decoded))
	assert.Equal(t, "leave-1", decoded.LeaveID)
}

func TestNewOutboxEvent_KeyDefaultsToAggregate(t *testing.T) {
	event, err := kafka.NewOutboxEvent(kafka.OutboxMessage{
		AggregateType: events.AggregateLeaveBalance,
		AggregateID:   "entry-1",
		EventType:     events.EventBalanceGranted,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       map[string]string{"a": "b"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "entry-1", event.PartitionKey)
}

func TestNewOutboxEvent_Invalid(t *testing.T) {
	_, err := kafka.NewOutboxEvent(kafka.OutboxMessage{AggregateID: "leave-1", Payload: map[string]string{"a": "b"}})
	assert.EqualError(t, err, "outbox topic is required")

	_, err = kafka.NewOutboxEvent(kafka.OutboxMessage{Topic: events.LeaveLifecycleTopic, Payload: 1})
	assert.EqualError(t, err, "outbox aggregate id is required")

	_, err = kafka.NewOutboxEvent(kafka.OutboxMessage{AggregateID: "x", Topic: "t", Payload: make(chan int)})
	assert.Error(t, err)
}

func TestOutboxRepository_CreateUsesTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO outbox_events`).
		WithArgs("evt-1", "rid-1", events.AggregateLeave, "leave-1", "user-1", events.EventLeaveApproved, events.LeaveLifecycleTopic, []byte(`{}`), kafka.OutboxStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	repo := kafka.NewOutboxRepository(db).WithTx(tx)
	err = repo.Create(context.Background(), kafka.OutboxEvent{
		ID:            "evt-1",
		RequestID:     "rid-1",
		AggregateType: events.AggregateLeave,
		AggregateID:   "leave-1",
		PartitionKey:  "user-1",
		EventType:     events.EventLeaveApproved,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       []byte(`{}`),
		Status:        kafka.OutboxStatusPending,
	})
	assert.NoError(t, err)
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM outbox_events .* ORDER BY created_at ASC, id ASC`).
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "request_id", "aggregate_type", "aggregate_id", "partition_key", "event_type", "topic", "payload", "status", "retry_count", "next_retry_at"}).
			AddRow("evt-1", "rid-1", events.AggregateLeave, "leave-1", "user-1", events.EventLeaveSubmitted, events.LeaveLifecycleTopic, []byte(`{}`), kafka.OutboxStatusPending, 0, now))

	got, err := kafka.NewOutboxRepository(db).ListPending(context.Background(), 50)

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "evt-1", got[0].ID)
	assert.Equal(t, "user-1", got[0].PartitionKey)
	assert.Equal(t, "rid-1", got[0].RequestID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE outbox_events\s+SET\s+status = \$2,\s+retry_count = retry_count \+ 1`).
		WithArgs("evt-1", kafka.OutboxStatusFailed, "broker down").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, kafka.NewOutboxRepository(db).MarkFailed(context.Background(), "evt-1", "broker down"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
