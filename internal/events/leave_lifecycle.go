package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	AggregateLeave        = "leave_request"
	AggregateLeaveBalance = "leave_balance"
)

const (
	EventLeaveSubmitted = "leave_submitted"
	EventLeaveEdited    = "leave_edited"
	EventLeaveDeleted   = "leave_deleted"
	EventLeaveApproved  = "leave_approved"
	EventLeaveRejected  = "leave_rejected"
	EventLeaveReversed  = "leave_reversed"
	EventBalanceGranted = "leave_balance_granted"
)

// LeaveLifecycleEvent is published for every state change of a leave request
// and every manual ledger posting. Amount is a signed decimal string for
// ledger postings and the requested amount otherwise.
type LeaveLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	LeaveID    string    `json:"leave_id,omitempty"`
	UserID     string    `json:"user_id"`
	ActorID    string    `json:"actor_id"`
	LeaveType  string    `json:"leave_type"`
	Status     string    `json:"status,omitempty"`
	Amount     string    `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

// IsKnownLeaveEvent reports whether eventType is one this service emits.
func IsKnownLeaveEvent(eventType string) bool {
	switch eventType {
	case EventLeaveSubmitted, EventLeaveEdited, EventLeaveDeleted,
		EventLeaveApproved, EventLeaveRejected, EventLeaveReversed,
		EventBalanceGranted:
		return true
	default:
		return false
	}
}
