package leave

import "strings"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

type Action string

const (
	ActionSubmit  Action = "submit"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionReverse Action = "reverse"
)

// transitions maps (from, action) to the resulting status. Submit has no
// source state and delete has no target, so those two are handled by
// CanTransition directly. Reverse only posts a ledger offset.
var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionEdit:    StatusPending,
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
	},
	StatusApproved: {
		ActionReverse: StatusApproved,
	},
}

// CanTransition reports the status an action leads to from the given state.
// Deletion is allowed only from PENDING and yields the empty status.
func CanTransition(from Status, action Action) (Status, bool) {
	switch action {
	case ActionSubmit:
		return StatusPending, from == ""
	case ActionDelete:
		return "", from == StatusPending
	}
	to, ok := transitions[from][action]
	return to, ok
}

// BlocksPeriod reports whether a request in this state still holds its dates
// against new requests.
func (s Status) BlocksPeriod() bool {
	return s != StatusRejected && s != StatusCancelled
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

// nonBlockingStatuses feeds the overlap query and must agree with BlocksPeriod.
var nonBlockingStatuses = []Status{StatusRejected, StatusCancelled}
