package ledger

import "go-leave/internal/domain"

type GrantRequest struct {
	UserID    string `json:"user_id" binding:"required,uuid"`
	LeaveType string `json:"leave_type" binding:"required"`
	Amount    string `json:"amount" binding:"required,leave_amount"`
	Comment   string `json:"comment" binding:"max=500"`
}

type PartitionBalanceResponse struct {
	Total     string `json:"total"`
	Used      string `json:"used"`
	Remaining string `json:"remaining"`
}

// BalanceResponse is keyed by leave type.
type BalanceResponse map[domain.LeaveType]PartitionBalanceResponse

type EntryResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	LeaveType      string  `json:"leave_type"`
	Amount         string  `json:"amount"`
	Action         string  `json:"action"`
	LeaveRequestID *string `json:"leave_request_id,omitempty"`
	Comment        *string `json:"comment,omitempty"`
	CreatedBy      string  `json:"created_by"`
	CreatedAt      string  `json:"created_at"`
}
