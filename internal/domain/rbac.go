package domain

// Permission resources and actions checked by the leave service.
const (
	ResourceLeave        = "leave"
	ResourceLeaveBalance = "leave_balance"

	ActionApprove = "approve"
	ActionReadAll = "read_all"
	ActionReverse = "reverse"
	ActionGrant   = "grant"
	ActionRead    = "read"
)

// EnforceRequest asks whether UserID may perform Action on Resource. An
// empty UserID means the caller.
type EnforceRequest struct {
	UserID   string `json:"user_id"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type CallerPermissions struct {
	UserID   string `json:"user_id"`
	Approver bool   `json:"approver"`
	ReadAll  bool   `json:"read_all"`
}
