package leave

type SubmitLeaveRequest struct {
	Type           string   `json:"type" binding:"required"`
	StartDate      string   `json:"start_date" binding:"required,datetime=2006-01-02 15:04:05"`
	EndDate        string   `json:"end_date" binding:"required,datetime=2006-01-02 15:04:05"`
	Amount         string   `json:"amount" binding:"required,leave_amount"`
	Reason         string   `json:"reason" binding:"required,min=8"`
	AttachmentRefs []string `json:"attachment_refs" binding:"omitempty,max=10,dive,required"`
}

// EditLeaveRequest changes only the fields that are set.
type EditLeaveRequest struct {
	Type           *string   `json:"type"`
	StartDate      *string   `json:"start_date" binding:"omitempty,datetime=2006-01-02 15:04:05"`
	EndDate        *string   `json:"end_date" binding:"omitempty,datetime=2006-01-02 15:04:05"`
	Amount         *string   `json:"amount" binding:"omitempty,leave_amount"`
	Reason         *string   `json:"reason" binding:"omitempty,min=8"`
	AttachmentRefs *[]string `json:"attachment_refs" binding:"omitempty,max=10,dive,required"`
}

type DecisionRequest struct {
	Comment string `json:"comment" binding:"max=1000"`
}

type ListLeavesQuery struct {
	Type      string `form:"type"`
	Status    string `form:"status"`
	UserID    string `form:"user_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

type LeaveResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	Type           string   `json:"type"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	Amount         string   `json:"amount"`
	Reason         string   `json:"reason"`
	AttachmentRefs []string `json:"attachment_refs"`
	Status         string   `json:"status"`
	ApproverID     *string  `json:"approver_id,omitempty"`
	Comment        *string  `json:"comment,omitempty"`
	DecidedAt      *string  `json:"decided_at,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

type ApprovalStatsResponse struct {
	PendingCount      int64 `json:"pending_count"`
	ApprovedByMeCount int64 `json:"approved_by_me_count"`
	RejectedByMeCount int64 `json:"rejected_by_me_count"`
	DecidedByMeCount  int64 `json:"decided_by_me_count"`
}

type LeaveTypeResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
