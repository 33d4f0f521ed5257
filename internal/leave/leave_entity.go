package leave

import (
	"time"

	"go-leave/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Leave struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_user_dates"`

	Type           domain.LeaveType `gorm:"column:type;type:varchar(20);not null"`
	StartDate      time.Time        `gorm:"type:timestamptz;not null;index:idx_leave_requests_user_dates"`
	EndDate        time.Time        `gorm:"type:timestamptz;not null;index:idx_leave_requests_user_dates"`
	Amount         decimal.Decimal  `gorm:"type:numeric(10,2);not null"`
	Reason         string           `gorm:"type:text;not null"`
	AttachmentRefs pq.StringArray   `gorm:"type:text[]"`

	Status     Status     `gorm:"type:varchar(20);not null;index:idx_leave_requests_status"`
	ApproverID *uuid.UUID `gorm:"type:uuid;index:idx_leave_requests_approver"`
	Comment    *string    `gorm:"type:text"`
	DecidedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Leave) TableName() string {
	return "leave_requests"
}

func (l Leave) Period() Range {
	return Range{Start: l.StartDate, End: l.EndDate}
}
