package ledger

import (
	"time"

	"go-leave/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Action string

const (
	// ActionGrant is a manual credit.
	ActionGrant Action = "GRANT"
	// ActionRequest is the consumption posted when a request is approved.
	ActionRequest Action = "REQUEST"
	// ActionCancel offsets an earlier REQUEST entry.
	ActionCancel Action = "CANCEL"
)

// Entry is an immutable signed posting against one (user, leave type)
// partition. Positive amounts credit the partition, negative amounts consume.
type Entry struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index:idx_ledger_partition"`
	LeaveType      domain.LeaveType `gorm:"type:varchar(20);not null;index:idx_ledger_partition"`
	Amount         decimal.Decimal  `gorm:"type:numeric(10,2);not null"`
	Action         Action           `gorm:"type:varchar(10);not null"`
	LeaveRequestID *uuid.UUID       `gorm:"type:uuid"`
	Comment        *string          `gorm:"type:text"`
	CreatedBy      uuid.UUID        `gorm:"type:uuid;not null"`
	CreatedAt      time.Time
}

func (Entry) TableName() string {
	return "leave_ledger_entries"
}
