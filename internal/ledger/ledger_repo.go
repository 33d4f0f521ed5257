package ledger

import (
	"context"
	"database/sql"

	"go-leave/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository is append-only. There is no update or delete.
//
//go:generate mockgen -source=ledger_repo.go -destination=mock/ledger_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Append(ctx context.Context, e *Entry) error
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
	NetBalance(ctx context.Context, userID string, leaveType domain.LeaveType) (decimal.Decimal, error)
	LockPartition(ctx context.Context, userID string, leaveType domain.LeaveType) error
	ExistsForRequest(ctx context.Context, leaveRequestID string, action Action) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn routes the statement through the bound transaction, if any.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Append(ctx context.Context, e *Entry) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Entry, error) {
	var entries []Entry
	err := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) NetBalance(ctx context.Context, userID string, leaveType domain.LeaveType) (decimal.Decimal, error) {
	var net decimal.Decimal
	err := r.conn(ctx).
		Raw(`SELECT COALESCE(SUM(amount), 0) FROM leave_ledger_entries WHERE user_id = ? AND leave_type = ?`, userID, leaveType).
		Row().
		Scan(&net)
	return net, err
}

// LockPartition takes a transaction-scoped advisory lock on the partition.
func (r *repository) LockPartition(ctx context.Context, userID string, leaveType domain.LeaveType) error {
	return r.conn(ctx).
		Exec(`SELECT pg_advisory_xact_lock(hashtext(?))`, "ledger:"+userID+":"+string(leaveType)).
		Error
}

func (r *repository) ExistsForRequest(ctx context.Context, leaveRequestID string, action Action) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Entry{}).
		Where("leave_request_id = ?", leaveRequestID).
		Where("action = ?", action).
		Count(&count).Error
	return count > 0, err
}
