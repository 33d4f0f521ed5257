package ledger_test

import (
	"context"
	"database/sql"

	"go-leave/internal/domain"
	"go-leave/internal/ledger"

	"github.com/shopspring/decimal"
)

type fakeLedgerRepository struct {
	appendFn        func(ctx context.Context, e *ledger.Entry) error
	listByUserFn    func(ctx context.Context, userID string) ([]ledger.Entry, error)
	netBalanceFn    func(ctx context.Context, userID string, lt domain.LeaveType) (decimal.Decimal, error)
	lockPartitionFn func(ctx context.Context, userID string, lt domain.LeaveType) error
	existsFn        func(ctx context.Context, leaveRequestID string, action ledger.Action) (bool, error)

	boundTx *sql.Tx
	locked  []string
}

func (f *fakeLedgerRepository) WithTx(tx *sql.Tx) ledger.Repository {
	f.boundTx = tx
	return f
}

func (f *fakeLedgerRepository) Append(ctx context.Context, e *ledger.Entry) error {
	if f.appendFn != nil {
		return f.appendFn(ctx, e)
	}
	return nil
}

func (f *fakeLedgerRepository) ListByUser(ctx context.Context, userID string) ([]ledger.Entry, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeLedgerRepository) NetBalance(ctx context.Context, userID string, lt domain.LeaveType) (decimal.Decimal, error) {
	if f.netBalanceFn != nil {
		return f.netBalanceFn(ctx, userID, lt)
	}
	return decimal.Zero, nil
}

func (f *fakeLedgerRepository) LockPartition(ctx context.Context, userID string, lt domain.LeaveType) error {
	f.locked = append(f.locked, userID+":"+string(lt))
	if f.lockPartitionFn != nil {
		return f.lockPartitionFn(ctx, userID, lt)
	}
	return nil
}

func (f *fakeLedgerRepository) ExistsForRequest(ctx context.Context, leaveRequestID string, action ledger.Action) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, leaveRequestID, action)
	}
	return false, nil
}
