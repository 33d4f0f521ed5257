package ledger_test

import (
	"context"
	"errors"
	"testing"

	"go-leave/internal/domain"
	"go-leave/internal/ledger"
	ledgererrors "go-leave/internal/ledger/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func defaultFloor() ledger.FloorPolicy {
	return ledger.FloorPolicy{
		Enabled: true,
		Floor:   decimal.Zero,
		Exempt:  map[domain.LeaveType]bool{domain.LeaveTypeSick: true},
	}
}

func TestFloorPolicy_Check(t *testing.T) {
	policy := defaultFloor()
	d := decimal.RequireFromString

	assert.NoError(t, policy.Check(domain.LeaveTypeAnnual, d("10"), d("10")))
	assert.ErrorIs(t, policy.Check(domain.LeaveTypeAnnual, d("10"), d("10.01")), ledgererrors.ErrInsufficientBalance)
	assert.NoError(t, policy.Check(domain.LeaveTypeSick, d("0"), d("5")))

	policy.Enabled = false
	assert.NoError(t, policy.Check(domain.LeaveTypeAnnual, d("0"), d("5")))

	negative := ledger.FloorPolicy{Enabled: true, Floor: d("-2")}
	assert.NoError(t, negative.Check(domain.LeaveTypeAnnual, d("1"), d("3")))
	assert.Error(t, negative.Check(domain.LeaveTypeAnnual, d("1"), d("3.5")))
}

func TestEnforceFloor(t *testing.T) {
	ctx := context.Background()
	userID := "0f4c7b1e-6a7c-4d55-9f8e-2b1d3c4e5f60"

	t.Run("locks partition before reading balance", func(t *testing.T) {
		repo := &fakeLedgerRepository{
			netBalanceFn: func(ctx context.Context, uid string, lt domain.LeaveType) (decimal.Decimal, error) {
				return decimal.NewFromInt(7), nil
			},
		}

		err := ledger.EnforceFloor(ctx, repo, defaultFloor(), userID, domain.LeaveTypeAnnual, decimal.NewFromInt(3))

		assert.NoError(t, err)
		assert.Equal(t, []string{userID + ":ANNUAL"}, repo.locked)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		repo := &fakeLedgerRepository{}

		err := ledger.EnforceFloor(ctx, repo, defaultFloor(), userID, domain.LeaveTypeAnnual, decimal.NewFromInt(1))

		assert.ErrorIs(t, err, ledgererrors.ErrInsufficientBalance)
	})

	t.Run("exempt type skips lock", func(t *testing.T) {
		repo := &fakeLedgerRepository{}

		err := ledger.EnforceFloor(ctx, repo, defaultFloor(), userID, domain.LeaveTypeSick, decimal.NewFromInt(4))

		assert.NoError(t, err)
		assert.Empty(t, repo.locked)
	})

	t.Run("lock error", func(t *testing.T) {
		repo := &fakeLedgerRepository{
			lockPartitionFn: func(ctx context.Context, uid string, lt domain.LeaveType) error {
				return errors.New("lock timeout")
			},
		}

		err := ledger.EnforceFloor(ctx, repo, defaultFloor(), userID, domain.LeaveTypeAnnual, decimal.NewFromInt(1))

		assert.EqualError(t, err, "lock timeout")
	})
}
