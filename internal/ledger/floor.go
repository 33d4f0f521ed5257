package ledger

import (
	"context"

	"go-leave/internal/domain"
	ledgererrors "go-leave/internal/ledger/errors"

	"github.com/shopspring/decimal"
)

// FloorPolicy bounds how far a debit may take a partition's net balance.
type FloorPolicy struct {
	Enabled bool
	Floor   decimal.Decimal
	Exempt  map[domain.LeaveType]bool
}

func (p FloorPolicy) Applies(lt domain.LeaveType) bool {
	return p.Enabled && !p.Exempt[lt]
}

// Check rejects a debit that would move net below the floor.
func (p FloorPolicy) Check(lt domain.LeaveType, net, debit decimal.Decimal) error {
	if !p.Applies(lt) {
		return nil
	}
	if net.Sub(debit).LessThan(p.Floor) {
		return ledgererrors.ErrInsufficientBalance
	}
	return nil
}

// EnforceFloor serializes debits on the partition and checks the policy.
// repo must be bound to the caller's transaction so the lock lasts until the
// debit is committed.
func EnforceFloor(ctx context.Context, repo Repository, policy FloorPolicy, userID string, lt domain.LeaveType, debit decimal.Decimal) error {
	if !policy.Applies(lt) {
		return nil
	}

	if err := repo.LockPartition(ctx, userID, lt); err != nil {
		return err
	}

	net, err := repo.NetBalance(ctx, userID, lt)
	if err != nil {
		return err
	}

	return policy.Check(lt, net, debit)
}
