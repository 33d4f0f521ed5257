package leave_test

import (
	"context"
	"database/sql"
	"sort"

	"go-leave/internal/domain"
	"go-leave/internal/leave"
	"go-leave/internal/ledger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memLeaveRepo keeps requests in memory and applies the same conditional
// writes as the gorm repository.
type memLeaveRepo struct {
	leaves       map[string]leave.Leave
	overlapCalls int
}

func newMemLeaveRepo() *memLeaveRepo {
	return &memLeaveRepo{leaves: map[string]leave.Leave{}}
}

func (r *memLeaveRepo) WithTx(tx *sql.Tx) leave.Repository { return r }

func (r *memLeaveRepo) LockUser(ctx context.Context, userID string) error { return nil }

func (r *memLeaveRepo) Create(ctx context.Context, l *leave.Leave) error {
	r.leaves[l.ID.String()] = *l
	return nil
}

func (r *memLeaveRepo) FindByID(ctx context.Context, id string) (*leave.Leave, error) {
	l, ok := r.leaves[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (r *memLeaveRepo) FindByIDForUpdate(ctx context.Context, id string) (*leave.Leave, error) {
	return r.FindByID(ctx, id)
}

func (r *memLeaveRepo) UpdatePending(ctx context.Context, l *leave.Leave) (int64, error) {
	stored, ok := r.leaves[l.ID.String()]
	if !ok || stored.Status != leave.StatusPending {
		return 0, nil
	}
	r.leaves[l.ID.String()] = *l
	return 1, nil
}

func (r *memLeaveRepo) DeletePending(ctx context.Context, id string) (int64, error) {
	stored, ok := r.leaves[id]
	if !ok || stored.Status != leave.StatusPending {
		return 0, nil
	}
	delete(r.leaves, id)
	return 1, nil
}

func (r *memLeaveRepo) MarkDecided(ctx context.Context, id string, d leave.Decision) (int64, error) {
	stored, ok := r.leaves[id]
	if !ok || stored.Status != leave.StatusPending {
		return 0, nil
	}
	approver := d.ApproverID
	decidedAt := d.DecidedAt
	stored.Status = d.To
	stored.ApproverID = &approver
	stored.Comment = d.Comment
	stored.DecidedAt = &decidedAt
	stored.UpdatedAt = decidedAt
	r.leaves[id] = stored
	return 1, nil
}

func (r *memLeaveRepo) HasOverlappingPeriod(ctx context.Context, userID string, period leave.Range, excludeID *string) (bool, error) {
	r.overlapCalls++
	for id, l := range r.leaves {
		if l.UserID.String() != userID || !l.Status.BlocksPeriod() {
			continue
		}
		if excludeID != nil && *excludeID == id {
			continue
		}
		if leave.Overlaps(l.Period(), period) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memLeaveRepo) List(ctx context.Context, f leave.ListFilter) ([]leave.Leave, int64, error) {
	var out []leave.Leave
	for _, l := range r.leaves {
		if f.UserID != nil && l.UserID.String() != *f.UserID {
			continue
		}
		if f.Type != nil && l.Type != *f.Type {
			continue
		}
		if f.Status != nil && l.Status != *f.Status {
			continue
		}
		if f.To != nil && !l.StartDate.Before(*f.To) {
			continue
		}
		if f.From != nil && !l.EndDate.After(*f.From) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })

	total := int64(len(out))
	start := (f.Page - 1) * f.PageSize
	if start > len(out) {
		start = len(out)
	}
	end := start + f.PageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *memLeaveRepo) CountByStatus(ctx context.Context, status leave.Status) (int64, error) {
	var n int64
	for _, l := range r.leaves {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *memLeaveRepo) CountDecidedBy(ctx context.Context, approverID string) (map[leave.Status]int64, error) {
	counts := map[leave.Status]int64{}
	for _, l := range r.leaves {
		if l.ApproverID == nil || l.ApproverID.String() != approverID {
			continue
		}
		if l.Status == leave.StatusApproved || l.Status == leave.StatusRejected {
			counts[l.Status]++
		}
	}
	return counts, nil
}

// memLedgerRepo enforces the one-entry-per-request-action index.
type memLedgerRepo struct {
	entries []ledger.Entry
}

func (r *memLedgerRepo) WithTx(tx *sql.Tx) ledger.Repository { return r }

func (r *memLedgerRepo) Append(ctx context.Context, e *ledger.Entry) error {
	if e.LeaveRequestID != nil {
		for _, existing := range r.entries {
			if existing.LeaveRequestID != nil && *existing.LeaveRequestID == *e.LeaveRequestID && existing.Action == e.Action {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_ledger_request_action"}
			}
		}
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *memLedgerRepo) ListByUser(ctx context.Context, userID string) ([]ledger.Entry, error) {
	var out []ledger.Entry
	for _, e := range r.entries {
		if e.UserID.String() == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) NetBalance(ctx context.Context, userID string, lt domain.LeaveType) (decimal.Decimal, error) {
	net := decimal.Zero
	for _, e := range r.entries {
		if e.UserID.String() == userID && e.LeaveType == lt {
			net = net.Add(e.Amount)
		}
	}
	return net, nil
}

func (r *memLedgerRepo) LockPartition(ctx context.Context, userID string, lt domain.LeaveType) error {
	return nil
}

func (r *memLedgerRepo) ExistsForRequest(ctx context.Context, leaveRequestID string, action ledger.Action) (bool, error) {
	for _, e := range r.entries {
		if e.LeaveRequestID != nil && e.LeaveRequestID.String() == leaveRequestID && e.Action == action {
			return true, nil
		}
	}
	return false, nil
}

func (r *memLedgerRepo) forRequest(id string) []ledger.Entry {
	var out []ledger.Entry
	for _, e := range r.entries {
		if e.LeaveRequestID != nil && e.LeaveRequestID.String() == id {
			out = append(out, e)
		}
	}
	return out
}

type staticApprovers map[string]bool

func (a staticApprovers) IsApprover(ctx context.Context, userID string) (bool, error) {
	return a[userID], nil
}

func (a staticApprovers) CanReadAll(ctx context.Context, userID string) (bool, error) {
	return a[userID], nil
}

type allAttachments struct{}

func (allAttachments) Exists(ctx context.Context, ref string) (bool, error) { return true, nil }

func newUserID() string { return uuid.NewString() }
