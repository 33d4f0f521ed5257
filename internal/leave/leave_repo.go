package leave

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilter narrows List. From and To bound the period with the same
// half-open intersection used for overlap checks.
type ListFilter struct {
	UserID   *string
	Type     *domain.LeaveType
	Status   *Status
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

type Decision struct {
	To         Status
	ApproverID uuid.UUID
	Comment    *string
	DecidedAt  time.Time
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	LockUser(ctx context.Context, userID string) error
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Leave, error)
	UpdatePending(ctx context.Context, l *Leave) (int64, error)
	DeletePending(ctx context.Context, id string) (int64, error)
	MarkDecided(ctx context.Context, id string, d Decision) (int64, error)
	HasOverlappingPeriod(ctx context.Context, userID string, period Range, excludeID *string) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]Leave, int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
	CountDecidedBy(ctx context.Context, approverID string) (map[Status]int64, error)
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

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

// LockUser serializes submit and edit for one requester until the tx ends.
func (r *repository) LockUser(ctx context.Context, userID string) error {
	return r.conn(ctx).
		Exec(`SELECT pg_advisory_xact_lock(hashtext(?))`, "leave:user:"+userID).
		Error
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.conn(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) UpdatePending(ctx context.Context, l *Leave) (int64, error) {
	res := r.conn(ctx).
		Model(&Leave{}).
		Where("id = ? AND status = ?", l.ID, StatusPending).
		Updates(map[string]any{
			"type":            l.Type,
			"start_date":      l.StartDate,
			"end_date":        l.EndDate,
			"amount":          l.Amount,
			"reason":          l.Reason,
			"attachment_refs": l.AttachmentRefs,
			"updated_at":      l.UpdatedAt,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) DeletePending(ctx context.Context, id string) (int64, error) {
	res := r.conn(ctx).
		Where("status = ?", StatusPending).
		Delete(&Leave{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// MarkDecided moves a PENDING request to d.To. Zero rows affected means the
// request was no longer PENDING.
func (r *repository) MarkDecided(ctx context.Context, id string, d Decision) (int64, error) {
	res := r.conn(ctx).
		Model(&Leave{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":      d.To,
			"approver_id": d.ApproverID,
			"comment":     d.Comment,
			"decided_at":  d.DecidedAt,
			"updated_at":  d.DecidedAt,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, userID string, period Range, excludeID *string) (bool, error) {
	db := r.conn(ctx).
		Model(&Leave{}).
		Where("user_id = ?", userID).
		Where("status NOT IN ?", nonBlockingStatuses).
		Where("start_date < ? AND end_date > ?", period.End, period.Start)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) applyFilter(db *gorm.DB, f ListFilter) *gorm.DB {
	db = db.Model(&Leave{})
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.Type != nil {
		db = db.Where("type = ?", *f.Type)
	}
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.To != nil {
		db = db.Where("start_date < ?", *f.To)
	}
	if f.From != nil {
		db = db.Where("end_date > ?", *f.From)
	}
	return db
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Leave, int64, error) {
	var total int64
	if err := r.applyFilter(r.conn(ctx), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []Leave
	err := r.applyFilter(r.conn(ctx), f).
		Order("updated_at DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&leaves).Error
	return leaves, total, err
}

func (r *repository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Leave{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

type statusCount struct {
	Status Status
	Count  int64
}

func (r *repository) CountDecidedBy(ctx context.Context, approverID string) (map[Status]int64, error) {
	var rows []statusCount
	err := r.conn(ctx).
		Model(&Leave{}).
		Select("status, COUNT(*) AS count").
		Where("approver_id = ?", approverID).
		Where("status IN ?", []Status{StatusApproved, StatusRejected}).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
