package leave

import (
	"context"
	"database/sql"
	"strings"
	"time"
	"unicode/utf8"

	"go-leave/internal/domain"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/ledger"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/observability"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/datetime"
	"go-leave/internal/shared/txretry"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	minReasonLength = 8
	defaultPageSize = 10
	maxPageSize     = 100
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actorID string, req SubmitLeaveRequest) (LeaveResponse, error)
	Edit(ctx context.Context, actorID, id string, req EditLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, actorID, id string) error
	Approve(ctx context.Context, actorID, id, comment string) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, id, comment string) (LeaveResponse, error)
	Reverse(ctx context.Context, actorID, id, comment string) (LeaveResponse, error)
	GetByID(ctx context.Context, actorID, id string) (LeaveResponse, error)
	List(ctx context.Context, actorID string, q ListLeavesQuery) (ListResult, error)
	ListPendingApprovals(ctx context.Context, actorID string, q ListLeavesQuery) (ListResult, error)
	GetApprovalStats(ctx context.Context, actorID string) (ApprovalStatsResponse, error)
}

type ListResult struct {
	Items    []LeaveResponse
	Total    int64
	Page     int
	PageSize int
}

type ServiceOptions struct {
	OutboxRepo kafka.OutboxRepository
	Floor      ledger.FloorPolicy
	Retry      *txretry.Runner
	Metrics    *observability.LeaveMetrics
	Location   *time.Location
}

type service struct {
	db          *sql.DB
	repo        Repository
	ledgerRepo  ledger.Repository
	approvers   ApproverChecker
	attachments AttachmentChecker
	outboxRepo  kafka.OutboxRepository
	floor       ledger.FloorPolicy
	retry       *txretry.Runner
	metrics     *observability.LeaveMetrics
	loc         *time.Location
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	ledgerRepo ledger.Repository,
	approvers ApproverChecker,
	attachments AttachmentChecker,
	opts ServiceOptions,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		db:          db,
		repo:        repo,
		ledgerRepo:  ledgerRepo,
		approvers:   approvers,
		attachments: attachments,
		outboxRepo:  opts.OutboxRepo,
		floor:       opts.Floor,
		retry:       opts.Retry,
		metrics:     opts.Metrics,
		loc:         loc,
		logger:      l,
	}
}

type draft struct {
	Type           domain.LeaveType
	Period         Range
	Amount         decimal.Decimal
	Reason         string
	AttachmentRefs []string
}

func (s *service) Submit(ctx context.Context, actorID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("actor_id", actorID),
		zap.String("type", req.Type),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	d, err := s.parseDraft(req)
	if err != nil {
		s.logger.Warn("submit leave validation failed", zap.Error(err))
		s.observe(ActionSubmit, err)
		return LeaveResponse{}, err
	}
	if err := s.checkAttachments(ctx, d.AttachmentRefs); err != nil {
		s.observe(ActionSubmit, err)
		return LeaveResponse{}, err
	}

	now := time.Now().UTC()
	l := &Leave{
		ID:             uuid.New(),
		UserID:         actorUUID,
		Type:           d.Type,
		StartDate:      d.Period.Start,
		EndDate:        d.Period.End,
		Amount:         d.Amount,
		Reason:         d.Reason,
		AttachmentRefs: d.AttachmentRefs,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.retry.Run(ctx, "leave.submit", func() error {
		return s.submitTx(ctx, l)
	})
	s.observe(ActionSubmit, err)
	if err != nil {
		s.logFailure("submit leave failed", err, zap.String("user_id", actorID))
		return LeaveResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("user_id", actorID),
	)
	return s.toResponse(*l), nil
}

func (s *service) submitTx(ctx context.Context, l *Leave) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	userID := l.UserID.String()

	if err := qtx.LockUser(ctx, userID); err != nil {
		return err
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, userID, l.Period(), nil)
	if err != nil {
		return err
	}
	if overlap {
		return leaveerrors.ErrLeaveOverlap
	}

	if err := qtx.Create(ctx, l); err != nil {
		return mapRepositoryError(err)
	}
	if err := s.enqueue(ctx, tx, l, events.EventLeaveSubmitted, userID, l.Amount); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) Edit(ctx context.Context, actorID, id string, req EditLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("edit leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	if req.AttachmentRefs != nil {
		if err := s.checkAttachments(ctx, normalizeRefs(*req.AttachmentRefs)); err != nil {
			s.observe(ActionEdit, err)
			return LeaveResponse{}, err
		}
	}

	var l *Leave
	err = s.retry.Run(ctx, "leave.edit", func() error {
		var err error
		l, err = s.editTx(ctx, actorUUID, id, req)
		return err
	})
	s.observe(ActionEdit, err)
	if err != nil {
		s.logFailure("edit leave failed", err, zap.String("leave_id", id))
		return LeaveResponse{}, err
	}

	s.logger.Info("edit leave success", zap.String("leave_id", id))
	return s.toResponse(*l), nil
}

func (s *service) editTx(ctx context.Context, actor uuid.UUID, id string, req EditLeaveRequest) (*Leave, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if l.UserID != actor {
		return nil, leaveerrors.ErrNotOwner
	}
	if _, ok := CanTransition(l.Status, ActionEdit); !ok {
		return nil, leaveerrors.ErrInvalidStatusTransition
	}

	d, err := s.mergeDraft(*l, req)
	if err != nil {
		return nil, err
	}

	userID := l.UserID.String()
	if err := qtx.LockUser(ctx, userID); err != nil {
		return nil, err
	}
	overlap, err := qtx.HasOverlappingPeriod(ctx, userID, d.Period, &id)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, leaveerrors.ErrLeaveOverlap
	}

	l.Type = d.Type
	l.StartDate = d.Period.Start
	l.EndDate = d.Period.End
	l.Amount = d.Amount
	l.Reason = d.Reason
	l.AttachmentRefs = d.AttachmentRefs
	l.UpdatedAt = time.Now().UTC()

	n, err := qtx.UpdatePending(ctx, l)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if n == 0 {
		return nil, leaveerrors.ErrInvalidStatusTransition
	}
	if err := s.enqueue(ctx, tx, l, events.EventLeaveEdited, actor.String(), l.Amount); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	s.logger.Debug("delete leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	err = s.retry.Run(ctx, "leave.delete", func() error {
		return s.deleteTx(ctx, actorUUID, id)
	})
	s.observe(ActionDelete, err)
	if err != nil {
		s.logFailure("delete leave failed", err, zap.String("leave_id", id))
		return err
	}

	s.logger.Info("delete leave success", zap.String("leave_id", id))
	return nil
}

func (s *service) deleteTx(ctx context.Context, actor uuid.UUID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if l.UserID != actor {
		return leaveerrors.ErrNotOwner
	}
	if _, ok := CanTransition(l.Status, ActionDelete); !ok {
		return leaveerrors.ErrInvalidStatusTransition
	}

	n, err := qtx.DeletePending(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if n == 0 {
		return leaveerrors.ErrInvalidStatusTransition
	}
	if err := s.enqueue(ctx, tx, l, events.EventLeaveDeleted, actor.String(), l.Amount); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) Approve(ctx context.Context, actorID, id, comment string) (LeaveResponse, error) {
	return s.decide(ctx, actorID, id, comment, ActionApprove)
}

func (s *service) Reject(ctx context.Context, actorID, id, comment string) (LeaveResponse, error) {
	return s.decide(ctx, actorID, id, comment, ActionReject)
}

func (s *service) decide(ctx context.Context, actorID, id, comment string, action Action) (LeaveResponse, error) {
	s.logger.Debug("decide leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
		zap.String("action", string(action)),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	allowed, err := s.approvers.IsApprover(ctx, actorID)
	if err != nil {
		s.logger.Error("decide leave approver check failed", zap.Error(err))
		s.observe(action, err)
		return LeaveResponse{}, err
	}
	if !allowed {
		s.logger.Warn("decide leave forbidden", zap.String("actor_id", actorID))
		s.observe(action, leaveerrors.ErrNotApprover)
		return LeaveResponse{}, leaveerrors.ErrNotApprover
	}

	var l *Leave
	err = s.retry.Run(ctx, "leave."+string(action), func() error {
		var err error
		l, err = s.decideTx(ctx, actorUUID, id, strings.TrimSpace(comment), action)
		return err
	})
	s.observe(action, err)
	if err != nil {
		s.logFailure("decide leave failed", err,
			zap.String("leave_id", id),
			zap.String("action", string(action)),
		)
		return LeaveResponse{}, err
	}
	if action == ActionApprove {
		s.metrics.ObservePosting(string(ledger.ActionRequest))
	}

	s.logger.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("status", string(l.Status)),
	)
	return s.toResponse(*l), nil
}

func (s *service) decideTx(ctx context.Context, actor uuid.UUID, id, comment string, action Action) (*Leave, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ltx := s.ledgerRepo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	to, ok := CanTransition(l.Status, action)
	if !ok {
		s.logger.Warn("decide leave invalid transition",
			zap.String("leave_id", id),
			zap.String("from_status", string(l.Status)),
			zap.String("action", string(action)),
		)
		return nil, leaveerrors.ErrInvalidStatusTransition
	}

	if action == ActionApprove {
		if err := ledger.EnforceFloor(ctx, ltx, s.floor, l.UserID.String(), l.Type, l.Amount); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	var note *string
	if comment != "" {
		note = &comment
	}

	n, err := qtx.MarkDecided(ctx, id, Decision{To: to, ApproverID: actor, Comment: note, DecidedAt: now})
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if n == 0 {
		return nil, leaveerrors.ErrInvalidStatusTransition
	}

	eventType := events.EventLeaveRejected
	eventAmount := l.Amount
	if action == ActionApprove {
		requestID := l.ID
		entry := &ledger.Entry{
			ID:             uuid.New(),
			UserID:         l.UserID,
			LeaveType:      l.Type,
			Amount:         l.Amount.Neg(),
			Action:         ledger.ActionRequest,
			LeaveRequestID: &requestID,
			CreatedBy:      actor,
			CreatedAt:      now,
		}
		if err := ltx.Append(ctx, entry); err != nil {
			return nil, mapRepositoryError(err)
		}
		eventType = events.EventLeaveApproved
		eventAmount = entry.Amount
	}

	l.Status = to
	l.ApproverID = &actor
	l.Comment = note
	l.DecidedAt = &now
	l.UpdatedAt = now

	if err := s.enqueue(ctx, tx, l, eventType, actor.String(), eventAmount); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reverse offsets the consumption of an approved request with a CANCEL entry.
// The request keeps its APPROVED status.
func (s *service) Reverse(ctx context.Context, actorID, id, comment string) (LeaveResponse, error) {
	s.logger.Debug("reverse leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	var l *Leave
	err = s.retry.Run(ctx, "leave.reverse", func() error {
		var err error
		l, err = s.reverseTx(ctx, actorUUID, id, strings.TrimSpace(comment))
		return err
	})
	s.observe(ActionReverse, err)
	if err != nil {
		s.logFailure("reverse leave failed", err, zap.String("leave_id", id))
		return LeaveResponse{}, err
	}
	s.metrics.ObservePosting(string(ledger.ActionCancel))

	s.logger.Info("reverse leave success", zap.String("leave_id", id))
	return s.toResponse(*l), nil
}

func (s *service) reverseTx(ctx context.Context, actor uuid.UUID, id, comment string) (*Leave, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ltx := s.ledgerRepo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if _, ok := CanTransition(l.Status, ActionReverse); !ok {
		return nil, leaveerrors.ErrInvalidStatusTransition
	}

	reversed, err := ltx.ExistsForRequest(ctx, id, ledger.ActionCancel)
	if err != nil {
		return nil, err
	}
	if reversed {
		return nil, leaveerrors.ErrAlreadyReversed
	}

	requestID := l.ID
	entry := &ledger.Entry{
		ID:             uuid.New(),
		UserID:         l.UserID,
		LeaveType:      l.Type,
		Amount:         l.Amount,
		Action:         ledger.ActionCancel,
		LeaveRequestID: &requestID,
		CreatedBy:      actor,
		CreatedAt:      time.Now().UTC(),
	}
	if comment != "" {
		entry.Comment = &comment
	}
	if err := ltx.Append(ctx, entry); err != nil {
		if ledger.IsDuplicatePosting(err) {
			return nil, leaveerrors.ErrAlreadyReversed
		}
		return nil, err
	}
	if err := s.enqueue(ctx, tx, l, events.EventLeaveReversed, actor.String(), entry.Amount); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) GetByID(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if l.UserID.String() != actorID {
		canReadAll, err := s.approvers.CanReadAll(ctx, actorID)
		if err != nil {
			return LeaveResponse{}, err
		}
		if !canReadAll {
			return LeaveResponse{}, leaveerrors.ErrNotVisible
		}
	}

	return s.toResponse(*l), nil
}

// List shows callers without read-all only their own requests.
func (s *service) List(ctx context.Context, actorID string, q ListLeavesQuery) (ListResult, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return ListResult{}, leaveerrors.ErrInvalidActorID
	}

	filter, err := s.buildFilter(q)
	if err != nil {
		return ListResult{}, err
	}

	canReadAll, err := s.approvers.CanReadAll(ctx, actorID)
	if err != nil {
		s.logger.Error("list leave read-all check failed", zap.Error(err))
		return ListResult{}, err
	}
	if !canReadAll {
		filter.UserID = &actorID
	}

	return s.list(ctx, filter)
}

func (s *service) ListPendingApprovals(ctx context.Context, actorID string, q ListLeavesQuery) (ListResult, error) {
	allowed, err := s.approvers.IsApprover(ctx, actorID)
	if err != nil {
		return ListResult{}, err
	}
	if !allowed {
		return ListResult{}, leaveerrors.ErrNotApprover
	}

	q.Status = ""
	filter, err := s.buildFilter(q)
	if err != nil {
		return ListResult{}, err
	}
	pending := StatusPending
	filter.Status = &pending

	return s.list(ctx, filter)
}

func (s *service) list(ctx context.Context, filter ListFilter) (ListResult, error) {
	leaves, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list leave failed", zap.Error(err))
		return ListResult{}, err
	}

	items := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		items[i] = s.toResponse(l)
	}
	return ListResult{Items: items, Total: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}

// GetApprovalStats counts PENDING globally and decisions made by the caller.
func (s *service) GetApprovalStats(ctx context.Context, actorID string) (ApprovalStatsResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return ApprovalStatsResponse{}, leaveerrors.ErrInvalidActorID
	}

	pending, err := s.repo.CountByStatus(ctx, StatusPending)
	if err != nil {
		s.logger.Error("approval stats pending count failed", zap.Error(err))
		return ApprovalStatsResponse{}, err
	}
	decided, err := s.repo.CountDecidedBy(ctx, actorID)
	if err != nil {
		s.logger.Error("approval stats decided count failed", zap.Error(err))
		return ApprovalStatsResponse{}, err
	}

	approved := decided[StatusApproved]
	rejected := decided[StatusRejected]
	return ApprovalStatsResponse{
		PendingCount:      pending,
		ApprovedByMeCount: approved,
		RejectedByMeCount: rejected,
		DecidedByMeCount:  approved + rejected,
	}, nil
}

func (s *service) parseDraft(req SubmitLeaveRequest) (draft, error) {
	lt, err := parseLeaveType(req.Type)
	if err != nil {
		return draft{}, err
	}
	start, err := s.parseTime(req.StartDate)
	if err != nil {
		return draft{}, err
	}
	end, err := s.parseTime(req.EndDate)
	if err != nil {
		return draft{}, err
	}
	period, err := NewRange(start, end)
	if err != nil {
		return draft{}, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return draft{}, err
	}
	reason, err := parseReason(req.Reason)
	if err != nil {
		return draft{}, err
	}

	return draft{
		Type:           lt,
		Period:         period,
		Amount:         amount,
		Reason:         reason,
		AttachmentRefs: normalizeRefs(req.AttachmentRefs),
	}, nil
}

// mergeDraft overlays the set fields of req on the stored request.
func (s *service) mergeDraft(l Leave, req EditLeaveRequest) (draft, error) {
	d := draft{
		Type:           l.Type,
		Amount:         l.Amount,
		Reason:         l.Reason,
		AttachmentRefs: l.AttachmentRefs,
	}

	var err error
	if req.Type != nil {
		if d.Type, err = parseLeaveType(*req.Type); err != nil {
			return draft{}, err
		}
	}

	start, end := l.StartDate, l.EndDate
	if req.StartDate != nil {
		if start, err = s.parseTime(*req.StartDate); err != nil {
			return draft{}, err
		}
	}
	if req.EndDate != nil {
		if end, err = s.parseTime(*req.EndDate); err != nil {
			return draft{}, err
		}
	}
	if d.Period, err = NewRange(start, end); err != nil {
		return draft{}, err
	}

	if req.Amount != nil {
		if d.Amount, err = parseAmount(*req.Amount); err != nil {
			return draft{}, err
		}
	}
	if req.Reason != nil {
		if d.Reason, err = parseReason(*req.Reason); err != nil {
			return draft{}, err
		}
	}
	if req.AttachmentRefs != nil {
		d.AttachmentRefs = normalizeRefs(*req.AttachmentRefs)
	}

	return d, nil
}

func (s *service) buildFilter(q ListLeavesQuery) (ListFilter, error) {
	filter := ListFilter{Page: q.Page, PageSize: q.PageSize}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	if q.UserID != "" {
		if _, err := uuid.Parse(q.UserID); err != nil {
			return ListFilter{}, leaveerrors.ErrInvalidUserID
		}
		userID := q.UserID
		filter.UserID = &userID
	}
	if q.Type != "" {
		lt, err := parseLeaveType(q.Type)
		if err != nil {
			return ListFilter{}, err
		}
		filter.Type = &lt
	}
	if q.Status != "" {
		st, ok := ParseStatus(q.Status)
		if !ok {
			return ListFilter{}, leaveerrors.ErrInvalidStatus
		}
		filter.Status = &st
	}
	if q.StartDate != "" {
		from, err := s.parseTime(q.StartDate)
		if err != nil {
			return ListFilter{}, err
		}
		filter.From = &from
	}
	if q.EndDate != "" {
		to, err := s.parseTime(q.EndDate)
		if err != nil {
			return ListFilter{}, err
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return ListFilter{}, leaveerrors.ErrInvalidDateRange
	}

	return filter, nil
}

func (s *service) checkAttachments(ctx context.Context, refs []string) error {
	for _, ref := range refs {
		exists, err := s.attachments.Exists(ctx, ref)
		if err != nil {
			s.logger.Error("attachment lookup failed", zap.String("ref", ref), zap.Error(err))
			return err
		}
		if !exists {
			s.logger.Warn("attachment not found", zap.String("ref", ref))
			return leaveerrors.ErrAttachmentNotFound
		}
	}
	return nil
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, l *Leave, eventType, actorID string, amount decimal.Decimal) error {
	if s.outboxRepo == nil {
		return nil
	}

	ev, err := kafka.NewOutboxEvent(kafka.OutboxMessage{
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: events.AggregateLeave,
		AggregateID:   l.ID.String(),
		PartitionKey:  l.UserID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload: events.LeaveLifecycleEvent{
			EventType:  eventType,
			LeaveID:    l.ID.String(),
			UserID:     l.UserID.String(),
			ActorID:    actorID,
			LeaveType:  string(l.Type),
			Status:     string(l.Status),
			Amount:     amount.StringFixed(2),
			OccurredAt: time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	return s.outboxRepo.WithTx(tx).Create(ctx, ev)
}

func (s *service) observe(action Action, err error) {
	switch {
	case err == nil:
		s.metrics.ObserveTransition(string(action), observability.ResultOK)
	case apperror.IsDomain(err):
		s.metrics.ObserveTransition(string(action), observability.ResultRejected)
	default:
		s.metrics.ObserveTransition(string(action), observability.ResultError)
	}
}

func (s *service) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if apperror.IsDomain(err) {
		s.logger.Warn(msg, fields...)
		return
	}
	s.logger.Error(msg, fields...)
}

func (s *service) parseTime(v string) (time.Time, error) {
	t, err := datetime.Parse(v, s.loc)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func parseLeaveType(v string) (domain.LeaveType, error) {
	lt, err := domain.ParseLeaveType(v)
	if err != nil {
		return "", leaveerrors.ErrInvalidLeaveType
	}
	return lt, nil
}

func parseAmount(v string) (decimal.Decimal, error) {
	amount, ok := apperror.ParseAmount(v)
	if !ok {
		return decimal.Decimal{}, leaveerrors.ErrInvalidAmount
	}
	return amount, nil
}

func parseReason(v string) (string, error) {
	reason := strings.TrimSpace(v)
	if utf8.RuneCountInString(reason) < minReasonLength {
		return "", leaveerrors.ErrReasonTooShort
	}
	return reason, nil
}

func normalizeRefs(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref = strings.TrimSpace(ref); ref != "" {
			out = append(out, ref)
		}
	}
	return out
}

func (s *service) toResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:             l.ID.String(),
		UserID:         l.UserID.String(),
		Type:           string(l.Type),
		StartDate:      datetime.Format(l.StartDate, s.loc),
		EndDate:        datetime.Format(l.EndDate, s.loc),
		Amount:         l.Amount.StringFixed(2),
		Reason:         l.Reason,
		AttachmentRefs: []string(l.AttachmentRefs),
		Status:         string(l.Status),
		Comment:        l.Comment,
		CreatedAt:      datetime.Format(l.CreatedAt, s.loc),
		UpdatedAt:      datetime.Format(l.UpdatedAt, s.loc),
	}
	if resp.AttachmentRefs == nil {
		resp.AttachmentRefs = []string{}
	}
	if l.ApproverID != nil {
		v := l.ApproverID.String()
		resp.ApproverID = &v
	}
	if l.DecidedAt != nil {
		v := datetime.Format(*l.DecidedAt, s.loc)
		resp.DecidedAt = &v
	}
	return resp
}
