package ledger

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/domain"
	"go-leave/internal/events"
	ledgererrors "go-leave/internal/ledger/errors"
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

//go:generate mockgen -source=ledger_service.go -destination=mock/ledger_service_mock.go -package=mock
type Service interface {
	GetBalance(ctx context.Context, userID string) (BalanceResponse, error)
	ListEntries(ctx context.Context, userID string) ([]EntryResponse, error)
	Grant(ctx context.Context, actorID string, req GrantRequest) (EntryResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	outboxRepo kafka.OutboxRepository
	retry      *txretry.Runner
	metrics    *observability.LeaveMetrics
	loc        *time.Location
	balances   balanceFlights
	logger     *zap.Logger
}

type ServiceOptions struct {
	OutboxRepo kafka.OutboxRepository
	Retry      *txretry.Runner
	Metrics    *observability.LeaveMetrics
	Location   *time.Location
}

func NewService(db *sql.DB, repo Repository, opts ServiceOptions, logger ...*zap.Logger) Service {
	l := zap.L().Named("ledger.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.service")
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		db:         db,
		repo:       repo,
		outboxRepo: opts.OutboxRepo,
		retry:      opts.Retry,
		metrics:    opts.Metrics,
		loc:        loc,
		logger:     l,
	}
}

// GetBalance recomputes the report from the ledger on every call. Concurrent
// reads for the same user may share one query that started after all of
// them arrived.
func (s *service) GetBalance(ctx context.Context, userID string) (BalanceResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ledgererrors.ErrInvalidUserID
	}

	report, err := s.balances.do(ctx, userID, func(ctx context.Context) (Report, error) {
		entries, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return Aggregate(entries), nil
	})
	if err != nil {
		s.logger.Error("get balance failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	return mapToBalanceResponse(report), nil
}

func (s *service) ListEntries(ctx context.Context, userID string) ([]EntryResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ledgererrors.ErrInvalidUserID
	}

	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list ledger entries failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := make([]EntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = mapToEntryResponse(e, s.loc)
	}
	return resp, nil
}

func (s *service) Grant(ctx context.Context, actorID string, req GrantRequest) (EntryResponse, error) {
	s.logger.Debug("grant leave balance requested",
		zap.String("actor_id", actorID),
		zap.String("user_id", req.UserID),
		zap.String("leave_type", req.LeaveType),
		zap.String("amount", req.Amount),
	)

	entry, err := buildGrantEntry(actorID, req)
	if err != nil {
		s.logger.Warn("grant leave balance validation failed", zap.Error(err))
		return EntryResponse{}, err
	}

	err = s.retry.Run(ctx, "ledger.grant", func() error {
		return s.appendGrant(ctx, entry)
	})
	if err != nil {
		if !apperror.IsDomain(err) {
			s.logger.Error("grant leave balance failed", zap.String("user_id", req.UserID), zap.Error(err))
		}
		return EntryResponse{}, err
	}

	s.metrics.ObservePosting(string(ActionGrant))
	s.logger.Info("grant leave balance success",
		zap.String("entry_id", entry.ID.String()),
		zap.String("user_id", req.UserID),
		zap.String("leave_type", string(entry.LeaveType)),
	)
	return mapToEntryResponse(*entry, s.loc), nil
}

func (s *service) appendGrant(ctx context.Context, entry *Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	entry.CreatedAt = time.Now().UTC()
	if err := s.repo.WithTx(tx).Append(ctx, entry); err != nil {
		return mapRepositoryError(err)
	}

	if s.outboxRepo != nil {
		ev, err := kafka.NewOutboxEvent(kafka.OutboxMessage{
			RequestID:     contextutil.GetRequestID(ctx),
			AggregateType: events.AggregateLeaveBalance,
			AggregateID:   entry.ID.String(),
			PartitionKey:  entry.UserID.String(),
			EventType:     events.EventBalanceGranted,
			Topic:         events.LeaveLifecycleTopic,
			Payload: events.LeaveLifecycleEvent{
				EventType:  events.EventBalanceGranted,
				UserID:     entry.UserID.String(),
				ActorID:    entry.CreatedBy.String(),
				LeaveType:  string(entry.LeaveType),
				Amount:     entry.Amount.StringFixed(2),
				OccurredAt: entry.CreatedAt,
			},
		})
		if err != nil {
			return err
		}
		if err := s.outboxRepo.WithTx(tx).Create(ctx, ev); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func buildGrantEntry(actorID string, req GrantRequest) (*Entry, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, ledgererrors.ErrInvalidActorID
	}
	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, ledgererrors.ErrInvalidUserID
	}
	leaveType, err := domain.ParseLeaveType(req.LeaveType)
	if err != nil {
		return nil, ledgererrors.ErrInvalidLeaveType
	}
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:        uuid.New(),
		UserID:    userUUID,
		LeaveType: leaveType,
		Amount:    amount,
		Action:    ActionGrant,
		CreatedBy: actorUUID,
	}
	if req.Comment != "" {
		comment := req.Comment
		entry.Comment = &comment
	}
	return entry, nil
}

// ParseAmount accepts non-negative decimals with at most two fractional
// digits that fit numeric(10,2).
func ParseAmount(v string) (decimal.Decimal, error) {
	amount, ok := apperror.ParseAmount(v)
	if !ok {
		return decimal.Decimal{}, ledgererrors.ErrInvalidAmount
	}
	return amount, nil
}

func mapToBalanceResponse(report Report) BalanceResponse {
	resp := make(BalanceResponse, len(report))
	for lt, p := range report {
		resp[lt] = PartitionBalanceResponse{
			Total:     p.Total.StringFixed(2),
			Used:      p.Used.StringFixed(2),
			Remaining: p.Remaining.StringFixed(2),
		}
	}
	return resp
}

func mapToEntryResponse(e Entry, loc *time.Location) EntryResponse {
	resp := EntryResponse{
		ID:        e.ID.String(),
		UserID:    e.UserID.String(),
		LeaveType: string(e.LeaveType),
		Amount:    e.Amount.StringFixed(2),
		Action:    string(e.Action),
		Comment:   e.Comment,
		CreatedBy: e.CreatedBy.String(),
		CreatedAt: datetime.Format(e.CreatedAt, loc),
	}
	if e.LeaveRequestID != nil {
		v := e.LeaveRequestID.String()
		resp.LeaveRequestID = &v
	}
	return resp
}
