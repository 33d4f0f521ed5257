// Package txretry reruns a transactional unit of work when postgres aborts it
// with a serialization failure or a deadlock.
package txretry

import (
	"context"
	"errors"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

type Config struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  20 * time.Millisecond,
		MaxDelay:   500 * time.Millisecond,
	}
}

type Runner struct {
	executor failsafe.Executor[any]
	logger   *zap.Logger
}

func New(cfg Config, logger ...*zap.Logger) *Runner {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}

	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Millisecond
	}
	if cfg.MaxDelay < cfg.BaseDelay {
		cfg.MaxDelay = cfg.BaseDelay
	}

	policy := retrypolicy.NewBuilder[any]().
		WithBackoff(cfg.BaseDelay, cfg.MaxDelay).
		WithMaxRetries(cfg.MaxRetries).
		WithJitterFactor(0.1).
		HandleIf(func(_ any, err error) bool {
			return IsRetryable(err)
		}).
		Build()

	return &Runner{
		executor: failsafe.With[any](policy),
		logger:   l.Named("txretry"),
	}
}

// Run calls fn until it succeeds, fails with a non-retryable error, or the
// retry budget is spent. fn must open and close its own transaction. A nil
// Runner calls fn once.
func (r *Runner) Run(ctx context.Context, op string, fn func() error) error {
	if r == nil {
		return fn()
	}

	attempt := 0
	return r.executor.WithContext(ctx).Run(func() error {
		attempt++
		if attempt > 1 {
			r.logger.Warn("retrying transaction",
				zap.String("op", op),
				zap.Int("attempt", attempt),
			)
		}
		return fn()
	})
}

// IsRetryable reports whether err carries a pg serialization or deadlock code.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected
}
