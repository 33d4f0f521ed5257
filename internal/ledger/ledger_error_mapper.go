package ledger

import (
	"errors"

	ledgererrors "go-leave/internal/ledger/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueRequestActionIndex = "uq_ledger_request_action"

// IsDuplicatePosting reports a violation of the one-entry-per-request-action
// index.
func IsDuplicatePosting(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == uniqueRequestActionIndex
	}
	return false
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if IsDuplicatePosting(err) {
		return ledgererrors.ErrDuplicatePosting.WithCause(err)
	}
	return err
}
