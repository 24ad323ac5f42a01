package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/finwallet/ledger/internal/domain"
)

// PostgreSQL error codes handled by the adapter.
const (
	pgErrLockNotAvailable     = "55P03"
	pgErrQueryCanceled        = "57014"
	pgErrUniqueViolation      = "23505"
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
)

const idempotencyIndexName = "transactions_source_idempotency_key_idx"

// classifyError maps driver errors onto the domain error taxonomy so
// usecases never see pgconn types.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrStorageTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrLockNotAvailable:
			return domain.ErrLockTimeout
		case pgErrQueryCanceled:
			return domain.ErrStorageTimeout
		case pgErrUniqueViolation:
			if pgErr.ConstraintName == idempotencyIndexName {
				return domain.ErrDuplicateIdempotency
			}
		}
	}

	return err
}
