package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finwallet/ledger/internal/usecase"
)

type pgxPool interface {
	Begin(context.Context) (pgx.Tx, error)
}

// UnitOfWorkManager implements usecase.UnitOfWorkManager on top of
// database transactions. Every unit sets a lock_timeout so transfers
// waiting on contended account rows fail fast instead of queueing
// indefinitely.
type UnitOfWorkManager struct {
	pool        pgxPool
	lockTimeout time.Duration
}

// NewUnitOfWorkManager creates a new UnitOfWorkManager. lockTimeout of 0
// disables the per-transaction lock timeout.
func NewUnitOfWorkManager(pool *pgxpool.Pool, lockTimeout time.Duration) *UnitOfWorkManager {
	return newUnitOfWorkManagerWithPool(pool, lockTimeout)
}

func newUnitOfWorkManagerWithPool(pool pgxPool, lockTimeout time.Duration) *UnitOfWorkManager {
	return &UnitOfWorkManager{pool: pool, lockTimeout: lockTimeout}
}

// Begin starts a new unit of work.
func (m *UnitOfWorkManager) Begin(ctx context.Context) (usecase.UnitOfWork, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, classifyError(err)
	}

	if m.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return nil, classifyError(err)
		}
	}

	return &UnitOfWork{tx: tx}, nil
}

// UnitOfWork wraps a pgx transaction.
type UnitOfWork struct {
	tx pgx.Tx
}

// Commit commits the unit of work.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		return classifyError(err)
	}
	return nil
}

// Rollback rolls back the unit of work.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	return u.tx.Rollback(ctx)
}

// PgxTx returns the underlying pgx.Tx.
func (u *UnitOfWork) PgxTx() pgx.Tx {
	return u.tx
}
