package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finwallet/ledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
	retrier *Retrier
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{
		pool:    pool,
		queries: generated.New(pool),
		retrier: NewRetrier(),
	}
}

// CheckConsistency sums all balances and all signed entry amounts.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var balanceTotal, entryTotal pgtype.Numeric

	err := r.retrier.Retry(ctx, func() error {
		var err error
		if balanceTotal, err = r.queries.SumAccountBalances(ctx); err != nil {
			return err
		}
		entryTotal, err = r.queries.SumSignedEntries(ctx)
		return err
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, classifyError(err)
	}

	return numericToDecimal(balanceTotal), numericToDecimal(entryTotal), nil
}

// FindUnbalancedAccounts lists accounts whose balance disagrees with the
// signed sum of their entries. Opposite corruptions on two accounts cancel
// in the global totals, so the per-account comparison is what catches them.
func (r *LedgerRepository) FindUnbalancedAccounts(ctx context.Context, limit int) ([]string, error) {
	var ids []string

	err := r.retrier.Retry(ctx, func() error {
		var err error
		ids, err = r.queries.ListUnbalancedAccounts(ctx, int32(limit))
		return err
	})
	if err != nil {
		return nil, classifyError(err)
	}

	return ids, nil
}
