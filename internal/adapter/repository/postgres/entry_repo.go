package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finwallet/ledger/internal/domain"
	"github.com/finwallet/ledger/internal/infrastructure/postgres/generated"
	"github.com/finwallet/ledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository. Entries are
// append-only: there is no update or delete path.
type EntryRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
	retrier *Retrier
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{
		pool:    pool,
		queries: generated.New(pool),
		retrier: NewRetrier(),
	}
}

// Append writes entries inside a unit of work.
func (r *EntryRepository) Append(ctx context.Context, uow usecase.UnitOfWork, entries []*domain.Entry) error {
	queries := generated.New(uow.(*UnitOfWork).PgxTx())

	for _, entry := range entries {
		if _, err := queries.CreateEntry(ctx, generated.CreateEntryParams{
			ID:               entry.ID,
			TransactionID:    entry.TransactionID,
			AccountID:        entry.AccountID,
			Direction:        string(entry.Direction),
			Amount:           decimalToNumeric(entry.Amount),
			ResultingBalance: decimalToNumeric(entry.ResultingBalance),
			CreatedAt:        timeToPgTimestamptz(entry.CreatedAt),
		}); err != nil {
			return classifyError(err)
		}
	}

	return nil
}

// GetByTransaction retrieves the entries of a transaction.
func (r *EntryRepository) GetByTransaction(ctx context.Context, transactionID string) ([]*domain.Entry, error) {
	var rows []generated.Entry
	err := r.retrier.Retry(ctx, func() error {
		var err error
		rows, err = r.queries.GetEntriesByTransaction(ctx, transactionID)
		return err
	})
	if err != nil {
		return nil, classifyError(err)
	}

	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

// GetByAccount retrieves entries for an account with pagination.
func (r *EntryRepository) GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	var rows []generated.Entry
	err := r.retrier.Retry(ctx, func() error {
		var err error
		rows, err = r.queries.GetEntriesByAccount(ctx, generated.GetEntriesByAccountParams{
			AccountID: accountID,
			Limit:     int32(limit),
			Offset:    int32(offset),
		})
		return err
	})
	if err != nil {
		return nil, classifyError(err)
	}

	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

func rowToEntry(row generated.Entry) *domain.Entry {
	return &domain.Entry{
		ID:               row.ID,
		TransactionID:    row.TransactionID,
		AccountID:        row.AccountID,
		Direction:        domain.EntryDirection(row.Direction),
		Amount:           numericToDecimal(row.Amount),
		ResultingBalance: numericToDecimal(row.ResultingBalance),
		CreatedAt:        row.CreatedAt.Time,
	}
}
