package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finwallet/ledger/internal/domain"
	"github.com/finwallet/ledger/internal/infrastructure/postgres/generated"
	"github.com/finwallet/ledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. Reads
// outside a unit of work go through the retrier; writes run inside a
// transfer's transaction and must surface aborts to the caller instead.
type TransactionRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
	retrier *Retrier
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		pool:    pool,
		queries: generated.New(pool),
		retrier: NewRetrier(),
	}
}

func newTransactionRepositoryWithDB(db generated.DBTX, retrier *Retrier) *TransactionRepository {
	return &TransactionRepository{
		queries: generated.New(db),
		retrier: retrier,
	}
}

// Create inserts a transaction inside a unit of work. A second insert
// with the same (source account, idempotency key) where the first is not
// failed returns domain.ErrDuplicateIdempotency.
func (r *TransactionRepository) Create(ctx context.Context, uow usecase.UnitOfWork, txn *domain.Transaction) error {
	queries := generated.New(uow.(*UnitOfWork).PgxTx())

	_, err := queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:                    txn.ID,
		SourceAccountID:       txn.SourceAccountID,
		DestinationAccountID:  txn.DestinationAccountID,
		Amount:                decimalToNumeric(txn.Amount),
		Currency:              txn.Currency,
		Status:                string(txn.Status),
		IdempotencyKey:        stringToPgText(txn.IdempotencyKey),
		ReversedTransactionID: ptrToPgText(txn.ReversedTransactionID),
		CreatedAt:             timeToPgTimestamptz(txn.CreatedAt),
		CompletedAt:           ptrToPgTimestamptz(txn.CompletedAt),
	})

	return classifyError(err)
}

// MarkCompleted transitions a pending transaction to completed.
func (r *TransactionRepository) MarkCompleted(ctx context.Context, uow usecase.UnitOfWork, id string, completedAt time.Time) error {
	queries := generated.New(uow.(*UnitOfWork).PgxTx())

	err := queries.MarkTransactionCompleted(ctx, generated.MarkTransactionCompletedParams{
		ID:          id,
		CompletedAt: timeToPgTimestamptz(completedAt),
	})

	return classifyError(err)
}

// MarkReversed transitions a completed transaction to reversed and links
// it to the compensating transaction.
func (r *TransactionRepository) MarkReversed(ctx context.Context, uow usecase.UnitOfWork, id, reversalID string) error {
	queries := generated.New(uow.(*UnitOfWork).PgxTx())

	err := queries.MarkTransactionReversed(ctx, generated.MarkTransactionReversedParams{
		ID:                    id,
		ReversedTransactionID: stringToPgText(reversalID),
	})

	return classifyError(err)
}

// RecordFailed upserts a failed transaction row on its own connection,
// outside any unit of work, so the record survives the rollback of the
// transfer that produced it.
func (r *TransactionRepository) RecordFailed(ctx context.Context, txn *domain.Transaction) error {
	err := r.queries.UpsertFailedTransaction(ctx, generated.UpsertFailedTransactionParams{
		ID:                    txn.ID,
		SourceAccountID:       txn.SourceAccountID,
		DestinationAccountID:  txn.DestinationAccountID,
		Amount:                decimalToNumeric(txn.Amount),
		Currency:              txn.Currency,
		IdempotencyKey:        stringToPgText(txn.IdempotencyKey),
		ReversedTransactionID: ptrToPgText(txn.ReversedTransactionID),
		CreatedAt:             timeToPgTimestamptz(txn.CreatedAt),
		CompletedAt:           ptrToPgTimestamptz(txn.CompletedAt),
	})

	return classifyError(err)
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var row generated.Transaction
	err := r.retrier.Retry(ctx, func() error {
		var err error
		row, err = r.queries.GetTransactionByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, classifyError(err)
	}

	return rowToTransaction(row), nil
}

// GetByIdempotencyKey retrieves the non-failed transaction created with
// the given key on the given source account.
func (r *TransactionRepository) GetByIdempotencyKey(ctx context.Context, sourceAccountID, key string) (*domain.Transaction, error) {
	var row generated.Transaction
	err := r.retrier.Retry(ctx, func() error {
		var err error
		row, err = r.queries.GetTransactionByIdempotencyKey(ctx, generated.GetTransactionByIdempotencyKeyParams{
			SourceAccountID: sourceAccountID,
			IdempotencyKey:  stringToPgText(key),
		})
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, classifyError(err)
	}

	return rowToTransaction(row), nil
}

// ListByAccount lists transactions touching an account, newest first.
// Paging is keyset-based on the ID: IDs are ULIDs, so ordering by ID is
// ordering by creation time, and the cursor stays stable as new rows
// keep arriving at the top.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID, cursor string, limit int) ([]*domain.Transaction, error) {
	var rows []generated.Transaction

	err := r.retrier.Retry(ctx, func() error {
		var err error
		if cursor == "" {
			rows, err = r.queries.ListTransactionsByAccount(ctx, generated.ListTransactionsByAccountParams{
				AccountID: accountID,
				Limit:     int32(limit),
			})
		} else {
			rows, err = r.queries.ListTransactionsByAccountBefore(ctx, generated.ListTransactionsByAccountBeforeParams{
				AccountID: accountID,
				Cursor:    cursor,
				Limit:     int32(limit),
			})
		}
		return err
	})
	if err != nil {
		return nil, classifyError(err)
	}

	txns := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, rowToTransaction(row))
	}

	return txns, nil
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	txn := &domain.Transaction{
		ID:                   row.ID,
		SourceAccountID:      row.SourceAccountID,
		DestinationAccountID: row.DestinationAccountID,
		Amount:               numericToDecimal(row.Amount),
		Currency:             row.Currency,
		Status:               domain.TransactionStatus(row.Status),
		CreatedAt:            row.CreatedAt.Time,
	}

	if row.IdempotencyKey.Valid {
		txn.IdempotencyKey = row.IdempotencyKey.String
	}

	if row.ReversedTransactionID.Valid {
		id := row.ReversedTransactionID.String
		txn.ReversedTransactionID = &id
	}

	if row.CompletedAt.Valid {
		t := row.CompletedAt.Time
		txn.CompletedAt = &t
	}

	return txn
}

func ptrToPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func ptrToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}
