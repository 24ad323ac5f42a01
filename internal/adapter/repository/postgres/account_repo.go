package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finwallet/ledger/internal/domain"
	"github.com/finwallet/ledger/internal/infrastructure/postgres/generated"
	"github.com/finwallet/ledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:        account.ID,
		OwnerID:   account.OwnerID,
		Currency:  account.Currency,
		Balance:   decimalToNumeric(account.Balance),
		Status:    string(account.Status),
		Version:   account.Version,
		CreatedAt: timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(account.UpdatedAt),
	})

	return classifyError(err)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, classifyError(err)
	}

	return rowToAccount(row), nil
}

// GetByIDsForUpdate retrieves accounts by IDs with FOR UPDATE locks.
// The query orders by ID so the row locks are taken in the same order
// the caller sorted the IDs in.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, uow usecase.UnitOfWork, ids []string) ([]*domain.Account, error) {
	queries := generated.New(uow.(*UnitOfWork).PgxTx())

	rows, err := queries.GetAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, classifyError(err)
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// ApplyDelta adds delta to the balance, guarded so the result cannot drop
// below minBalance. The guard lives in the UPDATE itself: if the condition
// fails no row matches and the balance is untouched.
func (r *AccountRepository) ApplyDelta(ctx context.Context, uow usecase.UnitOfWork, id string, delta, minBalance decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	queries := generated.New(uow.(*UnitOfWork).PgxTx())

	balance, err := queries.ApplyAccountDelta(ctx, generated.ApplyAccountDeltaParams{
		ID:         id,
		Delta:      decimalToNumeric(delta),
		MinBalance: decimalToNumeric(minBalance),
		UpdatedAt:  timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The caller locked and loaded the account already, so a
			// missing row means the balance guard rejected the delta.
			return decimal.Zero, domain.ErrInsufficientFunds
		}

		return decimal.Zero, classifyError(err)
	}

	return numericToDecimal(balance), nil
}

// UpdateStatus updates the lifecycle status of an account.
func (r *AccountRepository) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus, updatedAt time.Time) error {
	err := r.queries.UpdateAccountStatus(ctx, generated.UpdateAccountStatusParams{
		ID:        id,
		Status:    string(status),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})

	return classifyError(err)
}

// ListByOwner lists accounts owned by a user with pagination.
func (r *AccountRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccountsByOwner(ctx, generated.ListAccountsByOwnerParams{
		OwnerID: ownerID,
		Limit:   int32(limit),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, classifyError(err)
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Currency:  row.Currency,
		Balance:   numericToDecimal(row.Balance),
		Status:    domain.AccountStatus(row.Status),
		Version:   row.Version,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func stringToPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
