package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finwallet/ledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, uow UnitOfWork, ids []string) ([]*domain.Account, error)
	// ApplyDelta atomically adds delta to the account balance, failing with
	// domain.ErrInsufficientFunds if the result would drop below minBalance.
	// It returns the new balance. Only called inside a unit of work.
	ApplyDelta(ctx context.Context, uow UnitOfWork, id string, delta, minBalance decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	UpdateStatus(ctx context.Context, id string, status domain.AccountStatus, updatedAt time.Time) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for transfer transactions.
type TransactionRepository interface {
	Create(ctx context.Context, uow UnitOfWork, txn *domain.Transaction) error
	MarkCompleted(ctx context.Context, uow UnitOfWork, id string, completedAt time.Time) error
	MarkReversed(ctx context.Context, uow UnitOfWork, id, reversalID string) error
	// RecordFailed writes a failed transaction row outside any unit of work.
	// Best effort: the caller ignores its error.
	RecordFailed(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIdempotencyKey(ctx context.Context, sourceAccountID, key string) (*domain.Transaction, error)
	// ListByAccount returns transactions touching the account, newest first.
	// cursor is the ID of the last transaction from the previous page; empty
	// starts from the top.
	ListByAccount(ctx context.Context, accountID, cursor string, limit int) ([]*domain.Transaction, error)
}

// EntryRepository defines append-only access to the double-entry log.
type EntryRepository interface {
	Append(ctx context.Context, uow UnitOfWork, entries []*domain.Entry) error
	GetByTransaction(ctx context.Context, transactionID string) ([]*domain.Entry, error)
	GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
}

// LedgerRepository defines ledger-wide operations.
type LedgerRepository interface {
	// CheckConsistency returns the sum of all account balances and the sum
	// of all signed entry amounts. Both are zero in a balanced closed ledger.
	CheckConsistency(ctx context.Context) (balanceTotal, entryTotal decimal.Decimal, err error)

	// FindUnbalancedAccounts returns IDs of accounts whose recorded balance
	// differs from the signed sum of their entries, up to limit.
	FindUnbalancedAccounts(ctx context.Context, limit int) ([]string, error)
}

// UserRepository defines data access for account owners.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, uow UnitOfWork, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	GetByResource(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// UnitOfWork represents one atomic set of writes: either all of them take
// effect on Commit or none do.
type UnitOfWork interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWorkManager opens units of work.
type UnitOfWorkManager interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for display-only reads.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage for the HTTP layer.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
