package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finwallet/ledger/internal/domain"
	"github.com/finwallet/ledger/internal/infrastructure/metrics"
)

// AccountUseCase handles account lifecycle. Accounts are created with a
// zero balance; only the transfer engine mutates balances afterwards.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator, m *metrics.Metrics) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
		metrics:     m,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	OwnerID  string
	Currency string
}

// CreateAccount creates a new active account with balance 0.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		OwnerID:   input.OwnerID,
		Currency:  strings.ToUpper(strings.TrimSpace(input.Currency)),
		Balance:   decimal.Zero,
		Status:    domain.AccountStatusActive,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsByOwner lists accounts owned by a user.
func (uc *AccountUseCase) ListAccountsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.accountRepo.ListByOwner(ctx, ownerID, limit, offset)
}

// SetStatus transitions an account between active, frozen and closed.
// Accounts are never deleted once they carry entries; closing is the
// terminal transition and requires an empty balance.
func (uc *AccountUseCase) SetStatus(ctx context.Context, id string, status domain.AccountStatus) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == domain.AccountStatusClosed && !account.CanClose() {
		return nil, domain.ErrAccountNotEmpty
	}

	now := time.Now().UTC()
	if err := uc.accountRepo.UpdateStatus(ctx, id, status, now); err != nil {
		return nil, err
	}

	account.Status = status
	account.UpdatedAt = now

	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("status_" + string(status)).Inc()
	}

	return account, nil
}
