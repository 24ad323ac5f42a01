package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finwallet/ledger/internal/domain"
	"github.com/finwallet/ledger/internal/usecase"
	"github.com/finwallet/ledger/internal/usecase/mocks"
)

func TestBalanceUseCase_ReadBalance_CacheHit(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	cache := mocks.NewMockCache()

	accountRepo.GetByIDFunc = func(ctx context.Context, id string) (*domain.Account, error) {
		t.Error("storage must not be hit on a cache hit")
		return nil, domain.ErrAccountNotFound
	}
	_ = cache.Set(context.Background(), "balance:acc-1", "42.50", 0)

	uc := usecase.NewBalanceUseCase(accountRepo, cache, 0, nil)

	balance, err := uc.ReadBalance(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("42.50")) {
		t.Errorf("expected 42.50, got %s", balance)
	}
}

func TestBalanceUseCase_ReadBalance_CacheMissFallsThrough(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	cache := mocks.NewMockCache()

	accountRepo.Seed(&domain.Account{
		ID:      "acc-1",
		Balance: decimal.RequireFromString("99.90"),
		Status:  domain.AccountStatusActive,
	})

	uc := usecase.NewBalanceUseCase(accountRepo, cache, 0, nil)

	balance, err := uc.ReadBalance(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("99.90")) {
		t.Errorf("expected 99.90, got %s", balance)
	}

	// The read-through populated the cache.
	cached, err := cache.Get(context.Background(), "balance:acc-1")
	if err != nil {
		t.Fatalf("expected populated cache: %v", err)
	}
	if !decimal.RequireFromString(cached).Equal(decimal.RequireFromString("99.90")) {
		t.Errorf("expected cached 99.90, got %s", cached)
	}
}

func TestBalanceUseCase_ReadBalance_CorruptCacheValueIgnored(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	cache := mocks.NewMockCache()

	accountRepo.Seed(&domain.Account{
		ID:      "acc-1",
		Balance: decimal.RequireFromString("10.00"),
		Status:  domain.AccountStatusActive,
	})
	_ = cache.Set(context.Background(), "balance:acc-1", "not-a-number", 0)

	uc := usecase.NewBalanceUseCase(accountRepo, cache, 0, nil)

	balance, err := uc.ReadBalance(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("expected fallback to storage balance 10.00, got %s", balance)
	}
}

func TestBalanceUseCase_ReadBalance_UnknownAccount(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()

	uc := usecase.NewBalanceUseCase(accountRepo, nil, 0, nil)

	_, err := uc.ReadBalance(context.Background(), "acc-missing")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestBalanceUseCase_Invalidate(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	cache := mocks.NewMockCache()
	_ = cache.Set(context.Background(), "balance:acc-1", "5.00", 0)

	uc := usecase.NewBalanceUseCase(accountRepo, cache, 0, nil)

	if err := uc.Invalidate(context.Background(), "acc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cache.Get(context.Background(), "balance:acc-1"); err == nil {
		t.Error("expected cache entry to be gone")
	}
}
