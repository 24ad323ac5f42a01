package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finwallet/ledger/internal/infrastructure/metrics"
)

// BalanceUseCase serves point-in-time balance reads for display. Reads are
// lock-free and may be transactionally stale between commits; the transfer
// engine refreshes the cache after each commit.
type BalanceUseCase struct {
	accountRepo AccountRepository
	cache       Cache
	ttl         time.Duration
	metrics     *metrics.Metrics
}

// NewBalanceUseCase creates a new BalanceUseCase. cache may be nil, in
// which case every read falls through to storage.
func NewBalanceUseCase(accountRepo AccountRepository, cache Cache, ttl time.Duration, m *metrics.Metrics) *BalanceUseCase {
	if ttl == 0 {
		ttl = DefaultBalanceCacheTTL
	}

	return &BalanceUseCase{
		accountRepo: accountRepo,
		cache:       cache,
		ttl:         ttl,
		metrics:     m,
	}
}

// ReadBalance returns the current balance of an account.
func (uc *BalanceUseCase) ReadBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, balanceCacheKey(accountID)); err == nil {
			if balance, parseErr := decimal.NewFromString(cached); parseErr == nil {
				if uc.metrics != nil {
					uc.metrics.BalanceCacheHits.Inc()
				}
				return balance, nil
			}
		}

		if uc.metrics != nil {
			uc.metrics.BalanceCacheMisses.Inc()
		}
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, balanceCacheKey(accountID), account.Balance.String(), uc.ttl)
	}

	return account.Balance, nil
}

// Invalidate drops the cached balance for an account.
func (uc *BalanceUseCase) Invalidate(ctx context.Context, accountID string) error {
	if uc.cache == nil {
		return nil
	}

	return uc.cache.Delete(ctx, balanceCacheKey(accountID))
}
