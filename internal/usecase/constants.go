package usecase

import "time"

const (
	// DefaultTransferTimeout bounds lock acquisition plus commit for one
	// transfer. Exceeding it fails the transfer instead of blocking.
	DefaultTransferTimeout = 10 * time.Second

	// DefaultBalanceCacheTTL is how long display balances stay cached.
	DefaultBalanceCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long HTTP idempotency responses are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	balanceCacheKeyPrefix = "balance:"
)

func balanceCacheKey(accountID string) string {
	return balanceCacheKeyPrefix + accountID
}
