package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// BalanceCacheTTL is how long derived balances are cached
	BalanceCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyInFlight marks an idempotency key whose first request
	// is still being processed. It is stored instead of a response so
	// concurrent retries are told apart from completed ones.
	IdempotencyInFlight = "processing"

	// UnbalancedReportLimit caps how many offending transaction IDs a
	// consistency report carries.
	UnbalancedReportLimit = 100
)

// balanceCacheKey builds the cache key for an account's derived
// balance. Writers and readers must agree on it so invalidation works.
func balanceCacheKey(accountID string) string {
	return "balance:" + accountID
}
