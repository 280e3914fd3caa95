package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// GetReversal returns the reversal transaction pointing at
	// transactionID, or domain.ErrTransactionNotFound if none exists.
	GetReversal(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
}

// EntryRepository defines data access for entries.
type EntryRepository interface {
	CreateBatch(ctx context.Context, tx Tx, entries []domain.Entry) error
	GetByTransaction(ctx context.Context, transactionID string) ([]domain.Entry, error)
	GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Entry, error)
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	GetBalanceAt(ctx context.Context, accountID string, at time.Time) (decimal.Decimal, error)
	GetStatement(ctx context.Context, accountID string, limit, offset int) ([]domain.StatementLine, error)
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	// GrandTotal sums every entry in the ledger.
	GrandTotal(ctx context.Context) (decimal.Decimal, error)
	// UnbalancedTransactionIDs returns ids of transactions whose
	// entries do not sum to zero, up to limit.
	UnbalancedTransactionIDs(ctx context.Context, limit int) ([]string, error)
}

// Tx represents a database transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles database transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// OutboxRepository stores domain events inside the same database
// transaction as the state change they describe.
type OutboxRepository interface {
	Create(ctx context.Context, tx Tx, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	// DeletePublished prunes events already published before the given
	// time. The outbox is a buffer, not an event store.
	DeletePublished(ctx context.Context, before time.Time) error
}

// IDGenerator produces unique identifiers for accounts, transactions
// and entries.
type IDGenerator interface {
	Generate() string
}

// MetricsRecorder counts business-level events.
type MetricsRecorder interface {
	AccountCreated()
	ExpenseRecorded(legs int, grossCost float64)
	ExpenseReversed()
	UnbalancedRejected()
	BalanceCacheHit()
	BalanceCacheMiss()
}
