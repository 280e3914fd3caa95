package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/domain"
)

// BalanceUseCase derives account balances and statements from entries.
// Balances are never stored on the account row; they are summed on
// demand and cached.
type BalanceUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	cache       Cache
	metrics     MetricsRecorder
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(accountRepo AccountRepository, entryRepo EntryRepository, cache Cache, metrics MetricsRecorder) *BalanceUseCase {
	return &BalanceUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		cache:       cache,
		metrics:     metrics,
	}
}

// GetBalance returns the current balance of an account: the sum of all
// its entry amounts. A cached value is used when present; any cache
// failure falls through to the database.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}

	key := balanceCacheKey(accountID)

	// Any cache failure, not just ErrCacheMiss, degrades to the
	// database read below.
	if cached, err := uc.cache.Get(ctx, key); err == nil {
		if balance, perr := decimal.NewFromString(string(cached)); perr == nil {
			uc.metrics.BalanceCacheHit()
			return balance, nil
		}
	}

	uc.metrics.BalanceCacheMiss()

	balance, err := uc.entryRepo.GetBalance(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	_ = uc.cache.Set(ctx, key, []byte(balance.String()), BalanceCacheTTL)

	return balance, nil
}

// GetBalanceAt returns the balance as of a point in time, summing only
// entries recorded at or before it. Historical balances are not cached.
func (uc *BalanceUseCase) GetBalanceAt(ctx context.Context, accountID string, at time.Time) (decimal.Decimal, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}

	return uc.entryRepo.GetBalanceAt(ctx, accountID, at)
}

// GetStatementInput represents input for building a statement.
type GetStatementInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// Statement is an account's entry history alongside its current
// balance.
type Statement struct {
	Account *domain.Account
	Lines   []domain.StatementLine
	Balance decimal.Decimal
}

// GetStatement lists an account's entries newest first, joined with
// their transaction descriptions.
func (uc *BalanceUseCase) GetStatement(ctx context.Context, input GetStatementInput) (*Statement, error) {
	account, err := uc.accountRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	lines, err := uc.entryRepo.GetStatement(ctx, input.AccountID, limit, offset)
	if err != nil {
		return nil, err
	}

	balance, err := uc.GetBalance(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	return &Statement{
		Account: account,
		Lines:   lines,
		Balance: balance,
	}, nil
}
