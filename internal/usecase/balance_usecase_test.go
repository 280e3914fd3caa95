package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/splitledger/splitledger/internal/domain"
	"github.com/splitledger/splitledger/internal/usecase"
	"github.com/splitledger/splitledger/internal/usecase/mocks"
)

type balanceMocks struct {
	accountRepo *mocks.MockAccountRepository
	entryRepo   *mocks.MockEntryRepository
	cache       *mocks.MockCache
	metrics     *mocks.MockMetricsRecorder
}

func newBalanceMocks(ctrl *gomock.Controller) *balanceMocks {
	return &balanceMocks{
		accountRepo: mocks.NewMockAccountRepository(ctrl),
		entryRepo:   mocks.NewMockEntryRepository(ctrl),
		cache:       mocks.NewMockCache(ctrl),
		metrics:     mocks.NewMockMetricsRecorder(ctrl),
	}
}

func (m *balanceMocks) useCase() *usecase.BalanceUseCase {
	return usecase.NewBalanceUseCase(m.accountRepo, m.entryRepo, m.cache, m.metrics)
}

func TestBalanceUseCase_GetBalance_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBalanceMocks(ctrl)

	m.accountRepo.EXPECT().GetByID(gomock.Any(), "alice").
		Return(&domain.Account{ID: "alice"}, nil)
	m.cache.EXPECT().Get(gomock.Any(), "balance:alice").
		Return([]byte("67"), nil)
	m.metrics.EXPECT().BalanceCacheHit()

	balance, err := m.useCase().GetBalance(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.String() != "67" {
		t.Fatalf("balance = %s, want 67", balance)
	}
}

func TestBalanceUseCase_GetBalance_CacheMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBalanceMocks(ctrl)

	m.accountRepo.EXPECT().GetByID(gomock.Any(), "alice").
		Return(&domain.Account{ID: "alice"}, nil)
	m.cache.EXPECT().Get(gomock.Any(), "balance:alice").
		Return(nil, usecase.ErrCacheMiss)
	m.metrics.EXPECT().BalanceCacheMiss()
	m.entryRepo.EXPECT().GetBalance(gomock.Any(), "alice").
		Return(decimal.NewFromInt(-34), nil)
	m.cache.EXPECT().Set(gomock.Any(), "balance:alice", []byte("-34"), usecase.BalanceCacheTTL).
		Return(nil)

	balance, err := m.useCase().GetBalance(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.String() != "-34" {
		t.Fatalf("balance = %s, want -34", balance)
	}
}

func TestBalanceUseCase_GetBalance_CorruptCacheFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBalanceMocks(ctrl)

	m.accountRepo.EXPECT().GetByID(gomock.Any(), "alice").
		Return(&domain.Account{ID: "alice"}, nil)
	m.cache.EXPECT().Get(gomock.Any(), "balance:alice").
		Return([]byte("not-a-number"), nil)
	m.metrics.EXPECT().BalanceCacheMiss()
	m.entryRepo.EXPECT().GetBalance(gomock.Any(), "alice").
		Return(decimal.Zero, nil)
	m.cache.EXPECT().Set(gomock.Any(), "balance:alice", gomock.Any(), usecase.BalanceCacheTTL).
		Return(nil)

	balance, err := m.useCase().GetBalance(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("balance = %s, want 0", balance)
	}
}

func TestBalanceUseCase_GetBalance_UnknownAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBalanceMocks(ctrl)

	m.accountRepo.EXPECT().GetByID(gomock.Any(), "ghost").
		Return(nil, domain.ErrAccountNotFound)

	_, err := m.useCase().GetBalance(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestBalanceUseCase_GetBalanceAt(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBalanceMocks(ctrl)

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	m.accountRepo.EXPECT().GetByID(gomock.Any(), "alice").
		Return(&domain.Account{ID: "alice"}, nil)
	m.entryRepo.EXPECT().GetBalanceAt(gomock.Any(), "alice", at).
		Return(decimal.NewFromInt(42), nil)

	balance, err := m.useCase().GetBalanceAt(context.Background(), "alice", at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.String() != "42" {
		t.Fatalf("balance = %s, want 42", balance)
	}
}

func TestBalanceUseCase_GetStatement(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBalanceMocks(ctrl)

	account := &domain.Account{ID: "alice", Name: "Alice", Type: domain.AccountTypeAsset}
	lines := []domain.StatementLine{
		{EntryID: "e-2", TransactionID: "tx-2", Description: "cab fare", Amount: decimal.NewFromInt(-30)},
		{EntryID: "e-1", TransactionID: "tx-1", Description: "dinner", Amount: decimal.NewFromInt(100)},
	}

	// GetStatement re-checks the account through GetBalance.
	m.accountRepo.EXPECT().GetByID(gomock.Any(), "alice").
		Return(account, nil).Times(2)
	m.entryRepo.EXPECT().GetStatement(gomock.Any(), "alice", 50, 0).
		Return(lines, nil)
	m.cache.EXPECT().Get(gomock.Any(), "balance:alice").
		Return([]byte("70"), nil)
	m.metrics.EXPECT().BalanceCacheHit()

	statement, err := m.useCase().GetStatement(context.Background(), usecase.GetStatementInput{AccountID: "alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if statement.Account.ID != "alice" {
		t.Fatalf("account = %q", statement.Account.ID)
	}
	if len(statement.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(statement.Lines))
	}
	if statement.Balance.String() != "70" {
		t.Fatalf("balance = %s, want 70", statement.Balance)
	}
}

func TestBalanceUseCase_GetStatement_UnknownAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBalanceMocks(ctrl)

	m.accountRepo.EXPECT().GetByID(gomock.Any(), "ghost").
		Return(nil, domain.ErrAccountNotFound)

	_, err := m.useCase().GetStatement(context.Background(), usecase.GetStatementInput{AccountID: "ghost"})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
