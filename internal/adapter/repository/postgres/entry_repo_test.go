package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

func TestEntryRepositoryGetBalance(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("SELECT COALESCE").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow("67"))

	repo := newEntryRepositoryWithDB(mockPool)
	balance, err := repo.GetBalance(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.String() != "67" {
		t.Fatalf("balance = %s, want 67", balance)
	}

	assertExpectations(t, mockPool)
}

func TestEntryRepositoryGetBalanceAt(t *testing.T) {
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mockPool := newMockPool(t)
	mockPool.ExpectQuery("SELECT COALESCE").
		WithArgs("alice", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow("-34"))

	repo := newEntryRepositoryWithDB(mockPool)
	balance, err := repo.GetBalanceAt(context.Background(), "alice", at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.String() != "-34" {
		t.Fatalf("balance = %s, want -34", balance)
	}

	assertExpectations(t, mockPool)
}

func TestEntryRepositoryGetByTransaction(t *testing.T) {
	now := time.Now().UTC()

	mockPool := newMockPool(t)
	mockPool.ExpectQuery("FROM entries").
		WithArgs("tx-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "transaction_id", "account_id", "amount", "created_at"}).
			AddRow("e-1", "tx-1", "alice", "100", now).
			AddRow("e-2", "tx-1", "bob", "-33", now).
			AddRow("e-3", "tx-1", "carol", "-67", now))

	repo := newEntryRepositoryWithDB(mockPool)
	entries, err := repo.GetByTransaction(context.Background(), "tx-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if !entries[0].IsCredit() || !entries[1].IsDebit() {
		t.Fatalf("unexpected entry signs: %+v", entries)
	}

	assertExpectations(t, mockPool)
}

func TestEntryRepositoryGetStatement(t *testing.T) {
	now := time.Now().UTC()

	mockPool := newMockPool(t)
	mockPool.ExpectQuery("JOIN transactions").
		WithArgs("alice", 50, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "transaction_id", "description", "amount", "occurred_at"}).
			AddRow("e-9", "tx-3", "cab fare", "-30", now).
			AddRow("e-1", "tx-1", "dinner", "100", now.Add(-time.Hour)))

	repo := newEntryRepositoryWithDB(mockPool)
	lines, err := repo.GetStatement(context.Background(), "alice", 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Description != "cab fare" || lines[0].Amount.String() != "-30" {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if lines[1].EntryID != "e-1" {
		t.Fatalf("unexpected second line: %+v", lines[1])
	}

	assertExpectations(t, mockPool)
}
