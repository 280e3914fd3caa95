package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func entryFor(id, txID, accountID, amount string, q Quantizer) Entry {
	return NewEntry(id, txID, accountID, decimal.RequireFromString(amount), q)
}

func TestNewTransaction(t *testing.T) {
	q := NewQuantizer(2)

	tests := []struct {
		name        string
		entries     []Entry
		expectError error
	}{
		{
			name: "balanced pair",
			entries: []Entry{
				entryFor("e1", "tx-1", "acc-1", "50.00", q),
				entryFor("e2", "tx-1", "acc-2", "-50.00", q),
			},
			expectError: nil,
		},
		{
			name: "balanced many legs",
			entries: []Entry{
				entryFor("e1", "tx-1", "acc-1", "100.00", q),
				entryFor("e2", "tx-1", "acc-2", "-33.33", q),
				entryFor("e3", "tx-1", "acc-3", "-33.33", q),
				entryFor("e4", "tx-1", "acc-4", "-33.34", q),
			},
			expectError: nil,
		},
		{
			name:        "no entries",
			entries:     nil,
			expectError: ErrInsufficientEntries,
		},
		{
			name: "single entry",
			entries: []Entry{
				entryFor("e1", "tx-1", "acc-1", "50.00", q),
			},
			expectError: ErrInsufficientEntries,
		},
		{
			name: "foreign entry",
			entries: []Entry{
				entryFor("e1", "tx-1", "acc-1", "50.00", q),
				entryFor("e2", "tx-other", "acc-2", "-50.00", q),
			},
			expectError: ErrEntryOwnershipMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewTransaction("tx-1", tt.entries, "test", nil, q)

			if tt.expectError == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tx == nil {
					t.Fatal("expected transaction, got nil")
				}
				if len(tx.Entries) != len(tt.entries) {
					t.Errorf("expected %d entries, got %d", len(tt.entries), len(tx.Entries))
				}
				return
			}

			if !errors.Is(err, tt.expectError) {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
			if tx != nil {
				t.Error("failed construction must not return a transaction")
			}
		})
	}
}

func TestNewTransaction_Unbalanced(t *testing.T) {
	q := NewQuantizer(2)
	entries := []Entry{
		entryFor("e1", "tx-1", "acc-1", "50.00", q),
		entryFor("e2", "tx-1", "acc-2", "-49.99", q),
	}

	tx, err := NewTransaction("tx-1", entries, "off by a cent", nil, q)
	if tx != nil {
		t.Fatal("unbalanced construction must not return a transaction")
	}

	var unbalanced *UnbalancedTransactionError
	if !errors.As(err, &unbalanced) {
		t.Fatalf("expected UnbalancedTransactionError, got %v", err)
	}

	if want := decimal.RequireFromString("0.01"); !unbalanced.Imbalance.Equal(want) {
		t.Errorf("expected imbalance %s, got %s", want, unbalanced.Imbalance)
	}
	if unbalanced.Description != "off by a cent" {
		t.Errorf("expected description carried, got %q", unbalanced.Description)
	}
}

// The same two legs balance when the ledger keeps whole units only:
// quantization folds the stray cent away before the sum is checked.
func TestNewTransaction_BalancedAtWholeUnits(t *testing.T) {
	q := NewQuantizer(0)
	entries := []Entry{
		entryFor("e1", "tx-1", "acc-1", "50.00", q),
		entryFor("e2", "tx-1", "acc-2", "-49.99", q),
	}

	tx, err := NewTransaction("tx-1", entries, "whole units", nil, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx == nil {
		t.Fatal("expected transaction")
	}
}

func TestNewTransaction_CopiesEntries(t *testing.T) {
	q := NewQuantizer(0)
	entries := []Entry{
		entryFor("e1", "tx-1", "acc-1", "10", q),
		entryFor("e2", "tx-1", "acc-2", "-10", q),
	}

	tx, err := NewTransaction("tx-1", entries, "copy", nil, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries[0].Amount = decimal.NewFromInt(999)

	if !tx.Entries[0].Amount.Equal(decimal.NewFromInt(10)) {
		t.Error("mutating the caller's slice must not affect the transaction")
	}
}

func TestNewTransaction_KeepsTimestamp(t *testing.T) {
	q := NewQuantizer(0)
	occurred := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		entryFor("e1", "tx-1", "acc-1", "10", q),
		entryFor("e2", "tx-1", "acc-2", "-10", q),
	}

	tx, err := NewTransaction("tx-1", entries, "with timestamp", &occurred, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Timestamp == nil || !tx.Timestamp.Equal(occurred) {
		t.Errorf("expected timestamp %v, got %v", occurred, tx.Timestamp)
	}
}

func TestTransaction_GrossCost(t *testing.T) {
	q := NewQuantizer(0)
	entries := []Entry{
		entryFor("e1", "tx-1", "alice", "100", q),
		entryFor("e2", "tx-1", "alice", "-33", q),
		entryFor("e3", "tx-1", "bob", "-33", q),
		entryFor("e4", "tx-1", "carol", "-34", q),
	}

	tx, err := NewTransaction("tx-1", entries, "dinner", nil, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := decimal.NewFromInt(100); !tx.GrossCost().Equal(want) {
		t.Errorf("expected gross cost %s, got %s", want, tx.GrossCost())
	}
}

func TestTransaction_EntriesFor(t *testing.T) {
	q := NewQuantizer(0)
	entries := []Entry{
		entryFor("e1", "tx-1", "alice", "100", q),
		entryFor("e2", "tx-1", "alice", "-33", q),
		entryFor("e3", "tx-1", "bob", "-33", q),
		entryFor("e4", "tx-1", "carol", "-34", q),
	}

	tx, err := NewTransaction("tx-1", entries, "dinner", nil, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alice := tx.EntriesFor("alice")
	if len(alice) != 2 {
		t.Fatalf("expected 2 entries for alice, got %d", len(alice))
	}
	if alice[0].ID != "e1" || alice[1].ID != "e2" {
		t.Error("entries must keep their original order")
	}

	if got := tx.EntriesFor("nobody"); len(got) != 0 {
		t.Errorf("expected no entries for unknown account, got %d", len(got))
	}
}
