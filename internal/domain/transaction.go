package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a balanced set of entries describing one economic
// event. It exists only in a valid state: NewTransaction checks every
// invariant up front and returns no partial value on failure.
type Transaction struct {
	CreatedAt time.Time
	Timestamp *time.Time
	ID        string
	// ReversedTransactionID is set on reversal transactions and points
	// at the transaction whose entries were negated.
	ReversedTransactionID string
	Description           string
	Entries               []Entry
}

// NewTransaction validates entries as a single unit: at least two
// entries, quantized amounts summing exactly to zero, and every entry
// referencing id as its owning transaction. The entries slice is
// copied so later mutation of the caller's slice cannot unbalance the
// transaction.
func NewTransaction(id string, entries []Entry, description string, timestamp *time.Time, q Quantizer) (*Transaction, error) {
	if len(entries) < 2 {
		return nil, ErrInsufficientEntries
	}

	sum := decimal.Zero
	for i := range entries {
		if entries[i].TransactionID != id {
			return nil, ErrEntryOwnershipMismatch
		}
		sum = sum.Add(q.Quantize(entries[i].Amount))
	}

	if !sum.IsZero() {
		return nil, &UnbalancedTransactionError{Imbalance: sum, Description: description}
	}

	owned := make([]Entry, len(entries))
	copy(owned, entries)

	return &Transaction{
		ID:          id,
		Entries:     owned,
		Description: description,
		Timestamp:   timestamp,
	}, nil
}

// GrossCost returns the sum of the positive amounts: the economic size
// of the event regardless of how many accounts share it.
func (t *Transaction) GrossCost() decimal.Decimal {
	total := decimal.Zero
	for i := range t.Entries {
		if t.Entries[i].Amount.IsPositive() {
			total = total.Add(t.Entries[i].Amount)
		}
	}
	return total
}

// EntriesFor returns the entries posted against accountID, in order.
func (t *Transaction) EntriesFor(accountID string) []Entry {
	var matched []Entry
	for i := range t.Entries {
		if t.Entries[i].AccountID == accountID {
			matched = append(matched, t.Entries[i])
		}
	}
	return matched
}
