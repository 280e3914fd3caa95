package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is a single signed posting against an account: positive
// amounts are credits, negative amounts are debits. Entries are value
// objects and never change once built.
type Entry struct {
	CreatedAt     time.Time
	ID            string
	TransactionID string
	AccountID     string
	Amount        decimal.Decimal
}

// NewEntry builds an entry with amount quantized by q. This is the one
// place quantization is applied; everything downstream trusts the
// stored amount.
func NewEntry(id, transactionID, accountID string, amount decimal.Decimal, q Quantizer) Entry {
	return Entry{
		ID:            id,
		TransactionID: transactionID,
		AccountID:     accountID,
		Amount:        q.Quantize(amount),
	}
}

// IsCredit reports whether the entry adds value to its account.
func (e *Entry) IsCredit() bool {
	return e.Amount.IsPositive()
}

// IsDebit reports whether the entry removes value from its account.
func (e *Entry) IsDebit() bool {
	return e.Amount.IsNegative()
}
