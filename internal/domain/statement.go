package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementLine is one row of an account statement: an entry joined
// with the description of the transaction that produced it. OccurredAt
// is the transaction's own timestamp when it has one, otherwise the
// time it was recorded.
type StatementLine struct {
	OccurredAt    time.Time
	TransactionID string
	EntryID       string
	Description   string
	Amount        decimal.Decimal
}
