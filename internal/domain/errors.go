package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidAccountType = errors.New("invalid account type")

	// Transaction errors
	ErrInsufficientEntries        = errors.New("transaction requires at least two entries")
	ErrEntryOwnershipMismatch     = errors.New("entry does not reference its owning transaction")
	ErrTransactionNotFound        = errors.New("transaction not found")
	ErrInvalidAmount              = errors.New("amount must be positive")
	ErrTransactionAlreadyReversed = errors.New("transaction already reversed")
	ErrTransactionIsReversal      = errors.New("cannot reverse a reversal transaction")

	// Splitter errors
	ErrEmptyGroup     = errors.New("split group must not be empty")
	ErrInvalidWeights = errors.New("split weights must sum to a positive value")
)

// UnbalancedTransactionError reports a transaction whose quantized
// entry amounts do not sum to zero. Imbalance carries the exact
// leftover so callers can see how far off the books would have been.
type UnbalancedTransactionError struct {
	Imbalance   decimal.Decimal
	Description string
}

func (e *UnbalancedTransactionError) Error() string {
	return fmt.Sprintf("unbalanced transaction %q: entries sum to %s, want 0", e.Description, e.Imbalance)
}
