package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerUseCase audits the whole ledger for double-entry violations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// ConsistencyReport describes the outcome of a ledger-wide audit.
type ConsistencyReport struct {
	CheckedAt                time.Time
	UnbalancedTransactionIDs []string
	GrandTotal               decimal.Decimal
}

// Consistent reports whether the books hold the double-entry
// invariant: every entry summed is zero and no transaction is
// unbalanced on its own.
func (r *ConsistencyReport) Consistent() bool {
	return r.GrandTotal.IsZero() && len(r.UnbalancedTransactionIDs) == 0
}

// CheckConsistency sums the whole ledger and looks for transactions
// whose entries do not cancel out. In a closed double-entry system
// both checks must come back clean.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	grandTotal, err := uc.ledgerRepo.GrandTotal(ctx)
	if err != nil {
		return nil, err
	}

	unbalanced, err := uc.ledgerRepo.UnbalancedTransactionIDs(ctx, UnbalancedReportLimit)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		CheckedAt:                time.Now().UTC(),
		UnbalancedTransactionIDs: unbalanced,
		GrandTotal:               grandTotal,
	}, nil
}
