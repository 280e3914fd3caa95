package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/domain"
	"github.com/splitledger/splitledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      string(a.Type),
		CreatedAt: a.CreatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts. Count is the page
// size, not the registry size.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Count    int                `json:"count"`
}

// EntryResponse represents a single signed posting in API responses.
type EntryResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		AccountID:     e.AccountID,
		Amount:        e.Amount,
		CreatedAt:     e.CreatedAt,
	}
}

// TransactionResponse represents a transaction with its entries.
type TransactionResponse struct {
	ID                    string           `json:"id"`
	Description           string           `json:"description"`
	GrossCost             decimal.Decimal  `json:"gross_cost"`
	OccurredAt            *time.Time       `json:"occurred_at,omitempty"`
	ReversedTransactionID string           `json:"reversed_transaction_id,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	Entries               []*EntryResponse `json:"entries"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	entries := make([]*EntryResponse, len(t.Entries))
	for i := range t.Entries {
		entries[i] = EntryFromDomain(&t.Entries[i])
	}

	return &TransactionResponse{
		ID:                    t.ID,
		Description:           t.Description,
		GrossCost:             t.GrossCost(),
		OccurredAt:            t.Timestamp,
		ReversedTransactionID: t.ReversedTransactionID,
		CreatedAt:             t.CreatedAt,
		Entries:               entries,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// BalanceResponse represents an account balance.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	At        *time.Time      `json:"at,omitempty"`
}

// StatementLineResponse represents one statement line.
type StatementLineResponse struct {
	EntryID       string          `json:"entry_id"`
	TransactionID string          `json:"transaction_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// StatementResponse represents an account statement: its lines newest
// first plus the account's current balance.
type StatementResponse struct {
	Account *AccountResponse        `json:"account"`
	Lines   []StatementLineResponse `json:"lines"`
	Balance decimal.Decimal         `json:"balance"`
}

// StatementFromUseCase converts a usecase statement to response.
func StatementFromUseCase(s *usecase.Statement) *StatementResponse {
	lines := make([]StatementLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = StatementLineResponse{
			EntryID:       l.EntryID,
			TransactionID: l.TransactionID,
			Description:   l.Description,
			Amount:        l.Amount,
			OccurredAt:    l.OccurredAt,
		}
	}

	return &StatementResponse{
		Account: AccountFromDomain(s.Account),
		Lines:   lines,
		Balance: s.Balance,
	}
}

// ConsistencyResponse represents a ledger consistency report.
type ConsistencyResponse struct {
	Status                   string          `json:"status"`
	Consistent               bool            `json:"consistent"`
	GrandTotal               decimal.Decimal `json:"grand_total"`
	UnbalancedTransactionIDs []string        `json:"unbalanced_transaction_ids,omitempty"`
	CheckedAt                time.Time       `json:"checked_at"`
}

// ConsistencyFromUseCase converts a consistency report to response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport) *ConsistencyResponse {
	status := "consistent"
	if !r.Consistent() {
		status = "inconsistent"
	}

	return &ConsistencyResponse{
		Status:                   status,
		Consistent:               r.Consistent(),
		GrandTotal:               r.GrandTotal,
		UnbalancedTransactionIDs: r.UnbalancedTransactionIDs,
		CheckedAt:                r.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
