package domain

import "time"

// Event types
const (
	EventTypeExpenseRecorded = "expense.recorded"
	EventTypeExpenseReversed = "expense.reversed"
	EventTypeAccountCreated  = "account.created"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeAccount     = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// ExpenseRecordedEvent payload
type ExpenseRecordedEvent struct {
	TransactionID string   `json:"transaction_id"`
	Description   string   `json:"description"`
	GrossCost     string   `json:"gross_cost"`
	EntryCount    int      `json:"entry_count"`
	AccountIDs    []string `json:"account_ids"`
}

// ExpenseReversedEvent payload
type ExpenseReversedEvent struct {
	ReversalTransactionID string `json:"reversal_transaction_id"`
	OriginalTransactionID string `json:"original_transaction_id"`
	GrossCost             string `json:"gross_cost"`
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
}
