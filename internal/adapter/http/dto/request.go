package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/domain"
	"github.com/splitledger/splitledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name: r.Name,
		Type: domain.AccountType(r.Type),
	}
}

// RecordExpenseRequest represents a request to record a shared
// expense. Weights is optional; when present the cost is split
// proportionally, otherwise equally.
type RecordExpenseRequest struct {
	Description    string                     `json:"description"`
	Cost           decimal.Decimal            `json:"cost"`
	PayerIDs       []string                   `json:"payer_ids"`
	ParticipantIDs []string                   `json:"participant_ids"`
	Weights        map[string]decimal.Decimal `json:"weights,omitempty"`
	OccurredAt     *time.Time                 `json:"occurred_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordExpenseRequest) ToUseCaseInput() usecase.RecordExpenseInput {
	return usecase.RecordExpenseInput{
		Description:    r.Description,
		Cost:           r.Cost,
		PayerIDs:       r.PayerIDs,
		ParticipantIDs: r.ParticipantIDs,
		Weights:        r.Weights,
		Timestamp:      r.OccurredAt,
	}
}
