package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/adapter/http/dto"
	"github.com/splitledger/splitledger/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	GetBalanceAt(ctx context.Context, accountID string, at time.Time) (decimal.Decimal, error)
	GetStatement(ctx context.Context, input usecase.GetStatementInput) (*usecase.Statement, error)
}

// BalanceHandler handles balance and statement HTTP requests.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// GetBalance returns an account's derived balance. An optional ?at=
// RFC 3339 parameter returns the balance as of that instant.
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	at, err := parseTimeQuery(r, "at")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid at parameter", err.Error())
		return
	}

	var balance decimal.Decimal
	if at != nil {
		balance, err = h.balanceUC.GetBalanceAt(r.Context(), id, *at)
	} else {
		balance, err = h.balanceUC.GetBalance(r.Context(), id)
	}
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountID: id,
		Balance:   balance,
		At:        at,
	})
}

// GetStatement returns an account's entry history with running
// context: transaction descriptions plus the current balance.
func (h *BalanceHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	statement, err := h.balanceUC.GetStatement(r.Context(), usecase.GetStatementInput{
		AccountID: id,
		Limit:     parseIntQuery(r, "limit", 50),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromUseCase(statement))
}
