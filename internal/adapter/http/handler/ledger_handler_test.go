package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/adapter/http/dto"
	"github.com/splitledger/splitledger/internal/usecase"
)

type ledgerServiceStub struct {
	checkFn func(ctx context.Context) (*usecase.ConsistencyReport, error)
}

func (s *ledgerServiceStub) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return s.checkFn(ctx)
}

func TestLedgerHandler_CheckConsistency_Clean(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		checkFn: func(ctx context.Context) (*usecase.ConsistencyReport, error) {
			return &usecase.ConsistencyReport{
				CheckedAt:  time.Now().UTC(),
				GrandTotal: decimal.Zero,
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	handler.CheckConsistency(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Consistent || resp.Status != "consistent" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLedgerHandler_CheckConsistency_Broken(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		checkFn: func(ctx context.Context) (*usecase.ConsistencyReport, error) {
			return &usecase.ConsistencyReport{
				CheckedAt:                time.Now().UTC(),
				GrandTotal:               decimal.RequireFromString("0.01"),
				UnbalancedTransactionIDs: []string{"tx-9"},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	handler.CheckConsistency(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Consistent || len(resp.UnbalancedTransactionIDs) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLedgerHandler_CheckConsistency_Error(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		checkFn: func(ctx context.Context) (*usecase.ConsistencyReport, error) {
			return nil, errors.New("db down")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	handler.CheckConsistency(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
