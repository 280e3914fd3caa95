package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"

	"github.com/splitledger/splitledger/internal/domain"
)

func TestOutboxRepositoryCreate(t *testing.T) {
	event := &domain.OutboxEvent{
		ID:            "evt-1",
		AggregateID:   "tx-1",
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeExpenseRecorded,
		Payload: domain.ExpenseRecordedEvent{
			TransactionID: "tx-1",
			Description:   "dinner",
			GrossCost:     "100",
			EntryCount:    4,
			AccountIDs:    []string{"alice", "bob", "carol"},
		},
		CreatedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO outbox_events").
		WithArgs("evt-1", "tx-1", domain.AggregateTypeTransaction, domain.EventTypeExpenseRecorded,
			payload, pgxmock.AnyArg(), false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	manager := newTxManagerWithPool(mockPool)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	repo := newOutboxRepositoryWithDB(mockPool)
	if err := repo.Create(context.Background(), tx, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestOutboxRepositoryGetUnpublished(t *testing.T) {
	now := time.Now().UTC()
	payload := []byte(`{"transaction_id":"tx-1","description":"dinner","gross_cost":"100","entry_count":4,"account_ids":["alice","bob"]}`)

	mockPool := newMockPool(t)
	mockPool.ExpectQuery("FROM outbox_events").
		WithArgs(100).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published_at", "published",
		}).AddRow("evt-1", "tx-1", "transaction", "expense.recorded", payload, now, nil, false))

	repo := newOutboxRepositoryWithDB(mockPool)
	events, err := repo.GetUnpublished(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.ID != "evt-1" || event.EventType != domain.EventTypeExpenseRecorded {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Published || event.PublishedAt != nil {
		t.Fatalf("event should be unpublished: %+v", event)
	}
	if event.Payload == nil {
		t.Fatal("expected decoded payload")
	}

	assertExpectations(t, mockPool)
}

func TestOutboxRepositoryMarkPublished(t *testing.T) {
	publishedAt := time.Now().UTC()

	mockPool := newMockPool(t)
	mockPool.ExpectExec("UPDATE outbox_events").
		WithArgs("evt-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := newOutboxRepositoryWithDB(mockPool)
	if err := repo.MarkPublished(context.Background(), "evt-1", publishedAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestOutboxRepositoryDeletePublished(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectExec("DELETE FROM outbox_events").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	repo := newOutboxRepositoryWithDB(mockPool)
	if err := repo.DeletePublished(context.Background(), time.Now().Add(-24*time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}
