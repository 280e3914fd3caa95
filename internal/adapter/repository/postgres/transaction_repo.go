package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitledger/splitledger/internal/domain"
	"github.com/splitledger/splitledger/internal/usecase"
)

const (
	createTransactionSQL = `
		INSERT INTO transactions (id, description, occurred_at, reversed_transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	getTransactionByIDSQL = `
		SELECT id, description, occurred_at, reversed_transaction_id, created_at
		FROM transactions
		WHERE id = $1`

	getReversalSQL = `
		SELECT id, description, occurred_at, reversed_transaction_id, created_at
		FROM transactions
		WHERE reversed_transaction_id = $1`

	listTransactionsByAccountSQL = `
		SELECT DISTINCT t.id, t.description, t.occurred_at, t.reversed_transaction_id, t.created_at
		FROM transactions t
		JOIN entries e ON e.transaction_id = t.id
		WHERE e.account_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2 OFFSET $3`

	getEntriesByTransactionIDsSQL = `
		SELECT id, transaction_id, account_id, amount, created_at
		FROM entries
		WHERE transaction_id = ANY($1)
		ORDER BY created_at, id`
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	db querier
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepositoryWithDB(pool)
}

func newTransactionRepositoryWithDB(db querier) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts the transaction row inside tx. Entries are written
// separately by the entry repository within the same tx.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Tx, transaction *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	var occurredAt pgtype.Timestamptz
	if transaction.Timestamp != nil {
		occurredAt = timeToPgTimestamptz(*transaction.Timestamp)
	}

	var reversedID *string
	if transaction.ReversedTransactionID != "" {
		reversedID = &transaction.ReversedTransactionID
	}

	_, err := pgxTx.Exec(ctx, createTransactionSQL,
		transaction.ID,
		transaction.Description,
		occurredAt,
		reversedID,
		timeToPgTimestamptz(transaction.CreatedAt),
	)

	return err
}

// GetByID retrieves a transaction and its entries.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	transaction, err := scanTransaction(r.db.QueryRow(ctx, getTransactionByIDSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	if err := r.loadEntries(ctx, []*domain.Transaction{transaction}); err != nil {
		return nil, err
	}

	return transaction, nil
}

// GetReversal returns the transaction that reversed transactionID.
func (r *TransactionRepository) GetReversal(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	transaction, err := scanTransaction(r.db.QueryRow(ctx, getReversalSQL, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	if err := r.loadEntries(ctx, []*domain.Transaction{transaction}); err != nil {
		return nil, err
	}

	return transaction, nil
}

// ListByAccount lists transactions with at least one entry against
// accountID, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx, listTransactionsByAccountSQL, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadEntries(ctx, transactions); err != nil {
		return nil, err
	}

	return transactions, nil
}

// loadEntries fetches the entries for all transactions in one query
// and attaches them in insertion order.
func (r *TransactionRepository) loadEntries(ctx context.Context, transactions []*domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	ids := make([]string, 0, len(transactions))
	byID := make(map[string]*domain.Transaction, len(transactions))
	for _, t := range transactions {
		ids = append(ids, t.ID)
		byID[t.ID] = t
	}

	rows, err := r.db.Query(ctx, getEntriesByTransactionIDsSQL, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return err
		}
		if t, ok := byID[entry.TransactionID]; ok {
			t.Entries = append(t.Entries, entry)
		}
	}

	return rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction domain.Transaction
		occurredAt  pgtype.Timestamptz
		reversedID  pgtype.Text
		createdAt   pgtype.Timestamptz
	)

	if err := row.Scan(&transaction.ID, &transaction.Description, &occurredAt, &reversedID, &createdAt); err != nil {
		return nil, err
	}

	if occurredAt.Valid {
		t := occurredAt.Time
		transaction.Timestamp = &t
	}
	if reversedID.Valid {
		transaction.ReversedTransactionID = reversedID.String
	}
	transaction.CreatedAt = createdAt.Time

	return &transaction, nil
}
