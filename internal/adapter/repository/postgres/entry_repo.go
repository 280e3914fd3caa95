package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/domain"
	"github.com/splitledger/splitledger/internal/usecase"
)

const (
	createEntrySQL = `
		INSERT INTO entries (id, transaction_id, account_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	getEntriesByTransactionSQL = `
		SELECT id, transaction_id, account_id, amount, created_at
		FROM entries
		WHERE transaction_id = $1
		ORDER BY created_at, id`

	getEntriesByAccountSQL = `
		SELECT id, transaction_id, account_id, amount, created_at
		FROM entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	getBalanceSQL = `
		SELECT COALESCE(SUM(amount), 0)
		FROM entries
		WHERE account_id = $1`

	getBalanceAtSQL = `
		SELECT COALESCE(SUM(amount), 0)
		FROM entries
		WHERE account_id = $1 AND created_at <= $2`

	getStatementSQL = `
		SELECT e.id, e.transaction_id, t.description, e.amount, COALESCE(t.occurred_at, e.created_at)
		FROM entries e
		JOIN transactions t ON t.id = e.transaction_id
		WHERE e.account_id = $1
		ORDER BY COALESCE(t.occurred_at, e.created_at) DESC, e.id DESC
		LIMIT $2 OFFSET $3`
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	db querier
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return newEntryRepositoryWithDB(pool)
}

func newEntryRepositoryWithDB(db querier) *EntryRepository {
	return &EntryRepository{db: db}
}

// CreateBatch inserts all entries inside tx using a single round trip.
func (r *EntryRepository) CreateBatch(ctx context.Context, tx usecase.Tx, entries []domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	batch := &pgx.Batch{}
	for i := range entries {
		batch.Queue(createEntrySQL,
			entries[i].ID,
			entries[i].TransactionID,
			entries[i].AccountID,
			decimalToNumeric(entries[i].Amount),
			timeToPgTimestamptz(entries[i].CreatedAt),
		)
	}

	results := pgxTx.SendBatch(ctx, batch)
	for range entries {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}

	return results.Close()
}

// GetByTransaction lists the entries of one transaction in insertion
// order.
func (r *EntryRepository) GetByTransaction(ctx context.Context, transactionID string) ([]domain.Entry, error) {
	rows, err := r.db.Query(ctx, getEntriesByTransactionSQL, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetByAccount lists entries against an account, newest first.
func (r *EntryRepository) GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Entry, error) {
	rows, err := r.db.Query(ctx, getEntriesByAccountSQL, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetBalance sums every entry amount for an account.
func (r *EntryRepository) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	if err := r.db.QueryRow(ctx, getBalanceSQL, accountID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// GetBalanceAt sums entries recorded at or before the given time.
func (r *EntryRepository) GetBalanceAt(ctx context.Context, accountID string, at time.Time) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	if err := r.db.QueryRow(ctx, getBalanceAtSQL, accountID, timeToPgTimestamptz(at)).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// GetStatement joins entries with their transaction descriptions,
// newest first. Transactions backdated via occurred_at sort by that
// timestamp rather than insertion time.
func (r *EntryRepository) GetStatement(ctx context.Context, accountID string, limit, offset int) ([]domain.StatementLine, error) {
	rows, err := r.db.Query(ctx, getStatementSQL, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]domain.StatementLine, 0)
	for rows.Next() {
		var (
			line       domain.StatementLine
			amount     pgtype.Numeric
			occurredAt pgtype.Timestamptz
		)
		if err := rows.Scan(&line.EntryID, &line.TransactionID, &line.Description, &amount, &occurredAt); err != nil {
			return nil, err
		}
		line.Amount = numericToDecimal(amount)
		line.OccurredAt = occurredAt.Time
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

func collectEntries(rows pgx.Rows) ([]domain.Entry, error) {
	entries := make([]domain.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (domain.Entry, error) {
	var (
		entry     domain.Entry
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&entry.ID, &entry.TransactionID, &entry.AccountID, &amount, &createdAt); err != nil {
		return domain.Entry{}, err
	}

	entry.Amount = numericToDecimal(amount)
	entry.CreatedAt = createdAt.Time

	return entry, nil
}
