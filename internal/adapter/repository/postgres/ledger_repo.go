package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	grandTotalSQL = `
		SELECT COALESCE(SUM(amount), 0)
		FROM entries`

	unbalancedTransactionIDsSQL = `
		SELECT transaction_id
		FROM entries
		GROUP BY transaction_id
		HAVING SUM(amount) <> 0
		ORDER BY transaction_id
		LIMIT $1`
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	db querier
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepositoryWithDB(pool)
}

func newLedgerRepositoryWithDB(db querier) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// GrandTotal sums every entry in the ledger. Zero on an empty table.
func (r *LedgerRepository) GrandTotal(ctx context.Context) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	if err := r.db.QueryRow(ctx, grandTotalSQL).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// UnbalancedTransactionIDs returns ids of transactions whose entries
// do not sum to zero. The application never writes such rows; a hit
// here means outside interference or corruption.
func (r *LedgerRepository) UnbalancedTransactionIDs(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx, unbalancedTransactionIDsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
