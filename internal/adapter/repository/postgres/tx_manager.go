package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitledger/splitledger/internal/usecase"
)

// beginner is the slice of pgxpool.Pool the manager needs; pgxmock
// satisfies it in tests.
type beginner interface {
	Begin(context.Context) (pgx.Tx, error)
}

// TxManager hands out database transactions to the use-case layer. An
// expense write puts the transaction row, its entries, and the outbox
// event inside one of these, so they commit or vanish together.
type TxManager struct {
	pool beginner
}

var _ usecase.TransactionManager = (*TxManager)(nil)

// NewTxManager creates a new TxManager.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return newTxManagerWithPool(pool)
}

func newTxManagerWithPool(pool beginner) *TxManager {
	return &TxManager{pool: pool}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Tx, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &Tx{tx: tx}, nil
}

// Tx adapts pgx.Tx to usecase.Tx.
type Tx struct {
	tx pgx.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction. Rolling back after a commit
// returns pgx.ErrTxClosed, which deferred cleanups ignore.
func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// PgxTx exposes the underlying pgx.Tx to repositories writing inside
// the transaction.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}
