package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/store"
	"github.com/jmoiron/sqlx"
)

type txStore struct {
	tx *sqlx.Tx
}

func newTx(tx *sqlx.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open

// Ping is a no-op: the transaction already holds a live connection.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Profiles() store.Profiles     { return &profilesRepo{q: t.tx} }
func (t *txStore) Categories() store.Categories { return &categoriesRepo{q: t.tx} }
func (t *txStore) Transactions(kind domain.Kind) store.Transactions {
	return &transactionsRepo{q: t.tx, kind: kind, table: tableFor(kind)}
}

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx
