package db

import (
	"context"
	"database/sql"
	"fmt"
)

// UnitOfWork runs a callback inside a transaction. The callback gets a DBTX
// backed by the *sql.Tx and builds tx-scoped repositories from it.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// Tx is the commit/rollback half of *sql.Tx.
type Tx interface {
	Commit() error
	Rollback() error
}

// SQLiteUnitOfWork implements UnitOfWork with database/sql transactions.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	return RunTx(ctx, tx, tx, fn)
}

// RunTx drives fn against exec and finishes tx: commit when fn returns nil,
// rollback on error or panic. Hooks registered through AfterCommit and
// OnRollback during fn run once the outcome is known.
func RunTx(ctx context.Context, tx Tx, exec DBTX, fn func(ctx context.Context, tx DBTX) error) error {
	hooks := &txHooks{}
	txCtx := context.WithValue(ctx, txHooksKey{}, hooks)
	hookCtx := context.WithoutCancel(ctx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			hooks.run(hookCtx, hooks.onRollback)
			panic(p)
		}
	}()

	if err := fn(txCtx, exec); err != nil {
		rbErr := tx.Rollback()
		hooks.run(hookCtx, hooks.onRollback)
		if rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		hooks.run(hookCtx, hooks.onRollback)
		return fmt.Errorf("committing transaction: %w", err)
	}
	hooks.run(hookCtx, hooks.afterCommit)
	return nil
}

type txHooksKey struct{}

type txHooks struct {
	afterCommit []func(context.Context)
	onRollback  []func(context.Context)
}

func (h *txHooks) run(ctx context.Context, fns []func(context.Context)) {
	for _, fn := range fns {
		fn(ctx)
	}
}

// AfterCommit schedules fn for after the transaction in ctx commits. Outside
// a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func(context.Context)) {
	if h, ok := ctx.Value(txHooksKey{}).(*txHooks); ok {
		h.afterCommit = append(h.afterCommit, fn)
		return
	}
	fn(ctx)
}

// OnRollback schedules fn for when the transaction in ctx does not commit.
// Outside a transaction it is a no-op.
func OnRollback(ctx context.Context, fn func(context.Context)) {
	if h, ok := ctx.Value(txHooksKey{}).(*txHooks); ok {
		h.onRollback = append(h.onRollback, fn)
	}
}
