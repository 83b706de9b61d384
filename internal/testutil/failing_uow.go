package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/gentyx/clienthub/internal/db"
)

// FailOnNthExecUoW is a UnitOfWork whose Nth write (counting from 1) inside
// the transaction returns Err. Reads pass through, and commit/rollback hooks
// fire exactly as with db.SQLiteUnitOfWork.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	if u.Err == nil {
		return fmt.Errorf("FailOnNthExecUoW: Err must be set")
	}
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	return db.RunTx(ctx, tx, &failOnNthExec{DBTX: tx, failOn: u.FailOn, err: u.Err}, fn)
}

type failOnNthExec struct {
	db.DBTX
	writes atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.writes.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
