package db_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/gentyx/clienthub/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertClient(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO clients (id, name, created_at, updated_at) VALUES (?, ?, 'x', 'x')`, id, "Client "+id)
	return err
}

func clientExists(t *testing.T, database *sql.DB, id string) bool {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM clients WHERE id = ?`, id).Scan(&n))
	return n > 0
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertClient(ctx, tx, "c1")
	})
	require.NoError(t, err)
	assert.True(t, clientExists(t, database, "c1"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertClient(ctx, tx, "c2"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")
	assert.False(t, clientExists(t, database, "c2"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertClient(ctx, tx, "c3")
			panic("boom")
		})
	})
	assert.False(t, clientExists(t, database, "c3"))
}

func TestWithinTx_AfterCommitRunsOnlyOnCommit(t *testing.T) {
	database, uow := openUoW(t)
	var committed []string

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		db.AfterCommit(ctx, func(context.Context) {
			committed = append(committed, "c4")
		})
		return insertClient(ctx, tx, "c4")
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c4"}, committed)
	assert.True(t, clientExists(t, database, "c4"))

	err = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		db.AfterCommit(ctx, func(context.Context) {
			committed = append(committed, "c5")
		})
		return errors.New("abort")
	})
	require.Error(t, err)
	assert.Equal(t, []string{"c4"}, committed)
}

func TestWithinTx_OnRollbackRunsOnErrorAndPanic(t *testing.T) {
	_, uow := openUoW(t)
	rollbacks := 0
	register := func(ctx context.Context) {
		db.OnRollback(ctx, func(context.Context) { rollbacks++ })
	}

	require.NoError(t, uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		register(ctx)
		return nil
	}))
	assert.Equal(t, 0, rollbacks)

	require.Error(t, uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		register(ctx)
		return errors.New("abort")
	}))
	assert.Equal(t, 1, rollbacks)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			register(ctx)
			panic("boom")
		})
	})
	assert.Equal(t, 2, rollbacks)
}

func TestHooks_OutsideTransaction(t *testing.T) {
	ran := false
	db.AfterCommit(context.Background(), func(context.Context) { ran = true })
	assert.True(t, ran, "AfterCommit outside a transaction runs immediately")

	db.OnRollback(context.Background(), func(context.Context) {
		t.Fatal("OnRollback outside a transaction must not run")
	})
}
