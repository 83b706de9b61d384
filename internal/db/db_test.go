package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN_AppendsConnectionPragmas(t *testing.T) {
	assert.Equal(t, "app.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dsn("app.db"))
	assert.Equal(t, "file:app.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dsn("file:app.db?mode=rwc"))
}

// Pragmas set with db.Exec only reach one pooled connection. Hold two
// connections open at once and check the second enforces foreign keys too.
func TestOpenDB_EveryPooledConnectionCascades(t *testing.T) {
	database, err := OpenDB(filepath.Join(t.TempDir(), "pool.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	ctx := context.Background()

	first, err := database.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := database.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	var fk, timeout int
	require.NoError(t, first.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "first connection")
	require.NoError(t, second.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "second connection")
	require.NoError(t, second.QueryRowContext(ctx, `PRAGMA busy_timeout`).Scan(&timeout))
	assert.Equal(t, 5000, timeout)

	stmts := []string{
		`INSERT INTO clients (id, name, created_at, updated_at) VALUES ('c1', 'Acme', 'x', 'x')`,
		`INSERT INTO client_stages (client_stage_id, client_id, stage_name, order_number, created_at, updated_at)
			VALUES ('s1', 'c1', 'Intake', 1, 'x', 'x')`,
		`INSERT INTO tasks (id, client_id, title, assignee_role, created_at, updated_at)
			VALUES ('t1', 'c1', 'Upload W-2', 'CLIENT', 'x', 'x')`,
		`DELETE FROM clients WHERE id = 'c1'`,
	}
	for _, s := range stmts {
		_, err := second.ExecContext(ctx, s)
		require.NoError(t, err)
	}

	for _, table := range []string{"client_stages", "tasks"} {
		var n int
		require.NoError(t, second.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n))
		assert.Zero(t, n, "%s left after client delete", table)
	}
}
