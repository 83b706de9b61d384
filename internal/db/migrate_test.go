package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"clients", "client_stages", "client_subtasks", "tasks", "task_documents", "audit_log"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_clients_cpa",
		"idx_client_stages_client",
		"idx_client_subtasks_stage",
		"idx_tasks_client",
		"idx_tasks_status",
		"idx_task_documents_task",
		"idx_audit_log_client",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate_StageOrderUniquePerClient(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO clients (id, name, created_at, updated_at) VALUES ('c1', 'Acme', 'x', 'x')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO client_stages (client_stage_id, client_id, stage_name, order_number, created_at, updated_at)
		VALUES ('s1', 'c1', 'Intake', 1, 'x', 'x')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO client_stages (client_stage_id, client_id, stage_name, order_number, created_at, updated_at)
		VALUES ('s2', 'c1', 'Review', 1, 'x', 'x')`)
	assert.Error(t, err, "duplicate order_number within a client must be rejected")
}

func TestMigrate_DeletingClientCascades(t *testing.T) {
	db := openTestDB(t)

	stmts := []string{
		`INSERT INTO clients (id, name, created_at, updated_at) VALUES ('c1', 'Acme', 'x', 'x')`,
		`INSERT INTO client_stages (client_stage_id, client_id, stage_name, order_number, created_at, updated_at)
			VALUES ('s1', 'c1', 'Intake', 1, 'x', 'x')`,
		`INSERT INTO client_subtasks (id, client_stage_id, title, created_at, updated_at)
			VALUES ('st1', 's1', 'Sign engagement letter', 'x', 'x')`,
		`INSERT INTO tasks (id, client_id, title, assignee_role, created_at, updated_at)
			VALUES ('t1', 'c1', 'Upload W-2', 'CLIENT', 'x', 'x')`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}

	_, err := db.Exec(`DELETE FROM clients WHERE id = 'c1'`)
	require.NoError(t, err)

	for _, table := range []string{"client_stages", "client_subtasks", "tasks"} {
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
		assert.Zero(t, n, "%s should be empty after cascade", table)
	}
}
