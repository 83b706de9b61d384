package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is idempotent so it runs on
// each open; "duplicate column name" from re-applied ALTERs is tolerated.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		email             TEXT NOT NULL DEFAULT '',
		cpa_id            TEXT NOT NULL DEFAULT '',
		service_center_id TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL DEFAULT 'active'
		                  CHECK(status IN ('active','archived')),
		due_date          TEXT,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_clients_cpa ON clients(cpa_id)`,
	`CREATE INDEX IF NOT EXISTS idx_clients_service_center ON clients(service_center_id)`,

	`CREATE TABLE IF NOT EXISTS client_stages (
		client_stage_id TEXT PRIMARY KEY,
		client_id       TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		stage_name      TEXT NOT NULL,
		order_number    INTEGER NOT NULL,
		status          TEXT NOT NULL DEFAULT 'Not Started',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		UNIQUE(client_id, order_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_client_stages_client ON client_stages(client_id)`,

	`CREATE TABLE IF NOT EXISTS client_subtasks (
		id              TEXT PRIMARY KEY,
		client_stage_id TEXT NOT NULL REFERENCES client_stages(client_stage_id) ON DELETE CASCADE,
		title           TEXT NOT NULL,
		order_number    INTEGER NOT NULL DEFAULT 0,
		status          TEXT NOT NULL DEFAULT 'Not Started',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_client_subtasks_stage ON client_subtasks(client_stage_id)`,

	// document_required stays nullable: legacy rows without a value are
	// read as "required".
	`CREATE TABLE IF NOT EXISTS tasks (
		id                TEXT PRIMARY KEY,
		client_id         TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		title             TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		assignee_role     TEXT NOT NULL
		                  CHECK(assignee_role IN ('CLIENT','CPA','SERVICE_CENTER')),
		status            TEXT NOT NULL DEFAULT 'Not Started',
		due_date          TEXT,
		document_required INTEGER,
		completed_at      TEXT,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_client ON tasks(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,

	`CREATE TABLE IF NOT EXISTS task_documents (
		id           TEXT PRIMARY KEY,
		task_id      TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		client_id    TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		file_name    TEXT NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		storage_key  TEXT NOT NULL,
		size_bytes   INTEGER NOT NULL DEFAULT 0,
		uploaded_by  TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_documents_task ON task_documents(task_id)`,

	// The audit log outlives deleted clients, so no foreign key here.
	`CREATE TABLE IF NOT EXISTS audit_log (
		id          TEXT PRIMARY KEY,
		client_id   TEXT NOT NULL DEFAULT '',
		actor_role  TEXT NOT NULL DEFAULT '',
		actor_id    TEXT NOT NULL DEFAULT '',
		action      TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id   TEXT NOT NULL,
		detail      TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_log_client ON audit_log(client_id, created_at)`,
}
