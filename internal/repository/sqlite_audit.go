package repository

import (
	"context"
	"fmt"

	"github.com/gentyx/clienthub/internal/db"
	"github.com/gentyx/clienthub/internal/domain"
)

const defaultAuditLimit = 100

// SQLiteAuditRepo implements AuditRepo using a SQLite database.
type SQLiteAuditRepo struct {
	db db.DBTX
}

func NewSQLiteAuditRepo(conn db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: conn}
}

func (r *SQLiteAuditRepo) Append(ctx context.Context, e *domain.AuditEntry) error {
	query := `INSERT INTO audit_log (id, client_id, actor_role, actor_id, action,
		entity_type, entity_id, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ClientID,
		string(e.ActorRole),
		e.ActorID,
		string(e.Action),
		e.EntityType,
		e.EntityID,
		e.Detail,
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}
	return nil
}

// ListByClient returns the newest entries first. A non-positive limit uses
// the default of 100.
func (r *SQLiteAuditRepo) ListByClient(ctx context.Context, clientID string, limit int) ([]*domain.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, client_id, actor_role, actor_id, action,
		entity_type, entity_id, detail, created_at
		FROM audit_log WHERE client_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var role, action, createdAt string
		if err := rows.Scan(&e.ID, &e.ClientID, &role, &e.ActorID, &action,
			&e.EntityType, &e.EntityID, &e.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit row: %w", err)
		}
		e.ActorRole = domain.Role(role)
		e.Action = domain.AuditAction(action)
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return entries, nil
}
