package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gentyx/clienthub/internal/db"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/progress"
)

const taskColumns = `id, client_id, title, description, assignee_role, status, due_date,
		document_required, completed_at, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ClientID,
		t.Title,
		t.Description,
		string(t.AssigneeRole),
		string(domain.ParseStatus(string(t.Status))),
		nullableTimeToString(t.DueDate, dateLayout),
		boolToInt(t.DocumentRequired),
		nullableTimeToString(t.CompletedAt, timeLayout),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return t, nil
}

func (r *SQLiteTaskRepo) ListByClient(ctx context.Context, clientID string) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks
		WHERE client_id = ?
		ORDER BY due_date IS NULL, due_date, created_at`, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) UpdateStatus(ctx context.Context, t *domain.Task) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		string(t.Status),
		nullableTimeToString(t.CompletedAt, timeLayout),
		formatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}
	return checkAffected(res, "task "+t.ID)
}

func scanTask(s rowScanner) (*domain.Task, error) {
	var t domain.Task
	var role, status, createdAt, updatedAt string
	var dueDate, completedAt sql.NullString
	var docRequired any

	if err := s.Scan(&t.ID, &t.ClientID, &t.Title, &t.Description, &role, &status, &dueDate,
		&docRequired, &completedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	t.AssigneeRole = domain.Role(role)
	t.Status = domain.ParseStatus(status)
	t.DueDate = parseNullableTime(dueDate, dateLayout)
	t.CompletedAt = parseNullableTime(completedAt, timeLayout)
	// The column may hold NULL, an integer bit or legacy text; this is the
	// one place the flag is interpreted.
	t.DocumentRequired = progress.NormalizeDocumentRequired(docRequired)

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}
