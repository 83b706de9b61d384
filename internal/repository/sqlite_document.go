package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gentyx/clienthub/internal/db"
	"github.com/gentyx/clienthub/internal/domain"
)

// SQLiteDocumentRepo implements DocumentRepo using a SQLite database.
type SQLiteDocumentRepo struct {
	db db.DBTX
}

func NewSQLiteDocumentRepo(conn db.DBTX) *SQLiteDocumentRepo {
	return &SQLiteDocumentRepo{db: conn}
}

func (r *SQLiteDocumentRepo) Create(ctx context.Context, d *domain.Document) error {
	query := `INSERT INTO task_documents (id, task_id, client_id, file_name, content_type,
		storage_key, size_bytes, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.TaskID,
		d.ClientID,
		d.FileName,
		d.ContentType,
		d.StorageKey,
		d.SizeBytes,
		d.UploadedBy,
		formatTime(d.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

const documentColumns = `id, task_id, client_id, file_name, content_type,
		storage_key, size_bytes, uploaded_by, created_at`

func (r *SQLiteDocumentRepo) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM task_documents WHERE id = ?`, id)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return d, nil
}

func (r *SQLiteDocumentRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+documentColumns+`
		FROM task_documents WHERE task_id = ? ORDER BY created_at`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

func scanDocument(s rowScanner) (*domain.Document, error) {
	var d domain.Document
	var createdAt string
	if err := s.Scan(&d.ID, &d.TaskID, &d.ClientID, &d.FileName, &d.ContentType,
		&d.StorageKey, &d.SizeBytes, &d.UploadedBy, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &d, nil
}
