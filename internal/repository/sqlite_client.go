package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gentyx/clienthub/internal/db"
	"github.com/gentyx/clienthub/internal/domain"
)

const clientColumns = `id, name, email, cpa_id, service_center_id, status, due_date, created_at, updated_at`

// SQLiteClientRepo implements ClientRepo using a SQLite database.
type SQLiteClientRepo struct {
	db db.DBTX
}

func NewSQLiteClientRepo(conn db.DBTX) *SQLiteClientRepo {
	return &SQLiteClientRepo{db: conn}
}

func (r *SQLiteClientRepo) Create(ctx context.Context, c *domain.Client) error {
	query := `INSERT INTO clients (` + clientColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Email,
		c.CPAID,
		c.ServiceCenterID,
		string(c.Status),
		nullableTimeToString(c.DueDate, dateLayout),
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting client: %w", err)
	}
	return nil
}

func (r *SQLiteClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning client: %w", err)
	}
	return c, nil
}

func (r *SQLiteClientRepo) List(ctx context.Context, f ClientFilter) ([]*domain.Client, error) {
	var where []string
	var args []any
	if f.ClientID != "" {
		where = append(where, "id = ?")
		args = append(args, f.ClientID)
	}
	if f.CPAID != "" {
		where = append(where, "cpa_id = ?")
		args = append(args, f.CPAID)
	}
	if f.ServiceCenterID != "" {
		where = append(where, "service_center_id = ?")
		args = append(args, f.ServiceCenterID)
	}
	if !f.IncludeArchived {
		where = append(where, "status != 'archived'")
	}

	query := `SELECT ` + clientColumns + ` FROM clients`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name, created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning client row: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clients: %w", err)
	}
	return clients, nil
}

func (r *SQLiteClientRepo) Update(ctx context.Context, c *domain.Client) error {
	query := `UPDATE clients SET name = ?, email = ?, cpa_id = ?, service_center_id = ?,
		status = ?, due_date = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Name,
		c.Email,
		c.CPAID,
		c.ServiceCenterID,
		string(c.Status),
		nullableTimeToString(c.DueDate, dateLayout),
		formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}
	return checkAffected(res, "client "+c.ID)
}

func (r *SQLiteClientRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	return checkAffected(res, "client "+id)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(s rowScanner) (*domain.Client, error) {
	var c domain.Client
	var status, createdAt, updatedAt string
	var dueDate sql.NullString
	if err := s.Scan(&c.ID, &c.Name, &c.Email, &c.CPAID, &c.ServiceCenterID,
		&status, &dueDate, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.Status = domain.ClientStatus(status)
	c.DueDate = parseNullableTime(dueDate, dateLayout)

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}
