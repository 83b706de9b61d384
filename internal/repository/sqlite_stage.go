package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gentyx/clienthub/internal/db"
	"github.com/gentyx/clienthub/internal/domain"
)

const stageColumns = `client_stage_id, client_id, stage_name, order_number, status, created_at, updated_at`

const subtaskColumns = `id, client_stage_id, title, order_number, status, created_at, updated_at`

// SQLiteStageRepo implements StageRepo. Subtasks live in the same repository
// because they are only ever read through their stage.
type SQLiteStageRepo struct {
	db db.DBTX
}

func NewSQLiteStageRepo(conn db.DBTX) *SQLiteStageRepo {
	return &SQLiteStageRepo{db: conn}
}

func (r *SQLiteStageRepo) Create(ctx context.Context, s *domain.Stage) error {
	query := `INSERT INTO client_stages (` + stageColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.ClientID,
		s.Name,
		s.OrderNumber,
		string(domain.ParseStatus(string(s.Status))),
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting stage: %w", err)
	}
	return nil
}

func (r *SQLiteStageRepo) GetByID(ctx context.Context, id string) (*domain.Stage, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+stageColumns+` FROM client_stages WHERE client_stage_id = ?`, id)
	s, err := scanStage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("stage %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning stage: %w", err)
	}

	subtasks, err := r.listSubtasks(ctx, `WHERE client_stage_id = ?`, id)
	if err != nil {
		return nil, err
	}
	s.Subtasks = subtasks
	return s, nil
}

func (r *SQLiteStageRepo) ListByClient(ctx context.Context, clientID string) ([]*domain.Stage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+stageColumns+` FROM client_stages WHERE client_id = ? ORDER BY order_number`, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing stages: %w", err)
	}

	var stages []*domain.Stage
	byID := make(map[string]*domain.Stage)
	for rows.Next() {
		s, err := scanStage(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning stage row: %w", err)
		}
		stages = append(stages, s)
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating stages: %w", err)
	}
	// Close before the subtask query: in-memory databases run on one connection.
	rows.Close()

	if len(stages) == 0 {
		return stages, nil
	}

	subtasks, err := r.listSubtasks(ctx,
		`WHERE client_stage_id IN (SELECT client_stage_id FROM client_stages WHERE client_id = ?)`, clientID)
	if err != nil {
		return nil, err
	}
	for _, st := range subtasks {
		if s, ok := byID[st.StageID]; ok {
			s.Subtasks = append(s.Subtasks, st)
		}
	}
	return stages, nil
}

func (r *SQLiteStageRepo) NextOrderNumber(ctx context.Context, clientID string) (int, error) {
	var maxOrder sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(order_number) FROM client_stages WHERE client_id = ?`, clientID).Scan(&maxOrder)
	if err != nil {
		return 0, fmt.Errorf("reading max stage order: %w", err)
	}
	if !maxOrder.Valid {
		return 1, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

func (r *SQLiteStageRepo) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE client_stages SET status = ?, updated_at = ? WHERE client_stage_id = ?`,
		string(status), formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("updating stage status: %w", err)
	}
	return checkAffected(res, "stage "+id)
}

func (r *SQLiteStageRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM client_stages WHERE client_stage_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting stage: %w", err)
	}
	return checkAffected(res, "stage "+id)
}

func (r *SQLiteStageRepo) CreateSubtask(ctx context.Context, st *domain.Subtask) error {
	query := `INSERT INTO client_subtasks (` + subtaskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		st.ID,
		st.StageID,
		st.Title,
		st.OrderNumber,
		string(domain.ParseStatus(string(st.Status))),
		formatTime(st.CreatedAt),
		formatTime(st.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting subtask: %w", err)
	}
	return nil
}

func (r *SQLiteStageRepo) GetSubtask(ctx context.Context, id string) (*domain.Subtask, error) {
	subtasks, err := r.listSubtasks(ctx, `WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(subtasks) == 0 {
		return nil, fmt.Errorf("subtask %s: %w", id, ErrNotFound)
	}
	return subtasks[0], nil
}

func (r *SQLiteStageRepo) UpdateSubtaskStatus(ctx context.Context, id string, status domain.Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE client_subtasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("updating subtask status: %w", err)
	}
	return checkAffected(res, "subtask "+id)
}

func (r *SQLiteStageRepo) listSubtasks(ctx context.Context, where string, args ...any) ([]*domain.Subtask, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+subtaskColumns+` FROM client_subtasks `+where+` ORDER BY order_number, created_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing subtasks: %w", err)
	}
	defer rows.Close()

	var out []*domain.Subtask
	for rows.Next() {
		var st domain.Subtask
		var status, createdAt, updatedAt string
		if err := rows.Scan(&st.ID, &st.StageID, &st.Title, &st.OrderNumber, &status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning subtask row: %w", err)
		}
		st.Status = domain.ParseStatus(status)
		if st.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing subtask created_at: %w", err)
		}
		if st.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("parsing subtask updated_at: %w", err)
		}
		out = append(out, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subtasks: %w", err)
	}
	return out, nil
}

func scanStage(s rowScanner) (*domain.Stage, error) {
	var st domain.Stage
	var status, createdAt, updatedAt string
	if err := s.Scan(&st.ID, &st.ClientID, &st.Name, &st.OrderNumber, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	// Stored status strings are normalized here; anything unrecognized
	// reads as Not Started.
	st.Status = domain.ParseStatus(status)

	var err error
	if st.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if st.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &st, nil
}
