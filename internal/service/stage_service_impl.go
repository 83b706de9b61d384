package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/db"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/repository"
	"github.com/google/uuid"
)

type stageService struct {
	stages   repository.StageRepo
	clients  repository.ClientRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewStageService(stages repository.StageRepo, clients repository.ClientRepo, uow db.UnitOfWork, observers ...UseCaseObserver) StageService {
	return &stageService{stages: stages, clients: clients, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// AddStage appends a stage after the client's current last stage.
func (s *stageService) AddStage(ctx context.Context, scope app.Scope, clientID, name string) (stage *domain.Stage, err error) {
	fields := map[string]any{"client_id": clientID, "role": string(scope.Role)}
	defer observe(ctx, s.observer, "stage.add", time.Now().UTC(), fields, &err)

	if _, err := s.manageableClient(ctx, scope, clientID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("stage name is required: %w", ErrInvalidInput)
	}

	now := time.Now().UTC()
	stage = &domain.Stage{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		Name:      name,
		Status:    domain.StatusNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txStages := repository.NewSQLiteStageRepo(tx)
		order, err := txStages.NextOrderNumber(ctx, clientID)
		if err != nil {
			return err
		}
		stage.OrderNumber = order
		if err := txStages.Create(ctx, stage); err != nil {
			return err
		}
		return repository.NewSQLiteAuditRepo(tx).Append(ctx,
			newAuditEntry(scope, clientID, domain.AuditStageAdded, "stage", stage.ID, stage.Name, now))
	})
	if err != nil {
		return nil, err
	}
	fields["stage_id"] = stage.ID
	fields["order_number"] = stage.OrderNumber
	return stage, nil
}

func (s *stageService) AddSubtask(ctx context.Context, scope app.Scope, stageID, title string) (st *domain.Subtask, err error) {
	fields := map[string]any{"stage_id": stageID, "role": string(scope.Role)}
	defer observe(ctx, s.observer, "stage.add_subtask", time.Now().UTC(), fields, &err)

	stage, err := s.stages.GetByID(ctx, stageID)
	if err != nil {
		return nil, err
	}
	if _, err := s.manageableClient(ctx, scope, stage.ClientID); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("subtask title is required: %w", ErrInvalidInput)
	}

	order := 1
	for _, existing := range stage.Subtasks {
		if existing.OrderNumber >= order {
			order = existing.OrderNumber + 1
		}
	}
	now := time.Now().UTC()
	st = &domain.Subtask{
		ID:          uuid.New().String(),
		StageID:     stageID,
		Title:       title,
		OrderNumber: order,
		Status:      domain.StatusNotStarted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteStageRepo(tx).CreateSubtask(ctx, st); err != nil {
			return err
		}
		return repository.NewSQLiteAuditRepo(tx).Append(ctx,
			newAuditEntry(scope, stage.ClientID, domain.AuditSubtaskAdded, "subtask", st.ID, st.Title, now))
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *stageService) SetStageStatus(ctx context.Context, scope app.Scope, stageID string, status domain.Status) (stage *domain.Stage, err error) {
	fields := map[string]any{"stage_id": stageID, "status": string(status), "role": string(scope.Role)}
	defer observe(ctx, s.observer, "stage.set_status", time.Now().UTC(), fields, &err)

	if !domain.ValidWorkStatuses[status] {
		return nil, fmt.Errorf("stage status %q: %w", status, ErrInvalidStatus)
	}
	stage, err = s.stages.GetByID(ctx, stageID)
	if err != nil {
		return nil, err
	}
	if _, err := s.manageableClient(ctx, scope, stage.ClientID); err != nil {
		return nil, err
	}
	if stage.Status == status {
		return stage, nil
	}

	detail := fmt.Sprintf("%s -> %s", stage.Status, status)
	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteStageRepo(tx).UpdateStatus(ctx, stageID, status); err != nil {
			return err
		}
		return repository.NewSQLiteAuditRepo(tx).Append(ctx,
			newAuditEntry(scope, stage.ClientID, domain.AuditStageStatus, "stage", stageID, detail, now))
	})
	if err != nil {
		return nil, err
	}
	stage.Status = status
	stage.UpdatedAt = now
	return stage, nil
}

func (s *stageService) SetSubtaskStatus(ctx context.Context, scope app.Scope, subtaskID string, status domain.Status) (st *domain.Subtask, err error) {
	fields := map[string]any{"subtask_id": subtaskID, "status": string(status), "role": string(scope.Role)}
	defer observe(ctx, s.observer, "stage.set_subtask_status", time.Now().UTC(), fields, &err)

	if !domain.ValidWorkStatuses[status] {
		return nil, fmt.Errorf("subtask status %q: %w", status, ErrInvalidStatus)
	}
	st, err = s.stages.GetSubtask(ctx, subtaskID)
	if err != nil {
		return nil, err
	}
	stage, err := s.stages.GetByID(ctx, st.StageID)
	if err != nil {
		return nil, err
	}
	if _, err := s.manageableClient(ctx, scope, stage.ClientID); err != nil {
		return nil, err
	}
	if st.Status == status {
		return st, nil
	}

	detail := fmt.Sprintf("%s -> %s", st.Status, status)
	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteStageRepo(tx).UpdateSubtaskStatus(ctx, subtaskID, status); err != nil {
			return err
		}
		return repository.NewSQLiteAuditRepo(tx).Append(ctx,
			newAuditEntry(scope, stage.ClientID, domain.AuditSubtaskStatus, "subtask", subtaskID, detail, now))
	})
	if err != nil {
		return nil, err
	}
	st.Status = status
	st.UpdatedAt = now
	return st, nil
}

// ListByClient returns the client's stages in order with subtasks attached.
func (s *stageService) ListByClient(ctx context.Context, scope app.Scope, clientID string) ([]*domain.Stage, error) {
	if _, err := loadVisibleClient(ctx, s.clients, scope, clientID); err != nil {
		return nil, err
	}
	return s.stages.ListByClient(ctx, clientID)
}

// manageableClient loads the client and checks the scope may change its
// onboarding structure.
func (s *stageService) manageableClient(ctx context.Context, scope app.Scope, clientID string) (*domain.Client, error) {
	c, err := loadVisibleClient(ctx, s.clients, scope, clientID)
	if err != nil {
		return nil, err
	}
	if !scope.CanManageStructure() {
		return nil, &app.ScopeError{Code: app.ScopeErrForbidden, Message: "clients cannot change onboarding stages"}
	}
	return c, nil
}
