package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/db"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/importer"
	"github.com/gentyx/clienthub/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewImportService creates clients from onboarding plan files. Everything in
// a plan is written in one transaction.
func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportClient(ctx context.Context, scope app.Scope, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportClientFromSchema(ctx, scope, schema)
}

func (s *importService) ImportClientFromSchema(ctx context.Context, scope app.Scope, schema *importer.ImportSchema) (res *ImportResult, err error) {
	fields := map[string]any{"role": string(scope.Role)}
	defer observe(ctx, s.observer, "client.import", time.Now().UTC(), fields, &err)

	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if !scope.CanManageStructure() {
		return nil, &app.ScopeError{Code: app.ScopeErrForbidden, Message: "clients cannot import clients"}
	}
	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	now := time.Now().UTC()
	plan := importer.Convert(schema, now)
	switch scope.Role {
	case domain.RoleCPA:
		if plan.Client.CPAID == "" {
			plan.Client.CPAID = scope.ActorID
		}
	case domain.RoleServiceCenter:
		if plan.Client.ServiceCenterID == "" {
			plan.Client.ServiceCenterID = scope.ActorID
		}
	}
	if !scope.CanSeeClient(plan.Client) {
		return nil, &app.ScopeError{Code: app.ScopeErrForbidden, Message: "cannot import a client assigned to someone else"}
	}
	fields["client_id"] = plan.Client.ID

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		clients := repository.NewSQLiteClientRepo(tx)
		stages := repository.NewSQLiteStageRepo(tx)
		tasks := repository.NewSQLiteTaskRepo(tx)
		audits := repository.NewSQLiteAuditRepo(tx)

		if err := clients.Create(ctx, plan.Client); err != nil {
			return fmt.Errorf("creating client: %w", err)
		}
		for _, st := range plan.Stages {
			if err := stages.Create(ctx, st); err != nil {
				return fmt.Errorf("creating stage %q: %w", st.Name, err)
			}
			for _, sub := range st.Subtasks {
				if err := stages.CreateSubtask(ctx, sub); err != nil {
					return fmt.Errorf("creating subtask %q: %w", sub.Title, err)
				}
			}
		}
		for _, t := range plan.Tasks {
			if err := tasks.Create(ctx, t); err != nil {
				return fmt.Errorf("creating task %q: %w", t.Title, err)
			}
		}
		detail := fmt.Sprintf("imported %s: %d stages, %d subtasks, %d tasks",
			plan.Client.Name, len(plan.Stages), plan.SubtaskCount(), len(plan.Tasks))
		return audits.Append(ctx, newAuditEntry(scope, plan.Client.ID, domain.AuditClientCreated, "client", plan.Client.ID, detail, now))
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Client:       plan.Client,
		StageCount:   len(plan.Stages),
		SubtaskCount: plan.SubtaskCount(),
		TaskCount:    len(plan.Tasks),
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
