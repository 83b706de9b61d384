package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/db"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/repository"
	"github.com/google/uuid"
)

type clientService struct {
	clients  repository.ClientRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewClientService(clients repository.ClientRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ClientService {
	return &clientService{clients: clients, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *clientService) Create(ctx context.Context, scope app.Scope, c *domain.Client) (err error) {
	fields := map[string]any{"role": string(scope.Role)}
	defer observe(ctx, s.observer, "client.create", time.Now().UTC(), fields, &err)

	if err := scope.Validate(); err != nil {
		return err
	}
	if !scope.CanManageStructure() {
		return &app.ScopeError{Code: app.ScopeErrForbidden, Message: "clients cannot create clients"}
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("client name is required: %w", ErrInvalidInput)
	}
	if c.Email != "" {
		if _, perr := mail.ParseAddress(c.Email); perr != nil {
			return fmt.Errorf("client email %q: %w", c.Email, ErrInvalidInput)
		}
	}
	// A CPA or service center creating a client is assigned to it.
	switch scope.Role {
	case domain.RoleCPA:
		if c.CPAID == "" {
			c.CPAID = scope.ActorID
		}
	case domain.RoleServiceCenter:
		if c.ServiceCenterID == "" {
			c.ServiceCenterID = scope.ActorID
		}
	}
	if !scope.CanSeeClient(c) {
		return &app.ScopeError{Code: app.ScopeErrForbidden, Message: "cannot create a client assigned to someone else"}
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = domain.ClientActive
	}
	fields["client_id"] = c.ID

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteClientRepo(tx).Create(ctx, c); err != nil {
			return err
		}
		return repository.NewSQLiteAuditRepo(tx).Append(ctx,
			newAuditEntry(scope, c.ID, domain.AuditClientCreated, "client", c.ID, c.Name, now))
	})
}

func (s *clientService) GetByID(ctx context.Context, scope app.Scope, id string) (*domain.Client, error) {
	return loadVisibleClient(ctx, s.clients, scope, id)
}

// List returns the clients visible to the scope.
func (s *clientService) List(ctx context.Context, scope app.Scope, includeArchived bool) ([]*domain.Client, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return s.clients.List(ctx, clientFilterForScope(scope, includeArchived))
}

func clientFilterForScope(scope app.Scope, includeArchived bool) repository.ClientFilter {
	f := repository.ClientFilter{IncludeArchived: includeArchived}
	switch scope.Role {
	case domain.RoleClient:
		f.ClientID = scope.ClientID
	case domain.RoleCPA:
		f.CPAID = scope.ActorID
	case domain.RoleServiceCenter:
		f.ServiceCenterID = scope.ActorID
	}
	return f
}

func (s *clientService) Archive(ctx context.Context, scope app.Scope, id string) (err error) {
	fields := map[string]any{"client_id": id, "role": string(scope.Role)}
	defer observe(ctx, s.observer, "client.archive", time.Now().UTC(), fields, &err)

	c, err := loadVisibleClient(ctx, s.clients, scope, id)
	if err != nil {
		return err
	}
	if !scope.CanManageStructure() {
		return &app.ScopeError{Code: app.ScopeErrForbidden, Message: "clients cannot archive clients"}
	}
	c.Status = domain.ClientArchived
	c.UpdatedAt = time.Now().UTC()
	return s.clients.Update(ctx, c)
}

// Delete removes the client with its stages, subtasks, tasks and document
// records. The audit trail is kept.
func (s *clientService) Delete(ctx context.Context, scope app.Scope, id string) (err error) {
	fields := map[string]any{"client_id": id, "role": string(scope.Role)}
	defer observe(ctx, s.observer, "client.delete", time.Now().UTC(), fields, &err)

	c, err := loadVisibleClient(ctx, s.clients, scope, id)
	if err != nil {
		return err
	}
	if scope.Role != domain.RoleAdmin {
		return &app.ScopeError{Code: app.ScopeErrForbidden, Message: "only admins can delete clients"}
	}
	now := time.Now().UTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteClientRepo(tx).Delete(ctx, id); err != nil {
			return err
		}
		return repository.NewSQLiteAuditRepo(tx).Append(ctx,
			newAuditEntry(scope, id, domain.AuditClientDeleted, "client", id, c.Name, now))
	})
}
