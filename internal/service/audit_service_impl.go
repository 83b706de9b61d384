package service

import (
	"context"
	"time"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/repository"
	"github.com/google/uuid"
)

type auditService struct {
	audits  repository.AuditRepo
	clients repository.ClientRepo
}

func NewAuditService(audits repository.AuditRepo, clients repository.ClientRepo) AuditService {
	return &auditService{audits: audits, clients: clients}
}

// List returns the client's audit trail, newest first.
func (s *auditService) List(ctx context.Context, scope app.Scope, clientID string, limit int) ([]*domain.AuditEntry, error) {
	if _, err := loadVisibleClient(ctx, s.clients, scope, clientID); err != nil {
		return nil, err
	}
	return s.audits.ListByClient(ctx, clientID, limit)
}

func newAuditEntry(scope app.Scope, clientID string, action domain.AuditAction, entityType, entityID, detail string, now time.Time) *domain.AuditEntry {
	return &domain.AuditEntry{
		ID:         uuid.New().String(),
		ClientID:   clientID,
		ActorRole:  scope.Role,
		ActorID:    scope.ActorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  now,
	}
}

// loadVisibleClient validates the scope and fetches the client, hiding it
// behind a ScopeError when the caller may not see it.
func loadVisibleClient(ctx context.Context, clients repository.ClientRepo, scope app.Scope, clientID string) (*domain.Client, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	c, err := clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := scope.CheckClient(c); err != nil {
		return nil, err
	}
	return c, nil
}
