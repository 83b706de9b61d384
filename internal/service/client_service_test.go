package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/repository"
	"github.com/gentyx/clienthub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientService_Create_DefaultsAndAudit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	svc := NewClientService(h.clients, h.uow)

	c := &domain.Client{Name: "  Acme Bakery  ", Email: "owner@acme.test"}
	require.NoError(t, svc.Create(ctx, cpaScope("cpa-1"), c))

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Acme Bakery", c.Name)
	assert.Equal(t, domain.ClientActive, c.Status)
	assert.Equal(t, "cpa-1", c.CPAID, "creating CPA is assigned")

	entries, err := h.audits.ListByClient(ctx, c.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditClientCreated, entries[0].Action)
	assert.Equal(t, domain.RoleCPA, entries[0].ActorRole)
}

func TestClientService_Create_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	svc := NewClientService(h.clients, h.uow)

	err := svc.Create(ctx, app.AdminScope(), &domain.Client{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.Create(ctx, app.AdminScope(), &domain.Client{Name: "Acme", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	var se *app.ScopeError
	err = svc.Create(ctx, clientScope("c1"), &domain.Client{Name: "Acme"})
	require.True(t, errors.As(err, &se))
	assert.Equal(t, app.ScopeErrForbidden, se.Code)

	err = svc.Create(ctx, cpaScope("cpa-1"), &domain.Client{Name: "Acme", CPAID: "cpa-2"})
	require.True(t, errors.As(err, &se))
}

func TestClientService_List_ScopedByRole(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	svc := NewClientService(h.clients, h.uow)

	a := h.seedClient(t, "Alpha", testutil.WithCPA("cpa-1"), testutil.WithServiceCenter("sc-1"))
	b := h.seedClient(t, "Beta", testutil.WithCPA("cpa-2"), testutil.WithServiceCenter("sc-1"))
	h.seedClient(t, "Gamma", testutil.WithCPA("cpa-1"), testutil.WithClientStatus(domain.ClientArchived))

	names := func(cs []*domain.Client) []string {
		var out []string
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return out
	}

	all, err := svc.List(ctx, app.AdminScope(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, names(all))

	all, err = svc.List(ctx, app.AdminScope(), true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := svc.List(ctx, cpaScope("cpa-1"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha"}, names(mine))

	sc, err := svc.List(ctx, app.Scope{Role: domain.RoleServiceCenter, ActorID: "sc-1"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, names(sc))

	own, err := svc.List(ctx, clientScope(b.ID), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta"}, names(own))

	_, err = svc.GetByID(ctx, clientScope(b.ID), a.ID)
	var se *app.ScopeError
	assert.True(t, errors.As(err, &se))
}

func TestClientService_Delete_CascadesAndKeepsAudit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	svc := NewClientService(h.clients, h.uow)

	c := h.seedClient(t, "Acme", testutil.WithCPA("cpa-1"))
	st := h.seedStage(t, c.ID, "Intake", 1, domain.StatusNotStarted, domain.StatusCompleted)
	task := h.seedTask(t, c.ID, "Upload W-2")

	var se *app.ScopeError
	err := svc.Delete(ctx, cpaScope("cpa-1"), c.ID)
	require.True(t, errors.As(err, &se), "only admins delete")

	require.NoError(t, svc.Delete(ctx, app.AdminScope(), c.ID))

	_, err = h.clients.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = h.stages.GetByID(ctx, st.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = h.tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	entries, err := h.audits.ListByClient(ctx, c.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, domain.AuditClientDeleted, entries[0].Action)
}

func TestClientService_Archive(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	svc := NewClientService(h.clients, h.uow)

	c := h.seedClient(t, "Acme")
	require.NoError(t, svc.Archive(ctx, app.AdminScope(), c.ID))

	got, err := h.clients.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClientArchived, got.Status)
}
