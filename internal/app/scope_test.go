package app

import (
	"errors"
	"testing"

	"github.com/gentyx/clienthub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_Validate(t *testing.T) {
	tests := []struct {
		name    string
		scope   Scope
		wantErr bool
	}{
		{"admin", AdminScope(), false},
		{"client with id", Scope{Role: domain.RoleClient, ClientID: "c1"}, false},
		{"client without id", Scope{Role: domain.RoleClient}, true},
		{"cpa with actor", Scope{Role: domain.RoleCPA, ActorID: "cpa-1"}, false},
		{"service center without actor", Scope{Role: domain.RoleServiceCenter}, true},
		{"unknown role", Scope{Role: "GUEST"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scope.Validate()
			if tt.wantErr {
				var se *ScopeError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, ScopeErrInvalid, se.Code)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestScope_CanSeeClient(t *testing.T) {
	c := &domain.Client{ID: "c1", CPAID: "cpa-1", ServiceCenterID: "sc-1"}

	assert.True(t, AdminScope().CanSeeClient(c))
	assert.True(t, Scope{Role: domain.RoleClient, ClientID: "c1"}.CanSeeClient(c))
	assert.False(t, Scope{Role: domain.RoleClient, ClientID: "c2"}.CanSeeClient(c))
	assert.True(t, Scope{Role: domain.RoleCPA, ActorID: "cpa-1"}.CanSeeClient(c))
	assert.False(t, Scope{Role: domain.RoleCPA, ActorID: "cpa-2"}.CanSeeClient(c))
	assert.True(t, Scope{Role: domain.RoleServiceCenter, ActorID: "sc-1"}.CanSeeClient(c))
	assert.False(t, Scope{Role: domain.RoleServiceCenter, ActorID: "cpa-1"}.CanSeeClient(c))
	assert.False(t, AdminScope().CanSeeClient(nil))
}

func TestScope_CheckTaskUpdate(t *testing.T) {
	c := &domain.Client{ID: "c1", CPAID: "cpa-1"}
	clientTask := &domain.Task{ClientID: "c1", AssigneeRole: domain.RoleClient}
	cpaTask := &domain.Task{ClientID: "c1", AssigneeRole: domain.RoleCPA}

	clientScope := Scope{Role: domain.RoleClient, ClientID: "c1"}
	assert.NoError(t, clientScope.CheckTaskUpdate(c, clientTask))
	assert.Error(t, clientScope.CheckTaskUpdate(c, cpaTask))

	cpaScope := Scope{Role: domain.RoleCPA, ActorID: "cpa-1"}
	assert.NoError(t, cpaScope.CheckTaskUpdate(c, cpaTask))
	assert.Error(t, cpaScope.CheckTaskUpdate(c, clientTask))

	assert.NoError(t, AdminScope().CheckTaskUpdate(c, cpaTask))

	var se *ScopeError
	err := Scope{Role: domain.RoleCPA, ActorID: "cpa-9"}.CheckTaskUpdate(c, cpaTask)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ScopeErrForbidden, se.Code)
}
