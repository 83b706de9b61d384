package cli

import (
	"fmt"

	usecase "github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/domain"
)

// requestScope turns the persistent --role/--actor/--as-client flags into
// the scope every service call carries.
func (a *App) requestScope() (usecase.Scope, error) {
	role := domain.Role(a.scope.role)
	if !domain.ValidRoles[role] {
		return usecase.Scope{}, fmt.Errorf("unknown role %q", role)
	}
	if role == domain.RoleAdmin {
		s := usecase.AdminScope()
		s.ActorID = domain.CoalesceStr(a.scope.actor, s.ActorID)
		return s, nil
	}
	s := usecase.Scope{Role: role, ActorID: a.scope.actor, ClientID: a.scope.clientID}
	if role == domain.RoleClient {
		s.ActorID = domain.CoalesceStr(s.ActorID, s.ClientID)
	}
	if err := s.Validate(); err != nil {
		return usecase.Scope{}, err
	}
	return s, nil
}
