package handlers

import (
	"net/http"
	"strings"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/domain"
)

const (
	HeaderRole   = "X-ClientHub-Role"
	HeaderActor  = "X-ClientHub-Actor"
	HeaderClient = "X-ClientHub-Client"
)

// scopeFromRequest builds the caller's scope from the identity headers set
// by the fronting gateway.
func scopeFromRequest(r *http.Request) (app.Scope, error) {
	raw := strings.TrimSpace(r.Header.Get(HeaderRole))
	role, ok := domain.ParseRole(raw)
	if !ok {
		return app.Scope{}, &app.ScopeError{Code: app.ScopeErrInvalid, Message: "missing or unknown " + HeaderRole + " header"}
	}
	scope := app.Scope{
		Role:     role,
		ActorID:  strings.TrimSpace(r.Header.Get(HeaderActor)),
		ClientID: strings.TrimSpace(r.Header.Get(HeaderClient)),
	}
	if err := scope.Validate(); err != nil {
		return app.Scope{}, err
	}
	return scope, nil
}

// WithScope resolves the caller scope before calling next, answering the
// request with the scope error when it cannot.
func WithScope(next func(w http.ResponseWriter, r *http.Request, scope app.Scope)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := scopeFromRequest(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		next(w, r, scope)
	}
}
