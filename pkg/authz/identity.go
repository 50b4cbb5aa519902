package authz

import (
	"context"
	"net/http"
	"strings"
)

// Header names the upstream auth gate uses to convey identity.
const (
	UserHeader  = "X-Forwarded-User"
	RolesHeader = "X-Forwarded-Roles"
)

// Identity is the authenticated caller as asserted by the gate.
type Identity struct {
	User  string
	Roles []string
}

type identityKey struct{}

// IdentityMiddleware extracts the caller identity from request headers
// and stores it in the request context. It never rejects: authorization
// decisions belong to the Authorizer, not here.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Identity{
			User: r.Header.Get(UserHeader),
		}
		if raw := r.Header.Get(RolesHeader); raw != "" {
			for _, role := range strings.Split(raw, ",") {
				if role = strings.TrimSpace(role); role != "" {
					id.Roles = append(id.Roles, role)
				}
			}
		}
		ctx := context.WithValue(r.Context(), identityKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the identity stored by IdentityMiddleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
