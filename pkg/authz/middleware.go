package authz

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// RequirePermission returns middleware that enforces a specific
// resource/verb permission check. It retrieves the identity from
// context (via IdentityMiddleware) and calls the authorizer.
func RequirePermission(authorizer Authorizer, resource, verb string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := IdentityFromContext(r.Context())

			req := Request{
				User:     id.User,
				Roles:    id.Roles,
				Resource: resource,
				Verb:     verb,
			}

			allowed, err := authorizer.Authorize(r.Context(), req)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "internal_error",
					"message": "authorization check failed",
				})
				return
			}

			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "forbidden",
					"message": fmt.Sprintf("insufficient permissions for %s/%s", resource, verb),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
