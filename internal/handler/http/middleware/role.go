package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hc-portal-go/internal/handler/http/response"
)

// RequireRole allows authenticated callers holding one of roles. Requests
// without an identity pass through untouched.
func RequireRole(roles ...employee.Role) func(http.Handler) http.Handler {
	allowed := make(map[employee.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := allowed[employee.Role(identity.Role)]; !ok {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: role '%s' may not perform this action", identity.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
