package middleware

import (
	"net/http"

	"divineconnect/internal/domain/entity"
	"divineconnect/pkg/response"
)

// RequireRole checks that the authenticated user carries one of the allowed
// roles. Role is read from context, set by AuthMiddleware from JWT claims.
func RequireRole(allowedRoles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedRole := range allowedRoles {
				if entity.Role(role) == allowedRole {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireDevotee restricts an endpoint to requester accounts
func RequireDevotee(next http.Handler) http.Handler {
	return RequireRole(entity.RoleDevotee)(next)
}

// RequirePoojari restricts an endpoint to provider accounts
func RequirePoojari(next http.Handler) http.Handler {
	return RequireRole(entity.RolePoojari)(next)
}

// RequireAdmin restricts an endpoint to administrator accounts
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}
