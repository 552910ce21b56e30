package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/chronotrack/attendance-backend-go/internal/domain/employee"
	"github.com/chronotrack/attendance-backend-go/internal/handler/http/response"
)

// RequireManager requires manager or admin role
func RequireManager(next http.Handler) http.Handler {
	return requireRole(next, employee.RoleManager, employee.RoleAdmin)
}

// RequireAdmin requires admin role
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(next, employee.RoleAdmin)
}

func requireRole(next http.Handler, allowed ...employee.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Insufficient permissions")
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.Forbidden(w, "Insufficient permissions")
			return
		}

		role := employee.Role(roleStr)
		for _, a := range allowed {
			if role == a {
				next.ServeHTTP(w, r)
				return
			}
		}

		response.Forbidden(w, "Insufficient permissions")
	})
}
