package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/chronotrack/attendance-backend-go/internal/domain/auth"
	"github.com/chronotrack/attendance-backend-go/internal/handler/http/response"
)

// AuthRequired rejects requests without a verified access token. Refresh
// tokens are valid JWTs too, so the type claim matters.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// Identity is the authenticated caller extracted from token claims.
type Identity struct {
	EmployeeID string
	OrgID      string
	Role       string
}

// IdentityFromRequest reads the caller's identity out of the verified
// claims. Returns false when any claim is missing, which means the
// middleware chain is miswired.
func IdentityFromRequest(r *http.Request) (Identity, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return Identity{}, false
	}

	employeeID, ok1 := claims["employee_id"].(string)
	orgID, ok2 := claims["org_id"].(string)
	role, ok3 := claims["role"].(string)
	if !ok1 || !ok2 || !ok3 {
		return Identity{}, false
	}

	return Identity{EmployeeID: employeeID, OrgID: orgID, Role: role}, true
}
