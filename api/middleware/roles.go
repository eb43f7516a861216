package middleware

import (
	"net/http"

	"github.com/rmolina-dev/pos-backend/api/responses"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
	pkgerrors "github.com/rmolina-dev/pos-backend/pkg/errors"
	"github.com/rmolina-dev/pos-backend/pkg/logger"
)

// RequireRoles admits the request when the session role matches any of the
// allowed roles. Browser navigation with a mismatched role is redirected to
// that role's dashboard; API clients receive a JSON 403.
func RequireRoles(logg *logger.Logger, allowed ...enums.Role) func(http.Handler) http.Handler {
	allowedSet := make(map[enums.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := enums.Role(RoleFromContext(r.Context()))
			if !role.IsValid() {
				denyUnauthorized(w, r, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing role"))
				return
			}
			if _, ok := allowedSet[role]; !ok {
				if wantsHTML(r) {
					responses.WriteRedirect(w, r, role.DashboardPath())
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
