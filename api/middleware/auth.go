package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rmolina-dev/pos-backend/api/responses"
	pkgAuth "github.com/rmolina-dev/pos-backend/pkg/auth"
	"github.com/rmolina-dev/pos-backend/pkg/auth/session"
	"github.com/rmolina-dev/pos-backend/pkg/config"
	pkgerrors "github.com/rmolina-dev/pos-backend/pkg/errors"
	"github.com/rmolina-dev/pos-backend/pkg/logger"
)

const loginPath = "/login"

// Auth validates the session token and seeds the request context with the claims.
// Browser navigation requests that fail authentication are redirected to the
// login page instead of receiving a JSON error body.
func Auth(cfg config.SessionConfig, verifier session.Checker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := pkgAuth.TokenFromRequest(r, cfg.CookieName)
			if token == "" {
				denyUnauthorized(w, r, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseSessionToken(cfg, token)
			if err != nil {
				denyUnauthorized(w, r, logg, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session"))
				return
			}

			if claims.ID == "" {
				denyUnauthorized(w, r, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}
			if !claims.Active {
				denyUnauthorized(w, r, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "account deactivated"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					denyUnauthorized(w, r, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked"))
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
			ctx = context.WithValue(ctx, ctxStoreID, claims.StoreID.String())
			ctx = context.WithValue(ctx, ctxSessionID, claims.ID)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
					"store_id":   claims.StoreID.String(),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func denyUnauthorized(w http.ResponseWriter, r *http.Request, logg *logger.Logger, err error) {
	if wantsHTML(r) {
		responses.WriteRedirect(w, r, loginPath)
		return
	}
	responses.WriteError(r.Context(), logg, w, err)
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}
