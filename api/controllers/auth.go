package controllers

import (
	"net/http"

	"github.com/rmolina-dev/pos-backend/api/middleware"
	"github.com/rmolina-dev/pos-backend/api/responses"
	"github.com/rmolina-dev/pos-backend/api/validators"
	authsvc "github.com/rmolina-dev/pos-backend/internal/auth"
	"github.com/rmolina-dev/pos-backend/internal/resets"
	pkgAuth "github.com/rmolina-dev/pos-backend/pkg/auth"
	"github.com/rmolina-dev/pos-backend/pkg/config"
	pkgerrors "github.com/rmolina-dev/pos-backend/pkg/errors"
	"github.com/rmolina-dev/pos-backend/pkg/logger"
)

// AuthLogin authenticates credentials and installs the session cookie. The
// token is also echoed in the body for non-browser clients.
func AuthLogin(svc authsvc.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body authsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, pkgAuth.SessionCookie(cfg.Session, result.Token, cfg.App.IsProd()))
		responses.WriteSuccess(w, result)
	}
}

// AuthSignup provisions an operator account on behalf of the authenticated
// caller. Store managers may only add cashiers to their own store.
func AuthSignup(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		actor, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body authsvc.SignupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Signup(r.Context(), actor, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthLogout revokes the server-side session and clears the cookie.
func AuthLogout(svc authsvc.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.Logout(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, pkgAuth.ClearSessionCookie(cfg.Session, cfg.App.IsProd()))
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AuthForgotPassword records a reset request. The response never discloses
// whether the email matched an account.
func AuthForgotPassword(svc resets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "resets service unavailable"))
			return
		}

		var body forgotPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Request(r.Context(), body.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "accepted"})
	}
}
