package controllers

import (
	"net/http"

	"github.com/rmolina-dev/pos-backend/api/responses"
	"github.com/rmolina-dev/pos-backend/api/validators"
	checkoutsvc "github.com/rmolina-dev/pos-backend/internal/checkout"
	pkgerrors "github.com/rmolina-dev/pos-backend/pkg/errors"
	"github.com/rmolina-dev/pos-backend/pkg/logger"
)

// StoreCheckout finalizes a cart for the caller's store. Stock decrements and
// the sale record commit or roll back together.
func StoreCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		actor, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutsvc.CheckoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Execute(r.Context(), actor.StoreID, actor.UserID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}
