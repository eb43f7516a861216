package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/rmolina-dev/pos-backend/api/middleware"
	"github.com/rmolina-dev/pos-backend/internal/auth"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
	pkgerrors "github.com/rmolina-dev/pos-backend/pkg/errors"
)

// actorFromContext rebuilds the authenticated caller from the values the auth
// middleware seeded. Handlers behind the middleware can rely on it succeeding.
func actorFromContext(ctx context.Context) (auth.Actor, error) {
	userID, err := uuid.Parse(middleware.UserIDFromContext(ctx))
	if err != nil {
		return auth.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	storeID, err := uuid.Parse(middleware.StoreIDFromContext(ctx))
	if err != nil {
		return auth.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "store context missing")
	}
	role, err := enums.ParseRole(middleware.RoleFromContext(ctx))
	if err != nil {
		return auth.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "role context missing")
	}
	return auth.Actor{UserID: userID, StoreID: storeID, Role: role}, nil
}
