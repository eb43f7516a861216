package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/internal/users"
	"github.com/rmolina-dev/pos-backend/pkg/db"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
	pkgerrors "github.com/rmolina-dev/pos-backend/pkg/errors"
	"github.com/rmolina-dev/pos-backend/pkg/security"
	"gorm.io/gorm"
)

// Signup provisions an operator account. Admins may target any store via
// StoreID; store managers always provision into their own store and only at
// cashier level.
func (s *service) Signup(ctx context.Context, actor Actor, req SignupRequest) (*SignupResponse, error) {
	role := enums.RoleCashier
	if req.Role != "" {
		parsed, err := enums.ParseRole(req.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		role = parsed
	}
	if role == enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot provision admin accounts")
	}

	storeID := actor.StoreID
	switch actor.Role {
	case enums.RoleAdmin:
		if req.StoreID != "" {
			parsed, err := uuid.Parse(req.StoreID)
			if err != nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid store id")
			}
			storeID = parsed
		}
	case enums.RoleStoreManager:
		if role != enums.RoleCashier {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "managers can only provision cashiers")
		}
		if req.StoreID != "" && req.StoreID != actor.StoreID.String() {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot provision into another store")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Pre-check gives a friendly conflict; the unique index is the backstop.
	if _, err := s.users.FindByEmailInStore(ctx, storeID, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered in this store")
	} else if !errorsIsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing user")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		StoreID:      storeID,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_users_store_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered in this store")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return &SignupResponse{User: users.FromModel(user)}, nil
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
