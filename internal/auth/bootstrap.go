package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rmolina-dev/pos-backend/internal/stores"
	"github.com/rmolina-dev/pos-backend/internal/users"
	"github.com/rmolina-dev/pos-backend/pkg/config"
	"github.com/rmolina-dev/pos-backend/pkg/db"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
	"github.com/rmolina-dev/pos-backend/pkg/logger"
	"github.com/rmolina-dev/pos-backend/pkg/security"
	"gorm.io/gorm"
)

type adminStoreLookup interface {
	FindByName(ctx context.Context, name string) (*models.Store, error)
}

// EnsureAdmin provisions the configured first admin account into the admin
// store. Signup never mints admins, so a fresh deployment gets its first one
// here. Idempotent and safe to run on every boot; an empty email disables it.
func EnsureAdmin(ctx context.Context, userRepo userRepository, storeRepo adminStoreLookup, bootCfg config.BootstrapConfig, passwordCfg config.PasswordConfig, logg *logger.Logger) error {
	email := strings.ToLower(strings.TrimSpace(bootCfg.AdminEmail))
	if email == "" {
		return nil
	}
	if bootCfg.AdminPassword == "" {
		return fmt.Errorf("bootstrap admin password is required when an email is set")
	}

	store, err := storeRepo.FindByName(ctx, stores.AdminStoreName)
	if err != nil {
		return fmt.Errorf("load admin store: %w", err)
	}

	if _, err := userRepo.FindByEmailInStore(ctx, store.ID, email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check admin account: %w", err)
	}

	hash, err := security.HashPassword(bootCfg.AdminPassword, passwordCfg)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	name := strings.TrimSpace(bootCfg.AdminName)
	if name == "" {
		name = "admin"
	}

	user, err := userRepo.Create(ctx, users.CreateUserDTO{
		StoreID:      store.ID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         enums.RoleAdmin,
	})
	if err != nil {
		// Another instance won the race; the account exists either way.
		if db.IsUniqueViolation(err, "idx_users_store_email") {
			return nil
		}
		return fmt.Errorf("create admin account: %w", err)
	}

	if logg != nil {
		logCtx := logg.WithUserID(ctx, user.ID.String())
		logg.Info(logCtx, "bootstrap.admin_created")
	}
	return nil
}
