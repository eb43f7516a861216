package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/internal/stores"
	"github.com/rmolina-dev/pos-backend/pkg/config"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
	"github.com/rmolina-dev/pos-backend/pkg/security"
	"gorm.io/gorm"
)

type stubAdminStoreLookup struct {
	store *models.Store
}

func (s *stubAdminStoreLookup) FindByName(_ context.Context, name string) (*models.Store, error) {
	if s.store != nil && s.store.Name == stores.NormalizeName(name) {
		return s.store, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func seededAdminStore() *stubAdminStoreLookup {
	return &stubAdminStoreLookup{store: &models.Store{ID: uuid.New(), Name: stores.AdminStoreName}}
}

func TestEnsureAdminCreatesFirstAdmin(t *testing.T) {
	repo := &stubUserRepo{}
	storeLookup := seededAdminStore()

	cfg := config.BootstrapConfig{
		AdminName:     "Root Operator",
		AdminEmail:    "Admin@POS.Test",
		AdminPassword: "first-boot-secret",
	}
	if err := EnsureAdmin(context.Background(), repo, storeLookup, cfg, testPasswordConfig(), nil); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}

	user, err := repo.FindByEmailInStore(context.Background(), storeLookup.store.ID, "admin@pos.test")
	if err != nil {
		t.Fatalf("expected admin account, got %v", err)
	}
	if user.Role != enums.RoleAdmin {
		t.Fatalf("expected admin role, got %s", user.Role)
	}
	ok, err := security.VerifyPassword("first-boot-secret", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("bootstrap password does not verify: ok=%v err=%v", ok, err)
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	repo := &stubUserRepo{}
	storeLookup := seededAdminStore()
	cfg := config.BootstrapConfig{
		AdminEmail:    "admin@pos.test",
		AdminPassword: "first-boot-secret",
	}

	for i := 0; i < 2; i++ {
		if err := EnsureAdmin(context.Background(), repo, storeLookup, cfg, testPasswordConfig(), nil); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected a single admin account, got %d", len(repo.users))
	}
}

func TestEnsureAdminDisabledWithoutEmail(t *testing.T) {
	repo := &stubUserRepo{}
	if err := EnsureAdmin(context.Background(), repo, seededAdminStore(), config.BootstrapConfig{}, testPasswordConfig(), nil); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("expected no accounts, got %d", len(repo.users))
	}
}

func TestEnsureAdminRequiresPassword(t *testing.T) {
	err := EnsureAdmin(context.Background(), &stubUserRepo{}, seededAdminStore(), config.BootstrapConfig{
		AdminEmail: "admin@pos.test",
	}, testPasswordConfig(), nil)
	if err == nil {
		t.Fatal("expected missing password to be rejected")
	}
}
