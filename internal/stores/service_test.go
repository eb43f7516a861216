package stores

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	pkgerrors "github.com/rmolina-dev/pos-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubStoreRepo struct {
	mu     sync.Mutex
	stores []*models.Store
}

func (s *stubStoreRepo) Create(_ context.Context, dto CreateStoreDTO) (*models.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, store := range s.stores {
		if store.Name == dto.Name {
			return nil, errors.New(`duplicate key value violates unique constraint "idx_stores_name"`)
		}
	}
	store := &models.Store{ID: uuid.New(), Name: dto.Name}
	s.stores = append(s.stores, store)
	return store, nil
}

func (s *stubStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, store := range s.stores {
		if store.ID == id {
			return store, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStoreRepo) FindByName(_ context.Context, name string) (*models.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	normalized := NormalizeName(name)
	for _, store := range s.stores {
		if store.Name == normalized {
			return store, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStoreRepo) List(_ context.Context) ([]models.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Store
	for _, store := range s.stores {
		if store.Name == AdminStoreName {
			continue
		}
		out = append(out, *store)
	}
	return out, nil
}

func (s *stubStoreRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, store := range s.stores {
		if store.ID == id {
			s.stores = append(s.stores[:i], s.stores[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubStoreRepo) Update(_ context.Context, store *models.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.stores {
		if existing.ID != store.ID && existing.Name == store.Name {
			return fmt.Errorf(`duplicate key value violates unique constraint "idx_stores_name"`)
		}
	}
	for i, existing := range s.stores {
		if existing.ID == store.ID {
			s.stores[i] = store
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func buildStoreService(t *testing.T, repo *stubStoreRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestCreateNormalizesName(t *testing.T) {
	repo := &stubStoreRepo{}
	svc := buildStoreService(t, repo)

	store, err := svc.Create(context.Background(), CreateStoreRequest{Name: "  The CORNER Shop "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if store.Name != "the corner shop" {
		t.Fatalf("expected lowercased trimmed name, got %q", store.Name)
	}
}

func TestCreateRejectsReservedAndDuplicateNames(t *testing.T) {
	repo := &stubStoreRepo{}
	svc := buildStoreService(t, repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateStoreRequest{Name: "POS Admins"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for reserved name, got %v", err)
	}

	if _, err := svc.Create(ctx, CreateStoreRequest{Name: "corner shop"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Same name with different casing collides after normalization.
	_, err = svc.Create(ctx, CreateStoreRequest{Name: "Corner SHOP"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate name, got %v", err)
	}
}

func TestRenameProtectsAdminStore(t *testing.T) {
	repo := &stubStoreRepo{}
	admin := &models.Store{ID: uuid.New(), Name: AdminStoreName}
	repo.stores = append(repo.stores, admin)

	svc := buildStoreService(t, repo)
	_, err := svc.Rename(context.Background(), admin.ID, RenameStoreRequest{Name: "rebranded"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRenameUpdatesName(t *testing.T) {
	repo := &stubStoreRepo{}
	store := &models.Store{ID: uuid.New(), Name: "old name"}
	repo.stores = append(repo.stores, store)

	svc := buildStoreService(t, repo)
	renamed, err := svc.Rename(context.Background(), store.ID, RenameStoreRequest{Name: " New NAME "})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "new name" {
		t.Fatalf("expected normalized rename, got %q", renamed.Name)
	}

	_, err = svc.Rename(context.Background(), uuid.New(), RenameStoreRequest{Name: "whatever"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRemovesStore(t *testing.T) {
	repo := &stubStoreRepo{}
	store := &models.Store{ID: uuid.New(), Name: "corner shop"}
	repo.stores = append(repo.stores, store)

	svc := buildStoreService(t, repo)
	if err := svc.Delete(context.Background(), store.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.stores) != 0 {
		t.Fatalf("expected store removed, got %d rows", len(repo.stores))
	}

	err := svc.Delete(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteProtectsAdminStore(t *testing.T) {
	repo := &stubStoreRepo{}
	admin := &models.Store{ID: uuid.New(), Name: AdminStoreName}
	repo.stores = append(repo.stores, admin)

	svc := buildStoreService(t, repo)
	err := svc.Delete(context.Background(), admin.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(repo.stores) != 1 {
		t.Fatal("admin store must survive")
	}
}

func TestListOmitsAdminStore(t *testing.T) {
	repo := &stubStoreRepo{}
	repo.stores = append(repo.stores,
		&models.Store{ID: uuid.New(), Name: AdminStoreName},
		&models.Store{ID: uuid.New(), Name: "corner shop"},
		&models.Store{ID: uuid.New(), Name: "harbor market"},
	)

	svc := buildStoreService(t, repo)
	rows, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 stores, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Name == AdminStoreName {
			t.Fatal("admin store leaked into listing")
		}
	}
}

func TestAdminStoreLookup(t *testing.T) {
	repo := &stubStoreRepo{}
	svc := buildStoreService(t, repo)

	_, err := svc.AdminStore(context.Background())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found before provisioning, got %v", err)
	}

	repo.stores = append(repo.stores, &models.Store{ID: uuid.New(), Name: AdminStoreName})
	store, err := svc.AdminStore(context.Background())
	if err != nil {
		t.Fatalf("admin store: %v", err)
	}
	if store.Name != AdminStoreName {
		t.Fatalf("unexpected store %+v", store)
	}
}
