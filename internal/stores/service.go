package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/db"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	pkgerrors "github.com/rmolina-dev/pos-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the store controllers.
type Service interface {
	Create(ctx context.Context, req CreateStoreRequest) (*StoreDTO, error)
	Rename(ctx context.Context, id uuid.UUID, req RenameStoreRequest) (*StoreDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]StoreDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
	AdminStore(ctx context.Context) (*StoreDTO, error)
}

// CreateStoreRequest is the payload for creating a store.
type CreateStoreRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

// RenameStoreRequest is the payload for renaming a store.
type RenameStoreRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

type service struct {
	repo storeRepository
}

type storeRepository interface {
	Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByName(ctx context.Context, name string) (*models.Store, error)
	List(ctx context.Context) ([]models.Store, error)
	Update(ctx context.Context, store *models.Store) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build a stores service.
type ServiceParams struct {
	Repo storeRepository
}

// NewService constructs a stores service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("store repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, req CreateStoreRequest) (*StoreDTO, error) {
	name := NormalizeName(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if name == AdminStoreName {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "store name is reserved")
	}

	store, err := s.repo.Create(ctx, CreateStoreDTO{Name: name})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_stores_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "store name already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create store")
	}
	return FromModel(store), nil
}

func (s *service) Rename(ctx context.Context, id uuid.UUID, req RenameStoreRequest) (*StoreDTO, error) {
	name := NormalizeName(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if name == AdminStoreName {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "store name is reserved")
	}

	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
	}
	if store.Name == AdminStoreName {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store cannot be renamed")
	}

	store.Name = name
	if err := s.repo.Update(ctx, store); err != nil {
		if db.IsUniqueViolation(err, "idx_stores_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "store name already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rename store")
	}
	return FromModel(store), nil
}

// Delete removes a tenant. Users and products owned by the store cascade at
// the schema level; the admin store itself is protected.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
	}
	if store.Name == AdminStoreName {
		return pkgerrors.New(pkgerrors.CodeForbidden, "store cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete store")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]StoreDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stores")
	}
	out := make([]StoreDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
	}
	return FromModel(store), nil
}

func (s *service) AdminStore(ctx context.Context) (*StoreDTO, error) {
	store, err := s.repo.FindByName(ctx, AdminStoreName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin store not provisioned")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load admin store")
	}
	return FromModel(store), nil
}
