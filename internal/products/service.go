package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	pkgerrors "github.com/rmolina-dev/pos-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the product controllers.
type Service interface {
	Create(ctx context.Context, storeID uuid.UUID, req CreateProductRequest) (*ProductDTO, error)
	Update(ctx context.Context, storeID, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	Delete(ctx context.Context, storeID, id uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID) ([]ProductDTO, error)
	// ListAll spans every store; a non-nil storeID narrows it to one.
	ListAll(ctx context.Context, storeID uuid.UUID) ([]AdminProductDTO, error)
}

// CreateProductRequest is the payload for adding a product.
type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Price       string `json:"price" validate:"required"`
	Stock       int    `json:"stock" validate:"min=0"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateProductRequest is the payload for editing a product. Nil fields are
// left unchanged.
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Price       *string `json:"price,omitempty"`
	Stock       *int    `json:"stock,omitempty" validate:"omitempty,min=0"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type service struct {
	repo   productRepository
	stores storeLookup
}

type productRepository interface {
	Create(ctx context.Context, dto CreateProductDTO) (*models.Product, error)
	FindInStore(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error)
	ListAll(ctx context.Context, storeID uuid.UUID) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}

type storeLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// ServiceParams bundles the dependencies required to build a products service.
// Stores is optional; without it the admin listing omits store names.
type ServiceParams struct {
	Repo   productRepository
	Stores storeLookup
}

// NewService constructs a products service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{repo: params.Repo, stores: params.Stores}, nil
}

func (s *service) Create(ctx context.Context, storeID uuid.UUID, req CreateProductRequest) (*ProductDTO, error) {
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.Create(ctx, CreateProductDTO{
		StoreID:     storeID,
		Name:        strings.TrimSpace(req.Name),
		Price:       price,
		Stock:       req.Stock,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, storeID, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.repo.FindInStore(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		product.Price = price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		product.Stock = *req.Stock
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return FromModel(product), nil
}

func (s *service) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, storeID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ListAll(ctx context.Context, storeID uuid.UUID) ([]AdminProductDTO, error) {
	rows, err := s.repo.ListAll(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	storeNames := map[uuid.UUID]string{}
	out := make([]AdminProductDTO, 0, len(rows))
	for i := range rows {
		dto := AdminProductDTO{ProductDTO: *FromModel(&rows[i])}
		if s.stores != nil {
			if name, ok := storeNames[rows[i].StoreID]; ok {
				dto.StoreName = name
			} else if store, err := s.stores.FindByID(ctx, rows[i].StoreID); err == nil && store != nil {
				storeNames[rows[i].StoreID] = store.Name
				dto.StoreName = store.Name
			}
		}
		out = append(out, dto)
	}
	return out, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number")
	}
	if price.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return price.Round(2), nil
}
