package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmolina-dev/pos-backend/pkg/db/models"
)

// ProductDTO is the transport shape for a product.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	StoreID     uuid.UUID       `json:"store_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AdminProductDTO is a product enriched with its store's name for the
// cross-store admin listing.
type AdminProductDTO struct {
	ProductDTO
	StoreName string `json:"store_name,omitempty"`
}

// CreateProductDTO holds the data required to persist a new product.
type CreateProductDTO struct {
	StoreID     uuid.UUID
	Name        string
	Price       decimal.Decimal
	Stock       int
	Description string
}

func (c CreateProductDTO) ToModel() *models.Product {
	return &models.Product{
		StoreID:     c.StoreID,
		Name:        c.Name,
		Price:       c.Price,
		Stock:       c.Stock,
		Description: c.Description,
	}
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		StoreID:     p.StoreID,
		Name:        p.Name,
		Price:       p.Price,
		Stock:       p.Stock,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
