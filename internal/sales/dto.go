package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmolina-dev/pos-backend/pkg/db/models"
)

// SaleDTO is the transport shape for a recorded sale.
type SaleDTO struct {
	ID        uuid.UUID         `json:"id"`
	StoreID   uuid.UUID         `json:"store_id"`
	UserID    uuid.UUID         `json:"user_id"`
	UserName  string            `json:"user_name,omitempty"`
	StoreName string            `json:"store_name,omitempty"`
	Total     decimal.Decimal   `json:"total"`
	Items     []models.SaleItem `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
}

// Page is a cursor-paginated batch of sales.
type Page struct {
	Sales      []SaleDTO `json:"sales"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

func FromModel(s *models.Sale) *SaleDTO {
	if s == nil {
		return nil
	}
	return &SaleDTO{
		ID:        s.ID,
		StoreID:   s.StoreID,
		UserID:    s.UserID,
		Total:     s.Total,
		Items:     append([]models.SaleItem(nil), s.Items...),
		CreatedAt: s.CreatedAt,
	}
}
