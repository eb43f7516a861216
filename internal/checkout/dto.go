package checkout

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmolina-dev/pos-backend/pkg/db/models"
)

// CartLine is a single entry in a submitted cart. Clients echo back the
// name/price/stock they rendered; those fields are accepted so a cart can
// round-trip unchanged, but they are never read — pricing and stock come
// from the product rows.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`

	Name  json.RawMessage `json:"name,omitempty"`
	Price json.RawMessage `json:"price,omitempty"`
	Stock json.RawMessage `json:"stock,omitempty"`
}

// CheckoutRequest is the payload accepted by the checkout endpoint.
type CheckoutRequest struct {
	Lines []CartLine `json:"lines" validate:"required,min=1,dive"`
}

// ReceiptItem is one frozen line of a completed sale.
type ReceiptItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Receipt is the result of a completed checkout.
type Receipt struct {
	SaleID    uuid.UUID       `json:"sale_id"`
	StoreID   uuid.UUID       `json:"store_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	Items     []ReceiptItem   `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

func receiptFromSale(sale *models.Sale) *Receipt {
	if sale == nil {
		return nil
	}
	items := make([]ReceiptItem, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, ReceiptItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return &Receipt{
		SaleID:    sale.ID,
		StoreID:   sale.StoreID,
		UserID:    sale.UserID,
		Total:     sale.Total,
		Items:     items,
		CreatedAt: sale.CreatedAt,
	}
}
