package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItem is one frozen line of a receipt. It copies the product's name and
// price at checkout time so receipts survive later product edits.
type SaleItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// SaleItems persists the ordered line-item snapshot as a JSON column.
type SaleItems []SaleItem

// Value implements driver.Valuer.
func (s SaleItems) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal sale items: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (s *SaleItems) Scan(value any) error {
	if value == nil {
		*s = SaleItems{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported sale items type %T", value)
	}
	return json.Unmarshal(raw, s)
}

// Sale is an immutable receipt recorded by a successful checkout.
type Sale struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID       `gorm:"column:store_id;type:uuid;not null;index"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null"`
	Items     SaleItems       `gorm:"column:items;type:jsonb;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
