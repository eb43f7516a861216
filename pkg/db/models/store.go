package models

import (
	"time"

	"github.com/google/uuid"
)

// Store represents the tenant boundary. Names are normalized to lowercase
// before persistence and are globally unique.
type Store struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Users    []User    `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	Products []Product `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
}
