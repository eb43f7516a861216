package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmolina-dev/pos-backend/pkg/enums"
)

// User represents an operator account scoped to a single store.
// Emails are unique per store, not globally.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID  `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_users_store_email"`
	Name         string     `gorm:"column:name;not null"`
	Email        string     `gorm:"column:email;not null;uniqueIndex:idx_users_store_email"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Role         enums.Role `gorm:"column:role;not null;default:'cashier'"`
	Active       bool       `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}
