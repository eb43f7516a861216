package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmolina-dev/pos-backend/pkg/enums"
)

// PasswordResetRequest tracks the user-requests/admin-resolves workflow.
// At most one row exists per user; a repeat request re-arms the same row.
type PasswordResetRequest struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Status    enums.ResetStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
