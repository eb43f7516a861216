package resets

import (
	"time"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
)

// RequestDTO is the transport shape for a password-reset request as shown to
// admins.
type RequestDTO struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	UserName  string            `json:"user_name,omitempty"`
	UserEmail string            `json:"user_email,omitempty"`
	StoreName string            `json:"store_name,omitempty"`
	Status    enums.ResetStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ResolveResult carries the single plaintext exposure of a temporary password.
type ResolveResult struct {
	UserID       uuid.UUID `json:"user_id"`
	TempPassword string    `json:"temp_password"`
}

func FromModel(r *models.PasswordResetRequest) *RequestDTO {
	if r == nil {
		return nil
	}
	return &RequestDTO{
		ID:        r.ID,
		UserID:    r.UserID,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
