package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
)

// UserDTO is the transport shape that omits the credential hash.
type UserDTO struct {
	ID        uuid.UUID  `json:"id"`
	StoreID   uuid.UUID  `json:"store_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      enums.Role `json:"role"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
}

// ManagerDTO pairs a store manager with the store they run.
type ManagerDTO struct {
	UserDTO
	StoreName string `json:"store_name"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	StoreID      uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         enums.Role
	Active       *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		StoreID:   u.StoreID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	active := true
	if c.Active != nil {
		active = *c.Active
	}
	role := c.Role
	if role == "" {
		role = enums.RoleCashier
	}
	return &models.User{
		StoreID:      c.StoreID,
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Role:         role,
		Active:       active,
	}
}
