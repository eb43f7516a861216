package stores

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
)

// AdminStoreName is the distinguished store that holds admin accounts. It is
// excluded from ordinary listings.
const AdminStoreName = "pos admins"

// StoreDTO is the transport shape for a store.
type StoreDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateStoreDTO holds the data required to persist a new store.
type CreateStoreDTO struct {
	Name string
}

func (c CreateStoreDTO) ToModel() *models.Store {
	return &models.Store{Name: NormalizeName(c.Name)}
}

// NormalizeName lowercases and trims a store name. Store names are compared
// case-insensitively across the system.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func FromModel(s *models.Store) *StoreDTO {
	if s == nil {
		return nil
	}
	return &StoreDTO{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}
