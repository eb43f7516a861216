package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	"github.com/rmolina-dev/pos-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository handles sale persistence. Sales are append-only; there is no
// update or delete surface.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to sale operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx inserts a sale inside the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, sale *models.Sale) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Create(sale).Error
}

// FindByID loads a single sale.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListByStore returns the store's sales, newest first, one page at a time.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Sale, error) {
	query := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Sale
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns sales across every store, newest first, one page at a time.
func (r *Repository) ListAll(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Sale, error) {
	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Sale
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
