package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to product operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new product row.
func (r *Repository) Create(ctx context.Context, dto CreateProductDTO) (*models.Product, error) {
	product := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindInStore loads a product constrained to the given store.
func (r *Repository) FindInStore(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", id, storeID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByStore returns the store's products, newest first.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns products across every store, newest first, optionally
// filtered to a single store.
func (r *Repository) ListAll(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if storeID != uuid.Nil {
		q = q.Where("store_id = ?", storeID)
	}
	var rows []models.Product
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the provided product.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes a product constrained to the given store.
func (r *Repository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", id, storeID).
		Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindInStoreWithTx loads a product inside the provided transaction.
func (r *Repository) FindInStoreWithTx(tx *gorm.DB, storeID, id uuid.UUID) (*models.Product, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var product models.Product
	if err := tx.Where("id = ? AND store_id = ?", id, storeID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStockWithTx conditionally decrements stock inside the provided
// transaction. It affects zero rows when the remaining stock is insufficient.
func (r *Repository) DecrementStockWithTx(tx *gorm.DB, storeID, id uuid.UUID, quantity int) (int64, error) {
	if tx == nil {
		return 0, gorm.ErrInvalidTransaction
	}
	res := tx.Model(&models.Product{}).
		Where("id = ? AND store_id = ? AND stock >= ?", id, storeID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	return res.RowsAffected, res.Error
}
