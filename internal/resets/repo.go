package resets

import (
	"context"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository handles password-reset request persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to reset-request operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUser loads the user's reset request if one exists.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.PasswordResetRequest, error) {
	var req models.PasswordResetRequest
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts a pending reset request for the user.
func (r *Repository) Create(ctx context.Context, userID uuid.UUID) (*models.PasswordResetRequest, error) {
	req := &models.PasswordResetRequest{
		UserID: userID,
		Status: enums.ResetStatusPending,
	}
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// SetStatus updates the request's status.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status enums.ResetStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.PasswordResetRequest{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetStatusWithTx updates the request's status inside the provided transaction.
func (r *Repository) SetStatusWithTx(tx *gorm.DB, id uuid.UUID, status enums.ResetStatus) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	res := tx.Model(&models.PasswordResetRequest{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByStatus returns requests with the given status, oldest first.
func (r *Repository) ListByStatus(ctx context.Context, status enums.ResetStatus) ([]models.PasswordResetRequest, error) {
	var rows []models.PasswordResetRequest
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
