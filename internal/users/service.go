package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
	pkgerrors "github.com/rmolina-dev/pos-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the users controllers.
type Service interface {
	ListCashiers(ctx context.Context, storeID uuid.UUID) ([]UserDTO, error)
	SetCashierActive(ctx context.Context, storeID, userID uuid.UUID, active bool) (*UserDTO, error)
	ListManagers(ctx context.Context) ([]ManagerDTO, error)
}

type service struct {
	users  userRepository
	stores storeRepository
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByRoleInStore(ctx context.Context, storeID uuid.UUID, role enums.Role) ([]models.User, error)
	ListByRole(ctx context.Context, role enums.Role) ([]models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type storeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	UserRepo  userRepository
	StoreRepo storeRepository
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.StoreRepo == nil {
		return nil, fmt.Errorf("store repository is required")
	}
	return &service{users: params.UserRepo, stores: params.StoreRepo}, nil
}

func (s *service) ListCashiers(ctx context.Context, storeID uuid.UUID) ([]UserDTO, error) {
	rows, err := s.users.ListByRoleInStore(ctx, storeID, enums.RoleCashier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cashiers")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) SetCashierActive(ctx context.Context, storeID, userID uuid.UUID, active bool) (*UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cashier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cashier")
	}
	// Managers may only manage their own store's cashiers.
	if user.StoreID != storeID || user.Role != enums.RoleCashier {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cashier not found")
	}

	if err := s.users.SetActive(ctx, userID, active); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cashier")
	}
	user.Active = active
	return FromModel(user), nil
}

func (s *service) ListManagers(ctx context.Context) ([]ManagerDTO, error) {
	rows, err := s.users.ListByRole(ctx, enums.RoleStoreManager)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list managers")
	}

	out := make([]ManagerDTO, 0, len(rows))
	for i := range rows {
		dto := ManagerDTO{UserDTO: *FromModel(&rows[i])}
		if store, err := s.stores.FindByID(ctx, rows[i].StoreID); err == nil && store != nil {
			dto.StoreName = store.Name
		}
		out = append(out, dto)
	}
	return out, nil
}
