package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	pkgerrors "github.com/rmolina-dev/pos-backend/pkg/errors"
	"github.com/rmolina-dev/pos-backend/pkg/pagination"
)

// Service defines the behavior needed by the sales controllers.
type Service interface {
	ListByStore(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*Page, error)
	ListAll(ctx context.Context, params pagination.Params) (*Page, error)
}

type service struct {
	sales  saleRepository
	users  userLookup
	stores storeLookup
}

type saleRepository interface {
	ListByStore(ctx context.Context, storeID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Sale, error)
	ListAll(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Sale, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type storeLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// ServiceParams bundles the dependencies required to build a sales service.
type ServiceParams struct {
	SaleRepo  saleRepository
	UserRepo  userLookup
	StoreRepo storeLookup
}

// NewService constructs a sales service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.SaleRepo == nil {
		return nil, fmt.Errorf("sale repository is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.StoreRepo == nil {
		return nil, fmt.Errorf("store repository is required")
	}
	return &service{
		sales:  params.SaleRepo,
		users:  params.UserRepo,
		stores: params.StoreRepo,
	}, nil
}

func (s *service) ListByStore(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.sales.ListByStore(ctx, storeID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sales")
	}
	return s.buildPage(ctx, rows, params.Limit, false), nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.sales.ListAll(ctx, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sales")
	}
	return s.buildPage(ctx, rows, params.Limit, true), nil
}

func (s *service) buildPage(ctx context.Context, rows []models.Sale, limit int, withStore bool) *Page {
	pageSize := pagination.NormalizeLimit(limit)
	hasMore := len(rows) > pageSize
	if hasMore {
		rows = rows[:pageSize]
	}

	userNames := map[uuid.UUID]string{}
	storeNames := map[uuid.UUID]string{}

	page := &Page{Sales: make([]SaleDTO, 0, len(rows))}
	for i := range rows {
		dto := *FromModel(&rows[i])

		if name, ok := userNames[rows[i].UserID]; ok {
			dto.UserName = name
		} else if user, err := s.users.FindByID(ctx, rows[i].UserID); err == nil && user != nil {
			userNames[rows[i].UserID] = user.Name
			dto.UserName = user.Name
		}

		if withStore {
			if name, ok := storeNames[rows[i].StoreID]; ok {
				dto.StoreName = name
			} else if store, err := s.stores.FindByID(ctx, rows[i].StoreID); err == nil && store != nil {
				storeNames[rows[i].StoreID] = store.Name
				dto.StoreName = store.Name
			}
		}

		page.Sales = append(page.Sales, dto)
	}

	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page
}
