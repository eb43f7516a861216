package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	pkgerrors "github.com/rmolina-dev/pos-backend/pkg/errors"
	"github.com/rmolina-dev/pos-backend/pkg/logger"
	"github.com/rmolina-dev/pos-backend/pkg/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productRepository interface {
	FindInStoreWithTx(tx *gorm.DB, storeID, id uuid.UUID) (*models.Product, error)
	DecrementStockWithTx(tx *gorm.DB, storeID, id uuid.UUID, quantity int) (int64, error)
}

type saleWriter interface {
	CreateWithTx(tx *gorm.DB, sale *models.Sale) error
}

// Service executes the checkout transaction.
type Service interface {
	Execute(ctx context.Context, storeID, userID uuid.UUID, req CheckoutRequest) (*Receipt, error)
}

type service struct {
	tx       txRunner
	products productRepository
	sales    saleWriter
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Tx          txRunner
	ProductRepo productRepository
	SaleRepo    saleWriter
	Metrics     *metrics.CheckoutMetrics
	Logger      *logger.Logger
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.SaleRepo == nil {
		return nil, fmt.Errorf("sale repository required")
	}
	return &service{
		tx:       params.Tx,
		products: params.ProductRepo,
		sales:    params.SaleRepo,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

func (s *service) Execute(ctx context.Context, storeID, userID uuid.UUID, req CheckoutRequest) (*Receipt, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if err := validateLines(req.Lines); err != nil {
		return nil, err
	}

	var sale *models.Sale
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		items := make(models.SaleItems, 0, len(req.Lines))
		total := decimal.Zero

		for _, line := range req.Lines {
			product, err := s.products.FindInStoreWithTx(tx, storeID, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
						WithDetails(map[string]any{"product_id": line.ProductID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
			}

			affected, err := s.products.DecrementStockWithTx(tx, storeID, line.ProductID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
			if affected == 0 {
				// The row read above may be stale by now, so the details
				// carry only what the caller submitted.
				s.rejected("insufficient_stock")
				return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
					WithDetails(map[string]any{
						"product_id": line.ProductID,
						"requested":  line.Quantity,
					})
			}

			// Price from the row read in-transaction, never the client echo.
			items = append(items, models.SaleItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  line.Quantity,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		sale = &models.Sale{
			StoreID: storeID,
			UserID:  userID,
			Total:   total.Round(2),
			Items:   items,
		}
		if err := s.sales.CreateWithTx(tx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record sale")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		units := 0
		for _, line := range req.Lines {
			units += line.Quantity
		}
		s.metrics.IncCompleted(units)
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"sale_id": sale.ID.String(),
			"total":   sale.Total.String(),
			"lines":   len(sale.Items),
		})
		s.logg.Info(logCtx, "checkout.completed")
	}

	return receiptFromSale(sale), nil
}

func (s *service) rejected(reason string) {
	if s.metrics != nil {
		s.metrics.IncRejected(reason)
	}
}

func validateLines(lines []CartLine) error {
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	var combined error
	for i, line := range lines {
		if line.ProductID == uuid.Nil {
			combined = multierr.Append(combined, fmt.Errorf("line %d: product id required", i))
		}
		if line.Quantity < 1 {
			combined = multierr.Append(combined, fmt.Errorf("line %d: quantity must be at least 1", i))
		}
	}
	if combined == nil {
		return nil
	}

	details := make([]string, 0)
	for _, err := range multierr.Errors(combined) {
		details = append(details, err.Error())
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, combined, "invalid cart").
		WithDetails(map[string]any{"lines": details})
}
