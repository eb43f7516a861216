package resets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/config"
	"github.com/rmolina-dev/pos-backend/pkg/db"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
	pkgerrors "github.com/rmolina-dev/pos-backend/pkg/errors"
	"github.com/rmolina-dev/pos-backend/pkg/logger"
	"github.com/rmolina-dev/pos-backend/pkg/security"
	"gorm.io/gorm"
)

const tempPasswordLength = 12

// Service defines the password-reset workflow.
type Service interface {
	// Request records (or re-arms) a reset request. It never discloses
	// whether the email exists.
	Request(ctx context.Context, email string) error
	ListPending(ctx context.Context) ([]RequestDTO, error)
	Resolve(ctx context.Context, userID uuid.UUID) (*ResolveResult, error)
}

type service struct {
	requests    resetRepository
	users       userRepository
	stores      storeLookup
	tx          txRunner
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

type resetRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.PasswordResetRequest, error)
	Create(ctx context.Context, userID uuid.UUID) (*models.PasswordResetRequest, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.ResetStatus) error
	SetStatusWithTx(tx *gorm.DB, id uuid.UUID, status enums.ResetStatus) error
	ListByStatus(ctx context.Context, status enums.ResetStatus) ([]models.PasswordResetRequest, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePasswordHashWithTx(tx *gorm.DB, id uuid.UUID, hash string) error
}

type storeLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies required to build a resets service.
type ServiceParams struct {
	ResetRepo      resetRepository
	UserRepo       userRepository
	StoreRepo      storeLookup
	Tx             txRunner
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

// NewService constructs a resets service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ResetRepo == nil {
		return nil, fmt.Errorf("reset repository is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	return &service{
		requests:    params.ResetRepo,
		users:       params.UserRepo,
		stores:      params.StoreRepo,
		tx:          params.Tx,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
	}, nil
}

func (s *service) Request(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same outcome as success so callers cannot enumerate accounts.
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	existing, err := s.requests.FindByUser(ctx, user.ID)
	switch {
	case err == nil:
		if existing.Status == enums.ResetStatusPending {
			return nil
		}
		if err := s.requests.SetStatus(ctx, existing.ID, enums.ResetStatusPending); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "re-arm reset request")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if _, err := s.requests.Create(ctx, user.ID); err != nil {
			// A concurrent request already created the row; same outcome.
			if db.IsUniqueViolation(err, "idx_password_reset_requests_user") {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create reset request")
		}
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load reset request")
	}

	if s.logg != nil {
		logCtx := s.logg.WithUserID(ctx, user.ID.String())
		s.logg.Info(logCtx, "reset.requested")
	}
	return nil
}

func (s *service) ListPending(ctx context.Context) ([]RequestDTO, error) {
	rows, err := s.requests.ListByStatus(ctx, enums.ResetStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reset requests")
	}

	out := make([]RequestDTO, 0, len(rows))
	for i := range rows {
		dto := *FromModel(&rows[i])
		if user, err := s.users.FindByID(ctx, rows[i].UserID); err == nil && user != nil {
			dto.UserName = user.Name
			dto.UserEmail = user.Email
			if s.stores != nil {
				if store, err := s.stores.FindByID(ctx, user.StoreID); err == nil && store != nil {
					dto.StoreName = store.Name
				}
			}
		}
		out = append(out, dto)
	}
	return out, nil
}

func (s *service) Resolve(ctx context.Context, userID uuid.UUID) (*ResolveResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	request, err := s.requests.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reset request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load reset request")
	}
	if request.Status != enums.ResetStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "reset request already resolved")
	}

	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
	}
	hash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash temp password")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.users.UpdatePasswordHashWithTx(tx, userID, hash); err != nil {
			return err
		}
		return s.requests.SetStatusWithTx(tx, request.ID, enums.ResetStatusCompleted)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve reset request")
	}

	if s.logg != nil {
		logCtx := s.logg.WithUserID(ctx, userID.String())
		s.logg.Info(logCtx, "reset.resolved")
	}

	// The plaintext leaves the process exactly once, in this response.
	return &ResolveResult{UserID: userID, TempPassword: tempPassword}, nil
}
