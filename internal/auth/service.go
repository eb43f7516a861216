package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/internal/users"
	pkgAuth "github.com/rmolina-dev/pos-backend/pkg/auth"
	"github.com/rmolina-dev/pos-backend/pkg/config"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
	pkgerrors "github.com/rmolina-dev/pos-backend/pkg/errors"
	"github.com/rmolina-dev/pos-backend/pkg/security"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Signup(ctx context.Context, actor Actor, req SignupRequest) (*SignupResponse, error)
	Logout(ctx context.Context, sessionID string) error
}

// Actor identifies the authenticated caller performing an operation.
type Actor struct {
	UserID  uuid.UUID
	StoreID uuid.UUID
	Role    enums.Role
}

type service struct {
	users       userRepository
	session     sessionManager
	sessionCfg  config.SessionConfig
	passwordCfg config.PasswordConfig
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailInStore(ctx context.Context, storeID uuid.UUID, email string) (*models.User, error)
}

type sessionManager interface {
	Create(ctx context.Context, sessionID, userID string) error
	Revoke(ctx context.Context, sessionID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	SessionConfig  config.SessionConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:       params.UserRepo,
		session:     params.SessionManager,
		sessionCfg:  params.SessionConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	// Deactivated accounts fail identically to wrong passwords.
	if !user.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	sessionID := pkgAuth.NewSessionID()
	token, err := pkgAuth.MintSessionToken(s.sessionCfg, time.Now(), pkgAuth.SessionPayload{
		UserID:  user.ID,
		StoreID: user.StoreID,
		Name:    user.Name,
		Email:   user.Email,
		Active:  user.Active,
		Role:    user.Role,
		JTI:     sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	if err := s.session.Create(ctx, sessionID, user.ID.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register session")
	}

	return &LoginResponse{
		Token:    token,
		User:     users.FromModel(user),
		Redirect: user.Role.DashboardPath(),
	}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	if err := s.session.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}
