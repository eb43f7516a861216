package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/rmolina-dev/pos-backend/internal/auth"
	checkoutsvc "github.com/rmolina-dev/pos-backend/internal/checkout"
	productsvc "github.com/rmolina-dev/pos-backend/internal/products"
	resetsvc "github.com/rmolina-dev/pos-backend/internal/resets"
	salesvc "github.com/rmolina-dev/pos-backend/internal/sales"
	storesvc "github.com/rmolina-dev/pos-backend/internal/stores"
	usersvc "github.com/rmolina-dev/pos-backend/internal/users"
	pkgAuth "github.com/rmolina-dev/pos-backend/pkg/auth"
	"github.com/rmolina-dev/pos-backend/pkg/config"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
	"github.com/rmolina-dev/pos-backend/pkg/logger"
	"github.com/rmolina-dev/pos-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{}, nil
}

func (stubAuthService) Signup(context.Context, authsvc.Actor, authsvc.SignupRequest) (*authsvc.SignupResponse, error) {
	return &authsvc.SignupResponse{}, nil
}

func (stubAuthService) Logout(context.Context, string) error {
	return nil
}

type stubStoreService struct{}

func (stubStoreService) Create(context.Context, storesvc.CreateStoreRequest) (*storesvc.StoreDTO, error) {
	return &storesvc.StoreDTO{}, nil
}

func (stubStoreService) Rename(context.Context, uuid.UUID, storesvc.RenameStoreRequest) (*storesvc.StoreDTO, error) {
	return &storesvc.StoreDTO{}, nil
}

func (stubStoreService) Delete(context.Context, uuid.UUID) error {
	return nil
}

func (stubStoreService) List(context.Context) ([]storesvc.StoreDTO, error) {
	return nil, nil
}

func (stubStoreService) Get(context.Context, uuid.UUID) (*storesvc.StoreDTO, error) {
	return &storesvc.StoreDTO{}, nil
}

func (stubStoreService) AdminStore(context.Context) (*storesvc.StoreDTO, error) {
	return &storesvc.StoreDTO{}, nil
}

type stubProductService struct{}

func (stubProductService) Create(context.Context, uuid.UUID, productsvc.CreateProductRequest) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) Update(context.Context, uuid.UUID, uuid.UUID, productsvc.UpdateProductRequest) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (stubProductService) List(context.Context, uuid.UUID) ([]productsvc.ProductDTO, error) {
	return nil, nil
}

func (stubProductService) ListAll(context.Context, uuid.UUID) ([]productsvc.AdminProductDTO, error) {
	return nil, nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Execute(context.Context, uuid.UUID, uuid.UUID, checkoutsvc.CheckoutRequest) (*checkoutsvc.Receipt, error) {
	return &checkoutsvc.Receipt{}, nil
}

type stubSalesService struct{}

func (stubSalesService) ListByStore(context.Context, uuid.UUID, pagination.Params) (*salesvc.Page, error) {
	return &salesvc.Page{}, nil
}

func (stubSalesService) ListAll(context.Context, pagination.Params) (*salesvc.Page, error) {
	return &salesvc.Page{}, nil
}

type stubUsersService struct{}

func (stubUsersService) ListCashiers(context.Context, uuid.UUID) ([]usersvc.UserDTO, error) {
	return nil, nil
}

func (stubUsersService) SetCashierActive(context.Context, uuid.UUID, uuid.UUID, bool) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{}, nil
}

func (stubUsersService) ListManagers(context.Context) ([]usersvc.ManagerDTO, error) {
	return nil, nil
}

type stubResetsService struct{}

func (stubResetsService) Request(context.Context, string) error {
	return nil
}

func (stubResetsService) ListPending(context.Context) ([]resetsvc.RequestDTO, error) {
	return nil, nil
}

func (stubResetsService) Resolve(context.Context, uuid.UUID) (*resetsvc.ResolveResult, error) {
	return &resetsvc.ResolveResult{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		Session: config.SessionConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
			CookieName:        "session",
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil, // redis client; rate limit policies are disabled in testConfig
		stubSessionChecker{},
		nil, // http metrics
		Services{
			Auth:     stubAuthService{},
			Stores:   stubStoreService{},
			Products: stubProductService{},
			Checkout: stubCheckoutService{},
			Sales:    stubSalesService{},
			Users:    stubUsersService{},
			Resets:   stubResetsService{},
		},
	)
}

func mintToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintSessionToken(cfg.Session, time.Now(), pkgAuth.SessionPayload{
		UserID:  uuid.New(),
		StoreID: uuid.New(),
		Name:    "Test Operator",
		Email:   "operator@shop.test",
		Active:  true,
		Role:    role,
		JTI:     uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthEndpointsArePublic(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestStoreAreaRejectsMissingSession(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/store/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestStoreAreaRedirectsBrowsersToLogin(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/store/products", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected /login redirect, got %q", loc)
	}
}

func TestAdminAreaRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/admin/stores", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.RoleStoreManager))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for manager, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/stores", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.RoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestManagerAreaExcludesCashiers(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/store/products", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.RoleCashier))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for cashier, got %d", rec.Code)
	}
}

func TestMismatchedBrowserLandsOnOwnDashboard(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/store/products", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: cfg.Session.CookieName, Value: mintToken(t, cfg, enums.RoleCashier)})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/store/cart" {
		t.Fatalf("expected cashier dashboard redirect, got %q", loc)
	}
}

func TestCartAreaAllowsCashiersAndManagers(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	for _, role := range []enums.Role{enums.RoleCashier, enums.RoleStoreManager} {
		req := httptest.NewRequest(http.MethodGet, "/store/cart/products", nil)
		req.AddCookie(&http.Cookie{Name: cfg.Session.CookieName, Value: mintToken(t, cfg, role)})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("role %s: expected 200, got %d", role, rec.Code)
		}
	}
}
