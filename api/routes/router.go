package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmolina-dev/pos-backend/api/controllers"
	"github.com/rmolina-dev/pos-backend/api/middleware"
	authsvc "github.com/rmolina-dev/pos-backend/internal/auth"
	checkoutsvc "github.com/rmolina-dev/pos-backend/internal/checkout"
	productsvc "github.com/rmolina-dev/pos-backend/internal/products"
	resetsvc "github.com/rmolina-dev/pos-backend/internal/resets"
	salesvc "github.com/rmolina-dev/pos-backend/internal/sales"
	storesvc "github.com/rmolina-dev/pos-backend/internal/stores"
	usersvc "github.com/rmolina-dev/pos-backend/internal/users"
	"github.com/rmolina-dev/pos-backend/pkg/auth/session"
	"github.com/rmolina-dev/pos-backend/pkg/config"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
	"github.com/rmolina-dev/pos-backend/pkg/logger"
	"github.com/rmolina-dev/pos-backend/pkg/metrics"
	redisclient "github.com/rmolina-dev/pos-backend/pkg/redis"
)

// Services groups the domain services the router exposes.
type Services struct {
	Auth     authsvc.Service
	Stores   storesvc.Service
	Products productsvc.Service
	Checkout checkoutsvc.Service
	Sales    salesvc.Service
	Users    usersvc.Service
	Resets   resetsvc.Service
}

// NewRouter assembles the HTTP surface: public auth and health endpoints,
// then role-partitioned admin and store areas behind the session guard.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database controllers.Pinger,
	redisClient *redisclient.Client,
	sessions session.Checker,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	resetPolicy := middleware.NewAuthRateLimitPolicy(
		"forgot_password",
		cfg.AuthRateLimit.ResetWindow,
		cfg.AuthRateLimit.ResetIPLimit,
		cfg.AuthRateLimit.ResetEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, redisClient, logg))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(svcs.Auth, cfg, logg))
		r.With(middleware.AuthRateLimit(resetPolicy, redisClient, logg)).
			Post("/forgot-password", controllers.AuthForgotPassword(svcs.Resets, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Session, sessions, logg))
			r.With(middleware.RequireRoles(logg, enums.RoleAdmin, enums.RoleStoreManager)).
				Post("/signup", controllers.AuthSignup(svcs.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg, logg))
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Session, sessions, logg))
		r.Use(middleware.RequireRoles(logg, enums.RoleAdmin))

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", controllers.AdminListStores(svcs.Stores, logg))
			r.Post("/", controllers.AdminCreateStore(svcs.Stores, logg))
			r.Patch("/{storeID}", controllers.AdminRenameStore(svcs.Stores, logg))
			r.Delete("/{storeID}", controllers.AdminDeleteStore(svcs.Stores, logg))
		})
		r.Get("/store", controllers.AdminStore(svcs.Stores, logg))
		r.Get("/products", controllers.AdminListProducts(svcs.Products, logg))
		r.Get("/sales", controllers.AdminListSales(svcs.Sales, logg))
		r.Get("/managers", controllers.AdminListManagers(svcs.Users, logg))
		r.Route("/reset-requests", func(r chi.Router) {
			r.Get("/", controllers.AdminListResetRequests(svcs.Resets, logg))
			r.Post("/{userID}/resolve", controllers.AdminResolveResetRequest(svcs.Resets, logg))
		})
	})

	r.Route("/store", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Session, sessions, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.RoleStoreManager))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.StoreListProducts(svcs.Products, logg))
				r.Post("/", controllers.StoreCreateProduct(svcs.Products, logg))
				r.Patch("/{productID}", controllers.StoreUpdateProduct(svcs.Products, logg))
				r.Delete("/{productID}", controllers.StoreDeleteProduct(svcs.Products, logg))
			})
			r.Get("/sales", controllers.StoreListSales(svcs.Sales, logg))
			r.Route("/cashiers", func(r chi.Router) {
				r.Get("/", controllers.StoreListCashiers(svcs.Users, logg))
				r.Post("/{userID}/active", controllers.StoreSetCashierActive(svcs.Users, logg))
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.RoleCashier, enums.RoleStoreManager))

			r.Get("/products", controllers.StoreListProducts(svcs.Products, logg))
			r.Post("/checkout", controllers.StoreCheckout(svcs.Checkout, logg))
		})
	})

	return r
}
