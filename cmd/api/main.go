package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rmolina-dev/pos-backend/api/routes"
	authsvc "github.com/rmolina-dev/pos-backend/internal/auth"
	checkoutsvc "github.com/rmolina-dev/pos-backend/internal/checkout"
	productsvc "github.com/rmolina-dev/pos-backend/internal/products"
	resetsvc "github.com/rmolina-dev/pos-backend/internal/resets"
	salesvc "github.com/rmolina-dev/pos-backend/internal/sales"
	storesvc "github.com/rmolina-dev/pos-backend/internal/stores"
	usersvc "github.com/rmolina-dev/pos-backend/internal/users"
	"github.com/rmolina-dev/pos-backend/pkg/auth/session"
	"github.com/rmolina-dev/pos-backend/pkg/config"
	"github.com/rmolina-dev/pos-backend/pkg/db"
	"github.com/rmolina-dev/pos-backend/pkg/logger"
	"github.com/rmolina-dev/pos-backend/pkg/metrics"
	"github.com/rmolina-dev/pos-backend/pkg/migrate"
	redisclient "github.com/rmolina-dev/pos-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redisclient.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)
	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	gdb := dbClient.DB()
	userRepo := usersvc.NewRepository(gdb)
	storeRepo := storesvc.NewRepository(gdb)
	productRepo := productsvc.NewRepository(gdb)
	saleRepo := salesvc.NewRepository(gdb)
	resetRepo := resetsvc.NewRepository(gdb)

	if err := authsvc.EnsureAdmin(context.Background(), userRepo, storeRepo, cfg.Bootstrap, cfg.Password, logg); err != nil {
		logg.Error(context.Background(), "failed to bootstrap admin account", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		SessionConfig:  cfg.Session,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	storeService, err := storesvc.NewService(storesvc.ServiceParams{Repo: storeRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productsvc.ServiceParams{
		Repo:   productRepo,
		Stores: storeRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Tx:          dbClient,
		ProductRepo: productRepo,
		SaleRepo:    saleRepo,
		Metrics:     checkoutMetrics,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	salesService, err := salesvc.NewService(salesvc.ServiceParams{
		SaleRepo:  saleRepo,
		UserRepo:  userRepo,
		StoreRepo: storeRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}

	usersService, err := usersvc.NewService(usersvc.ServiceParams{
		UserRepo:  userRepo,
		StoreRepo: storeRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	resetsService, err := resetsvc.NewService(resetsvc.ServiceParams{
		ResetRepo:      resetRepo,
		UserRepo:       userRepo,
		StoreRepo:      storeRepo,
		Tx:             dbClient,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create resets service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, httpMetrics, routes.Services{
			Auth:     authService,
			Stores:   storeService,
			Products: productService,
			Checkout: checkoutService,
			Sales:    salesService,
			Users:    usersService,
			Resets:   resetsService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop:
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
