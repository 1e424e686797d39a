package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lumiere-jewels/lumiere-backend/api/routes"
	"github.com/lumiere-jewels/lumiere-backend/internal/auth"
	"github.com/lumiere-jewels/lumiere-backend/internal/cart"
	"github.com/lumiere-jewels/lumiere-backend/internal/catalog"
	checkoutsvc "github.com/lumiere-jewels/lumiere-backend/internal/checkout"
	"github.com/lumiere-jewels/lumiere-backend/internal/coupons"
	"github.com/lumiere-jewels/lumiere-backend/internal/customers"
	"github.com/lumiere-jewels/lumiere-backend/internal/orders"
	"github.com/lumiere-jewels/lumiere-backend/internal/settings"
	"github.com/lumiere-jewels/lumiere-backend/internal/wishlist"
	"github.com/lumiere-jewels/lumiere-backend/pkg/auth/session"
	"github.com/lumiere-jewels/lumiere-backend/pkg/config"
	"github.com/lumiere-jewels/lumiere-backend/pkg/db"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
	"github.com/lumiere-jewels/lumiere-backend/pkg/migrate"
	"github.com/lumiere-jewels/lumiere-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	customerRepo := customers.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	couponRepo := coupons.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	settingsRepo := settings.NewRepository(gormDB)

	if err := auth.EnsureAdmin(context.Background(), customerRepo, cfg.Admin, cfg.Password, logg); err != nil {
		logg.Error(context.Background(), "failed to seed admin account", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settingsRepo, cfg.Store)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       customerRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	couponsService, err := coupons.NewService(couponRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupons service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		CartRepo:    cartRepo,
		CatalogRepo: catalogRepo,
		CouponSvc:   couponsService,
		SettingsSvc: settingsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlist.NewRepository(gormDB),
		CatalogRepo:  catalogRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	customerService, err := customers.NewService(customerRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orderRepo, catalogRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		CartRepo:     cartRepo,
		CatalogRepo:  catalogRepo,
		CouponRepo:   couponRepo,
		OrderRepo:    orderRepo,
		CustomerRepo: customerRepo,
		SettingsSvc:  settingsService,
		Tx:           dbClient,
		Sequencer:    redisClient,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		RedisClient:    redisClient,
		SessionManager: sessionManager,
		Registry:       registry,
		ReadyProbes: map[string]func() error{
			"postgres": func() error { return dbClient.Ping(context.Background()) },
			"redis":    func() error { return redisClient.Ping(context.Background()) },
		},
		AuthService:     authService,
		CatalogService:  catalogService,
		CartService:     cartService,
		WishlistService: wishlistService,
		CheckoutService: checkoutService,
		OrdersService:   ordersService,
		CouponsService:  couponsService,
		CustomerService: customerService,
		SettingsService: settingsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server shut down gracefully")
}
