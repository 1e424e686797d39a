package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lumiere-jewels/lumiere-backend/internal/cart"
	"github.com/lumiere-jewels/lumiere-backend/internal/catalog"
	"github.com/lumiere-jewels/lumiere-backend/internal/coupons"
	"github.com/lumiere-jewels/lumiere-backend/internal/cron"
	"github.com/lumiere-jewels/lumiere-backend/pkg/config"
	"github.com/lumiere-jewels/lumiere-backend/pkg/db"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
	"github.com/lumiere-jewels/lumiere-backend/pkg/metrics"
	"github.com/lumiere-jewels/lumiere-backend/pkg/migrate"
	"github.com/lumiere-jewels/lumiere-backend/pkg/redis"
)

const lockKeyFormat = "lumiere:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	gormDB := dbClient.DB()
	catalogRepo := catalog.NewRepository(gormDB)
	catalogService, err := catalog.NewService(catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	couponExpiryJob, err := cron.NewCouponExpiryJob(cron.CouponExpiryJobParams{
		Logger:  logg,
		Coupons: coupons.NewRepository(gormDB),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon expiry job", err)
		os.Exit(1)
	}

	abandonedCartJob, err := cron.NewAbandonedCartJob(cron.AbandonedCartJobParams{
		Logger:    logg,
		Carts:     cart.NewRepository(gormDB),
		Retention: cfg.Cron.CartRetention,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create abandoned cart job", err)
		os.Exit(1)
	}

	lowStockJob, err := cron.NewLowStockJob(cron.LowStockJobParams{
		Logger:  logg,
		Catalog: catalogService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create low stock job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(couponExpiryJob, abandonedCartJob, lowStockJob)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.TickInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"jobs": len(registry.Jobs()),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
