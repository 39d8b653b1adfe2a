package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/calyxlabs/herbcart-backend/api/routes"
	checkoutsvc "github.com/calyxlabs/herbcart-backend/internal/checkout"
	"github.com/calyxlabs/herbcart-backend/internal/coupons"
	"github.com/calyxlabs/herbcart-backend/internal/orders"
	"github.com/calyxlabs/herbcart-backend/internal/settings"
	"github.com/calyxlabs/herbcart-backend/pkg/config"
	"github.com/calyxlabs/herbcart-backend/pkg/db"
	"github.com/calyxlabs/herbcart-backend/pkg/logger"
	"github.com/calyxlabs/herbcart-backend/pkg/metrics"
	"github.com/calyxlabs/herbcart-backend/pkg/migrate"
	"github.com/calyxlabs/herbcart-backend/pkg/redis"
)

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

	settingsRepo := settings.NewRepository(dbClient.DB())
	if cfg.FeatureFlags.SeedBundles {
		if err := settings.Seed(context.Background(), settingsRepo, cfg.Pricing); err != nil {
			logg.Error(context.Background(), "failed to seed store settings", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	pricingMetrics := metrics.NewPricingMetrics(registry)

	couponsRepo := coupons.NewRepository(dbClient.DB())
	couponLoader := coupons.NewLoader(couponsRepo, redisClient, cfg.Pricing.CouponCacheTTL, logg)
	ordersRepo := orders.NewRepository(dbClient.DB())

	checkoutService, err := checkoutsvc.NewService(
		dbClient,
		couponLoader,
		couponsRepo,
		ordersRepo,
		settingsRepo,
		cfg.Pricing,
		pricingMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, checkoutService, ordersRepo, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
