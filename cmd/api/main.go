package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/routes"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/internal/dashboard"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/internal/devices"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/internal/ledger"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/internal/vendors"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/config"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/db"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/logger"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/metrics"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/outbox"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/redis"
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

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	ledgerService, err := ledger.NewService(
		ledger.NewRepository(dbClient.DB()),
		dbClient,
		ledger.NewBalanceApplier(),
		outboxService,
		metrics.NewLedgerMetrics(prometheus.DefaultRegisterer),
		cfg.Ledger.ConflictRetries,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(
		dashboard.NewRepository(dbClient.DB()),
		redisClient,
		cfg.Dashboard.CacheTTL,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	deviceService, err := devices.NewService(
		devices.NewRepository(dbClient.DB()),
		dbClient,
		ledger.NewBalanceApplier(),
		outboxService,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create device service", err)
		os.Exit(1)
	}

	vendorService, err := vendors.NewService(vendors.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create vendor service", err)
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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			ledgerService,
			dashboardService,
			deviceService,
			vendorService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
