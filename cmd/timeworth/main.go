package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"timeworth/internal/cache"
	"timeworth/internal/cli"
	"timeworth/internal/core"
	apphttp "timeworth/internal/http"
	applog "timeworth/internal/log"
	"timeworth/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	loc := cfg.Location()

	ctx := context.Background()
	be := cli.InitBackend(ctx, logger, cfg)
	store := be.Backend

	amqpClient := cli.InitAMQP(logger, cfg)
	notifier, cooldown := cli.AlertNotifier(logger, amqpClient, cfg)

	statsCache := cache.NewLRUCache[any](cfg.StatsCacheSize, cfg.StatsCacheTTL)
	cacheManager := cache.NewManager(logger.WithComponent(applog.ComponentCache).Logger)
	cacheManager.Register(statsCache)
	if cooldown != nil {
		cacheManager.Register(cooldown.Cache())
	}
	cacheManager.StartCleanup(cfg.StatsCacheTTL)

	settings := core.DefaultSettings()
	settings.CompoundInterestRate = cfg.CompoundInterestRate
	settings.WorkHoursPerDay = cfg.WorkHoursPerDay

	profile := services.NewProfileService(store, services.Defaults{HoursPerWeek: cfg.HoursPerWeek, Settings: settings})
	budgets := services.NewBudgetService(store, loc)
	goalSvc := services.NewGoalService(store)
	ledger := services.NewLedgerService(store, goalSvc, budgets, profile, notifier, logger)
	analytics := services.NewAnalyticsService(store, profile, statsCache, loc)
	ledger.Subscribe(analytics)
	profile.Subscribe(analytics)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Services{
		Profile:   profile,
		Ledger:    ledger,
		Budgets:   budgets,
		Goals:     goalSvc,
		Analytics: analytics,
	}, apphttp.Options{
		CORSOrigins:        cfg.CORSOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Location:           loc,
	}, logger)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cacheManager.Stop()
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", "error", err)
			}
		}
		if be.Cleanup != nil {
			if err := be.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting timeworth server", "port", cfg.Port, "backend", cfg.DataBackend, "timezone", loc.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
