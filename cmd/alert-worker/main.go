package main

import (
	"context"
	"errors"
	"os"
	"time"

	"timeworth/internal/cache"
	"timeworth/internal/cli"
	applog "timeworth/internal/log"
	"timeworth/internal/notify"
	"timeworth/internal/services"
	"timeworth/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting alert-worker")
	cfg := cli.LoadAndValidateConfig(logger)

	be := cli.InitBackend(context.Background(), logger, cfg)
	budgets := services.NewBudgetService(be.Backend, cfg.Location())

	cooldown := notify.NewCooldown(notify.NewLogNotifier(logger), cfg.AlertCooldown, cfg.StatsCacheSize, logger)
	cacheManager := cache.NewManager(logger.WithComponent(applog.ComponentCache).Logger)
	cacheManager.Register(cooldown.Cache())
	cacheManager.StartCleanup(time.Minute)

	alertWorker := worker.NewAlertWorker(cooldown, budgets, logger)
	amqpClient := cli.InitAMQP(logger, cfg)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		logger.Info("Shutting down worker...")
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

	// On startup, evaluate budgets once to catch alerts missed while down
	if n, err := alertWorker.SweepBudgets(ctx); err != nil {
		logger.Error("Startup budget sweep failed", "error", err, applog.FieldOperation, applog.OpStartup)
	} else {
		logger.Info("Startup budget sweep completed", "alerts", n, applog.FieldOperation, applog.OpStartup)
	}

	go alertWorker.RunSweeps(ctx, cfg.AlertSweepInterval)

	if amqpClient != nil {
		go func() {
			if err := amqpClient.ConsumeAlerts(ctx, alertWorker.Handle); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Alert consumption failed", "error", err)
			}
		}()
	} else {
		logger.Info("Skipping AMQP consumption - running budget sweeps only")
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete", "suppressed_alerts", cooldown.Suppressed())
}
