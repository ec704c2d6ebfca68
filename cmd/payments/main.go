package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/scynett/momopay/internal/pkg/config"
	"github.com/scynett/momopay/internal/pkg/health"
	"github.com/scynett/momopay/internal/pkg/logger"
	"github.com/scynett/momopay/internal/pkg/metrics"
	"github.com/scynett/momopay/internal/pkg/middleware"
	nrpkg "github.com/scynett/momopay/internal/pkg/newrelic"
	"github.com/scynett/momopay/internal/pkg/server"
	"github.com/scynett/momopay/services/payments/app"
	"github.com/scynett/momopay/services/payments/handler"
	"github.com/scynett/momopay/services/payments/worker"
)

func main() {
	appName := "payments-service"
	configPath := "config/payments.env"
	configs := config.InitConfig(configPath)

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	// Set global logger for application-wide access
	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
	)

	// Connect the configured ledgers and event broker, then build the use case
	components, err := app.Build(context.Background(), configs, appName)
	if err != nil {
		zapLogger.Fatal("Failed to initialize payment components", logger.Err(err))
	}

	// Background workers share one cancellable context
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	if configs.Worker.Enabled {
		reconciler := worker.NewReconciler(configs.Worker, components.PendingRepo, components.PaymentUC, components.EventGW, nrApp)
		workers.Add(1)
		go func() {
			defer workers.Done()
			reconciler.Run(workerCtx)
		}()
	}

	cleaner := worker.NewCleaner(configs.Cleanup, components.PendingRepo, nrApp)
	workers.Add(1)
	go func() {
		defer workers.Done()
		cleaner.Run(workerCtx)
	}()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.IPExtractor = echo.ExtractIPDirect()

	// Add middlewares (panic recovery should be first)
	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	e.Use(middleware.RequestIDMiddleware())
	if nrApp != nil {
		e.Use(nrecho.Middleware(nrApp))
	}
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	// Health, build info and metrics
	healthService := health.NewHealthService()
	components.RegisterHealthCheckers(healthService)
	health.RegisterEnhancedHealthEndpoints(e, appName, configs.App.Version, healthService)
	e.GET("/ping", health.NewPingHandler(appName))
	e.GET("/metrics", metrics.Handler())

	// Register service routes
	paymentsHandler := handler.NewHandler(components.PaymentUC, configs, components.RedisClient())
	paymentsHandler.RegisterRoutes(e)

	addr := fmt.Sprintf("%s:%d", configs.Server.Host, configs.Server.Port)
	srv := server.NewGracefulServer(e, addr, time.Duration(configs.Server.ShutdownTimeout)*time.Second)

	srv.OnShutdown("workers", func(ctx context.Context) error {
		stopWorkers()
		workers.Wait()
		return nil
	})
	srv.OnShutdown("clients", func(ctx context.Context) error {
		components.Close()
		return nil
	})
	if nrApp != nil {
		srv.OnShutdown("newrelic", func(ctx context.Context) error {
			nrApp.Shutdown(10 * time.Second)
			return nil
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		zapLogger.Error("Server stopped with error", logger.Err(err))
	}

	zapLogger.Info("Server exiting gracefully")
	_ = zapLogger.Sync()
}
