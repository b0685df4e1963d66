package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/api"
	"fintrack/internal/api/handlers"
	"fintrack/internal/service"
	"fintrack/internal/settings"
	"fintrack/internal/storage"
	"fintrack/pkg/config"
	"fintrack/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// @title fintrack API
// @version 1.0
// @description Personal finance tracker: transactions, CSV import and spending analytics

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3001
// @BasePath /

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting fintrack service", zap.String("storage", cfg.Storage.Backend))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("Service stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	appLogger.Info("Service stopped")
}

func run(ctx context.Context, cfg *config.Config, appLogger *zap.Logger) error {
	backend, err := storage.Open(ctx, cfg, logger.Named("repository"))
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer backend.Close()

	// Initialize services
	txService := service.NewTransactionService(backend.Store, logger.Named("transactions"))
	analyticsService := service.NewAnalyticsService(backend.Store, logger.Named("analytics"))
	importService := service.NewImportService(txService, logger.Named("imports"))

	settingsManager := settings.NewManager(settings.NewFileStore(cfg.Settings.FilePath), logger.Named("settings"))
	settingsManager.Initialize(ctx)

	// Initialize handlers
	app := api.SetupRouter(api.Handlers{
		Transactions: handlers.NewTransactionHandler(txService, appLogger),
		Analytics:    handlers.NewAnalyticsHandler(analyticsService, appLogger),
		Imports:      handlers.NewImportHandler(importService, appLogger),
		Settings:     handlers.NewSettingsHandler(settingsManager, appLogger),
		Health:       handlers.NewHealthHandler(backend.Store, appLogger),
	}, cfg.Server, appLogger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
