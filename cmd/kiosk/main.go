package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-kiosk-service/config"
	"github.com/fekuna/omnipos-kiosk-service/internal/console"
	"github.com/fekuna/omnipos-kiosk-service/internal/logger"
	"github.com/fekuna/omnipos-kiosk-service/internal/storage"

	customerUCPkg "github.com/fekuna/omnipos-kiosk-service/internal/customer/usecase"
	employeeUCPkg "github.com/fekuna/omnipos-kiosk-service/internal/employee/usecase"
	productUCPkg "github.com/fekuna/omnipos-kiosk-service/internal/product/usecase"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
		File:              cfg.Logger.File,
	}
	appLogger, err := logger.NewZapLogger(logConfig)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer appLogger.Sync() //nolint:errcheck

	provider, err := storage.ParseProvider(cfg.Storage.Provider)
	if err != nil {
		appLogger.Fatal("Invalid storage provider", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open storage; the provider is fixed for the life of the process
	store, err := storage.Open(ctx, provider, cfg.Postgres.Database(), appLogger)
	if err != nil {
		appLogger.Fatal("Could not open storage", zap.Error(err))
	}
	defer store.Close()

	// 4. Initialize UseCases
	customerUC := customerUCPkg.NewCustomerUseCase(store.Customers, appLogger)
	productUC := productUCPkg.NewProductUseCase(store.Products, appLogger)
	employeeUC := employeeUCPkg.NewEmployeeUseCase(store.Employees, appLogger)

	// 5. Run the console until exit, end of input or a signal
	rl, err := console.NewReadline(historyFile())
	if err != nil {
		appLogger.Fatal("Could not open terminal", zap.Error(err))
	}
	defer rl.Close()

	go func() {
		<-ctx.Done()
		_ = rl.Close()
	}()

	con := console.New(rl, rl.Stdout(), customerUC, productUC, employeeUC, appLogger)
	if err := con.Run(ctx); err != nil && ctx.Err() == nil {
		appLogger.Error("Console stopped", zap.Error(err))
	}
	appLogger.Info("Kiosk stopped")
}

func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "kiosk_history")
}
