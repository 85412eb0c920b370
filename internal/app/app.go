// Package app wires configuration, storage, and services into a shared core.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ashir876/catch-collect/internal/common"
	"github.com/ashir876/catch-collect/internal/interfaces"
	"github.com/ashir876/catch-collect/internal/services/pricing"
	"github.com/ashir876/catch-collect/internal/services/valuation"
	"github.com/ashir876/catch-collect/internal/storage/surrealdb"
)

// App holds all initialized services and storage.
// It is the shared core used by cmd/collect-server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	PricingService   interfaces.PricingService
	ValuationService interfaces.ValuationService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Load configuration - check provided path, COLLECT_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("COLLECT_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "collect.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/collect.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	pricingService := pricing.NewService(storageManager, logger)
	valuationService := valuation.NewService(storageManager, pricingService, config, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		PricingService:   pricingService,
		ValuationService: valuationService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
