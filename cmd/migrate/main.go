package main

import (
	"context"
	"os"
	"time"

	"github.com/reoutfit/reoutfit-backend/config"
	"github.com/reoutfit/reoutfit-backend/internal/bootstrap"
	"github.com/reoutfit/reoutfit-backend/internal/logging"
	"github.com/reoutfit/reoutfit-backend/internal/storage/postgres"
	"github.com/reoutfit/reoutfit-backend/migrations"
)

func main() {
	cfg, err := config.LoadDatabase()
	if err != nil {
		logging.Setup("development", "info").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.App.Environment, cfg.App.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := bootstrap.OpenPool(ctx, &cfg.Database, bootstrap.DBOptions{ConnectTO: 10 * time.Second})
	if err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool, migrations.FS)
	if err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations complete", "applied", applied)
}
