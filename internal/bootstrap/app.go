package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/reoutfit/reoutfit-backend/config"
	profilecache "github.com/reoutfit/reoutfit-backend/internal/profiles/cache"
	"github.com/reoutfit/reoutfit-backend/internal/scheduler"
	"github.com/reoutfit/reoutfit-backend/internal/storage/postgres"
)

const ServiceName = "reoutfit-api"

// App owns the process-wide resources of the API server.
type App struct {
	Router    *gin.Engine
	Scheduler *scheduler.Scheduler

	db    *sql.DB
	pool  *pgxpool.Pool
	redis *redis.Client
}

// New connects to the backing services and assembles the router. Redis is
// optional: when it cannot be reached enrichment runs without a shared cache.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{}

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	app.db = db

	pool, err := OpenPool(ctx, &cfg.Database, DBOptions{})
	if err != nil {
		app.Close()
		return nil, err
	}
	app.pool = pool

	rdb, err := OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, enrichment cache disabled", "error", err)
	}
	app.redis = rdb

	authDeps, err := BuildAuth(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("auth: %w", err)
	}

	profiles := profilecache.New(cfg.Profile.CacheTTL)

	app.Router, err = BuildRouter(RouterDeps{
		ServiceName: ServiceName,
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Pool:        pool,
		Redis:       rdb,
		Auth:        authDeps,
		Profiles:    profiles,
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Scheduler = scheduler.NewScheduler(logger)
	if err := app.Scheduler.Add(scheduler.SweepJob("profile-cache", cfg.Profile.SweepSpec, profiles.Sweep, logger)); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// Close releases every connection the app opened.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
