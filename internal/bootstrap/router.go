package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/reoutfit/reoutfit-backend/config"
	httpapi "github.com/reoutfit/reoutfit-backend/internal/api/http"
	"github.com/reoutfit/reoutfit-backend/internal/api/http/middleware"
	authhttp "github.com/reoutfit/reoutfit-backend/internal/auth/http"
	"github.com/reoutfit/reoutfit-backend/internal/enrichment"
	enrichhttp "github.com/reoutfit/reoutfit-backend/internal/enrichment/http"
	lookbookhttp "github.com/reoutfit/reoutfit-backend/internal/lookbooks/http"
	lookbookrepo "github.com/reoutfit/reoutfit-backend/internal/lookbooks/repository"
	lookbooksvc "github.com/reoutfit/reoutfit-backend/internal/lookbooks/service"
	profilecache "github.com/reoutfit/reoutfit-backend/internal/profiles/cache"
	profilehttp "github.com/reoutfit/reoutfit-backend/internal/profiles/http"
	profilerepo "github.com/reoutfit/reoutfit-backend/internal/profiles/repository"
	profilesvc "github.com/reoutfit/reoutfit-backend/internal/profiles/service"
	"github.com/reoutfit/reoutfit-backend/internal/proxy"
	"github.com/reoutfit/reoutfit-backend/internal/storage/postgres"
	threadhttp "github.com/reoutfit/reoutfit-backend/internal/threads/http"
	threadrepo "github.com/reoutfit/reoutfit-backend/internal/threads/repository"
	threadsvc "github.com/reoutfit/reoutfit-backend/internal/threads/service"
	wardrobehttp "github.com/reoutfit/reoutfit-backend/internal/wardrobe/http"
	wardroberepo "github.com/reoutfit/reoutfit-backend/internal/wardrobe/repository"
	wardrobesvc "github.com/reoutfit/reoutfit-backend/internal/wardrobe/service"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	Logger      *slog.Logger
	DB          *sql.DB
	Pool        *pgxpool.Pool
	Redis       *redis.Client
	Auth        *AuthDeps
	Profiles    *profilecache.Cache
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	cfg := dep.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	var dbPing, redisPing httpapi.Pinger
	if dep.Pool != nil {
		dbPing = dep.Pool
	}
	if dep.Redis != nil {
		redisPing = httpapi.PingFunc(func(ctx context.Context) error { return dep.Redis.Ping(ctx).Err() })
	}
	httpapi.NewHealthHandler(dep.ServiceName, cfg.App.Version, dbPing, redisPing).RegisterRoutes(r)

	langgraph, err := proxy.NewLangGraph(cfg.LangGraph.APIURL, cfg.LangGraph.LangSmithKey)
	if err != nil {
		return nil, err
	}
	langgraph.Register(r)
	proxy.NewSentryTunnel(cfg.Server.UpstreamTimeout, cfg.Sentry.AllowedProjects).Register(r)

	scoper := postgres.NewScoper(dep.DB, cfg.Database.QueryTimeout)

	var enrichCache enrichment.Cache = enrichment.NopCache{}
	if dep.Redis != nil {
		enrichCache = enrichment.NewRedisCache(dep.Redis, cfg.Enrichment.CacheTTL)
	}
	fetcher := enrichment.NewHTTPFetcher(enrichment.FetcherConfig{
		Timeout:      cfg.Enrichment.Timeout,
		RatePerSec:   cfg.Enrichment.RatePerSec,
		MaxBodyBytes: cfg.Enrichment.MaxBodyBytes,
		UserAgent:    cfg.Enrichment.UserAgent,
	})
	enricher := enrichment.NewService(enrichCache, enrichment.NewDeduper(fetcher, cfg.Enrichment.Timeout))

	profiles := profilesvc.NewProfileService(profilerepo.New(scoper), dep.Profiles)

	api := r.Group("/api/v1")
	requireAuth := dep.Auth.Resolver.Require()

	authhttp.New(dep.Auth.Provider, dep.Auth.Resolver, profiles.Forget).Register(api, requireAuth)

	protected := api.Group("", requireAuth)
	threadhttp.New(threadsvc.NewThreadService(threadrepo.New(scoper))).Register(protected.Group("/threads"))
	lookbookhttp.New(lookbooksvc.NewLookbookService(lookbookrepo.New(scoper))).Register(protected.Group("/lookbooks"))
	wardrobehttp.New(wardrobesvc.NewWardrobeService(wardroberepo.New(scoper), enricher)).Register(protected.Group("/wardrobe"))
	enrichhttp.New(enricher).Register(protected)
	profilehttp.New(profiles).Register(protected.Group("/profile"))

	return r, nil
}
