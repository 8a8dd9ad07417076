package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libdb "evcharging/backend/libs/db"
	libredis "evcharging/backend/libs/redis"
	"evcharging/backend/services/stations-api/internal/cache"
	appconfig "evcharging/backend/services/stations-api/internal/config"
	"evcharging/backend/services/stations-api/internal/db"
	"evcharging/backend/services/stations-api/internal/events"
	httpserver "evcharging/backend/services/stations-api/internal/http"
	"evcharging/backend/services/stations-api/internal/http/handlers"
	"evcharging/backend/services/stations-api/internal/http/middleware"
	"evcharging/backend/services/stations-api/internal/password"
	"evcharging/backend/services/stations-api/internal/repository"
	"evcharging/backend/services/stations-api/internal/service"
)

// App wires dependencies for the stations API.
type App struct {
	server *httpserver.Server
	db     *libdb.DB
	redis  *redis.Client
	hub    *events.Hub
	logger *zap.Logger
}

// New builds application graph: store, schema, seed data, cache, feed, HTTP.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	store, err := db.Open(ctx, cfg.Database.Driver, cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Info("database ready", zap.String("driver", store.Dialect.Name()))

	a := &App{db: store, logger: logger}

	userRepo := repository.NewUserRepository(store)
	stationRepo := repository.NewStationRepository(store)
	hasher := password.NewBcryptHasher(cfg.BcryptCost)

	if cfg.Seed.Enabled {
		seeder := repository.NewSeeder(userRepo, stationRepo, hasher, logger)
		if err := seeder.Seed(ctx, repository.SeedAdmin{
			Username: cfg.Seed.AdminUsername,
			Email:    cfg.Seed.AdminEmail,
			Password: cfg.Seed.AdminPassword,
		}); err != nil {
			a.Close()
			return nil, fmt.Errorf("seed database: %w", err)
		}
	}

	var stationCache service.StationCache
	if cfg.Redis.Addr != "" {
		client, err := libredis.Connect(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = client
		stationCache = cache.NewStationCache(client, cfg.RedisTTL(), logger)
		logger.Info("station cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	a.hub = events.NewHub(cfg.HTTP.CORSOrigin, 0, logger)

	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())
	authSvc := service.NewAuthService(userRepo, hasher, tokenSvc, logger)
	stationSvc := service.NewStationService(stationRepo, stationCache, a.hub, logger)

	metrics := httpserver.NewMetrics(a.hub.Count)
	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandlers:     handlers.NewAuthHandlers(authSvc, logger, cfg.HTTP.ExposeErrorDetails),
		StationsHandlers: handlers.NewStationsHandlers(stationSvc, logger, cfg.HTTP.ExposeErrorDetails),
		HealthHandler:    handlers.NewHealthHandler(store, logger),
		EventsHandler:    a.hub,
		MetricsHandler:   metrics.Handler(),
	}, middleware.AuthMiddleware(authSvc, logger))

	a.server = httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.CORS(cfg.HTTP.CORSOrigin),
		middleware.LoggingMiddleware(logger),
		metrics.Middleware,
		middleware.RecoveryMiddleware(logger),
	)
	a.server.SetShutdownTimeout(cfg.HTTP.ShutdownTimeout)
	a.server.RegisterOnShutdown(a.hub.Close)

	return a, nil
}

// Handler exposes the wrapped router.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.hub != nil {
		a.hub.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
