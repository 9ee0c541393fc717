package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/myday-api/internal/config"
	"github.com/phrazzld/myday-api/internal/events"
	"github.com/phrazzld/myday-api/internal/platform/cache"
	"github.com/phrazzld/myday-api/internal/platform/postgres"
	"github.com/phrazzld/myday-api/internal/redact"
	"github.com/phrazzld/myday-api/internal/service"
	"github.com/phrazzld/myday-api/internal/service/auth"
	"github.com/redis/go-redis/v9"
)

// application holds the shared dependencies so they can be closed together on
// shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	jwtService  auth.JWTService
	userService service.UserService
	taskService service.TaskService
}

// newApplication builds stores, services and the event pipeline on top of an
// established database connection.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	loc, err := cfg.Schedule.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule timezone: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	emitter := events.NewInMemoryEventEmitter(logger)

	var counts service.CountsSource
	if cfg.Cache.RedisURL != "" {
		app.redis, err = cache.Connect(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		countsCache := cache.NewCountsCache(taskStore, app.redis, cfg.Cache.TTL(), logger)
		emitter.RegisterHandler(countsCache)
		counts = countsCache
		logger.Info("task counts cache enabled", slog.Duration("ttl", cfg.Cache.TTL()))
	}

	app.userService = service.NewUserService(userStore, auth.NewBcryptVerifier(), logger)
	app.taskService, err = service.NewTaskService(taskStore, counts, emitter, loc, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("application initialized", slog.String("timezone", loc.String()))
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down and releases
// resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup closes the cache and database connections.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis connection", slog.String("error", redact.Error(err)))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", redact.Error(err)))
		}
	}
	app.logger.Info("application shutdown completed")
}
