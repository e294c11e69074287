package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/shelf-api/internal/api"
	"github.com/phrazzld/shelf-api/internal/config"
	"github.com/phrazzld/shelf-api/internal/platform/postgres"
	"github.com/phrazzld/shelf-api/internal/platform/s3"
	"github.com/phrazzld/shelf-api/internal/redact"
	"github.com/phrazzld/shelf-api/internal/service"
	"github.com/phrazzld/shelf-api/internal/service/auth"
	"github.com/phrazzld/shelf-api/internal/store"
)

// application holds the shared dependencies so they can be wired once and
// released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	authService       *auth.Service
	userService       service.UserService
	bookService       service.BookService
	authorService     service.AuthorService
	bookAuthorService service.BookAuthorService
}

// newApplication wires stores and services. db may be nil in tests that
// never reach the database.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	tokenStore := postgres.NewPostgresTokenStore(db, logger)
	bookStore := postgres.NewPostgresBookStore(db, logger)
	authorStore := postgres.NewPostgresAuthorStore(db, logger)
	bookAuthorStore := postgres.NewPostgresBookAuthorStore(db, logger)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	var err error
	app.authService, err = auth.NewService(userStore, tokenStore, hasher, cfg.Auth.TokenBytes, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	images, err := setupImageStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	app.userService = service.NewUserService(
		userStore,
		tokenStore,
		&store.DBTransactor{DB: db},
		hasher,
		images,
		logger,
	)
	app.bookService = service.NewBookService(bookStore, logger)
	app.authorService = service.NewAuthorService(authorStore, logger)
	app.bookAuthorService = service.NewBookAuthorService(bookAuthorStore, bookStore, authorStore, logger)

	app.redis, err = setupRedis(ctx, cfg.RateLimit, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("application initialized")
	return app, nil
}

// setupImageStore returns nil when no bucket is configured; uploads then
// answer 503.
func setupImageStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (store.ImageStore, error) {
	if cfg.S3Bucket == "" {
		logger.Info("image storage disabled")
		return nil, nil
	}
	images, err := s3.NewImageStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create image store: %w", err)
	}
	return images, nil
}

// setupRedis returns nil when no redis URL is configured, which disables
// rate limiting. An unreachable redis is logged but not fatal because the
// limiter lets requests through on redis errors.
func setupRedis(ctx context.Context, cfg config.RateLimitConfig, logger *slog.Logger) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		logger.Info("rate limiting disabled")
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %s", redact.Error(err))
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, rate limiter will fail open", "error", redact.Error(err))
	}
	return client, nil
}

// setupRouter builds the HTTP handler from the application's services.
func (app *application) setupRouter() http.Handler {
	return api.NewRouter(api.RouterDeps{
		Auth:           app.authService,
		Users:          app.userService,
		Books:          app.bookService,
		Authors:        app.authorService,
		BookAuthors:    app.bookAuthorService,
		Redis:          app.redis,
		RateLimit:      app.config.RateLimit,
		AllowedOrigins: app.config.Server.AllowedOrigins,
		MaxUploadBytes: app.config.Storage.MaxUploadBytes,
		Logger:         app.logger,
	})
}

// Run serves HTTP until the context is cancelled or a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the database pool and redis client.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("failed to close redis client", "error", redact.Error(err))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", redact.Error(err))
		}
	}
}
