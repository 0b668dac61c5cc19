// Copyright (c) 2026 Mindfolio. All rights reserved.

// Command api is the entry point for the Mindfolio HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Prepare the media root for blob storage.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mindfolio/mindfolio-server/internal/api"
	"github.com/mindfolio/mindfolio-server/internal/library/author"
	"github.com/mindfolio/mindfolio-server/internal/library/book"
	"github.com/mindfolio/mindfolio-server/internal/library/bookfile"
	"github.com/mindfolio/mindfolio-server/internal/library/note"
	"github.com/mindfolio/mindfolio-server/internal/library/quote"
	"github.com/mindfolio/mindfolio-server/internal/library/tag"
	"github.com/mindfolio/mindfolio-server/internal/platform/config"
	"github.com/mindfolio/mindfolio-server/internal/platform/constants"
	"github.com/mindfolio/mindfolio-server/internal/platform/migration"
	pgstore "github.com/mindfolio/mindfolio-server/internal/platform/postgres"
	redisstore "github.com/mindfolio/mindfolio-server/internal/platform/redis"
	"github.com/mindfolio/mindfolio-server/internal/platform/sec"
	"github.com/mindfolio/mindfolio-server/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Media Root ─────────────────────────────────────────────────────
	must(log, os.MkdirAll(cfg.MediaRoot, 0o755), "create media root")
	blobStore := bookfile.NewLocalStore(cfg.MediaRoot)

	// ── 7. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(
		auth.NewUserRepository(pool),
		auth.NewSessionRepository(rdb),
		jwtSvc,
		log,
	)

	authorService := author.NewService(author.NewPostgresRepository(pool), log)
	tagService := tag.NewService(tag.NewPostgresRepository(pool), log)
	noteService := note.NewService(note.NewPostgresRepository(pool), log)
	quoteService := quote.NewService(quote.NewPostgresRepository(pool), tagService, log)
	fileService := bookfile.NewService(bookfile.NewPostgresRepository(pool), blobStore, log)
	bookService := book.NewService(book.NewPostgresRepository(pool), authorService, tagService, blobStore, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Book:      book.NewHandler(bookService, noteService, quoteService, fileService),
		BookFile:  bookfile.NewHandler(fileService),
		Note:      note.NewHandler(noteService),
		Quote:     quote.NewHandler(quoteService, tagService),
		Tag:       tag.NewHandler(tagService),
		Author:    author.NewHandler(authorService),
	}

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	// The server context outlives startup; the rate limiter's janitor
	// goroutine runs on it for the process lifetime.
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
