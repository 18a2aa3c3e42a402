// Copyright (c) 2026 Libris. All rights reserved.

// Command api is the entry point for the Libris HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire domain services and HTTP handlers.
//  7. Kick off the catalogue ingest and the overdue sweeper.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mavlib/libris/internal/api"
	"github.com/mavlib/libris/internal/catalog"
	"github.com/mavlib/libris/internal/lending"
	"github.com/mavlib/libris/internal/platform/config"
	"github.com/mavlib/libris/internal/platform/constants"
	"github.com/mavlib/libris/internal/platform/migration"
	pgstore "github.com/mavlib/libris/internal/platform/postgres"
	redisstore "github.com/mavlib/libris/internal/platform/redis"
	"github.com/mavlib/libris/internal/platform/sec"
	"github.com/mavlib/libris/internal/search"
	"github.com/mavlib/libris/internal/users/auth"
	"github.com/mavlib/libris/internal/users/directory"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "libris"))
	slog.SetDefault(log)

	log.Info("[Libris] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "libris"))
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

	// appCtx lives for the whole process and drives background goroutines.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

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

	// ── 6. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	// Catalogue: in-memory store fed by the Open Library supplier.
	catalogRepo := catalog.NewMemoryRepository()
	catalogService := catalog.NewService(catalogRepo, log)

	// Lending ledger: in-memory active set, history archived to Postgres
	// through the directory.
	directoryRepo := directory.NewRepository(pool)
	directoryService := directory.NewService(directoryRepo, log)

	loanRepo := lending.NewMemoryLoanRepository()
	ledger := lending.NewService(loanRepo, catalogRepo, directoryService, log)

	// The ledger guards book deletion and receives snapshot sync passes.
	catalogService.Attach(ledger, ledger)

	// Identity: users in Postgres, sessions and guest flags in Redis.
	userRepo := auth.NewUserRepository(pool)
	sessionRepo := auth.NewSessionRepository(rdb)
	guestRepo := auth.NewGuestRepository(rdb)
	loginLimiter := auth.NewLoginLimiter(time.Now)
	authService := auth.NewService(userRepo, sessionRepo, guestRepo, jwtSvc, loginLimiter)

	// Search reads the catalogue and the directory, writes nothing.
	searchEngine := search.NewEngine(catalogRepo, directoryService, log)

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckCatalog: func() error {
			if catalogRepo.State() != catalog.StateReady {
				return fmt.Errorf("catalog still loading")
			}
			return nil
		},
	}, log)

	// ── 9. Background Tasks ───────────────────────────────────────────────
	// Catalogue ingest runs off the request path; the readiness probe and
	// the search engine gate on its completion.
	supplier := catalog.NewSupplier(
		cfg.CatalogSourceURL,
		catalogRepo,
		strings.Split(cfg.CatalogGenres, ","),
		cfg.CatalogBooksPerGenre,
		log,
	)
	go supplier.Ingest(appCtx)

	// Periodic overdue re-derivation on active loans.
	go lending.RunOverdueSweeper(appCtx, ledger, cfg.OverdueSweepInterval, log)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService),
		Catalog:    catalog.NewHandler(catalogService),
		Vocabulary: catalog.NewVocabularyHandler(catalogService),
		Lending:    lending.NewHandler(ledger),
		Search:     search.NewHandler(searchEngine),
		Directory:  directory.NewHandler(directoryService),
	}

	server := api.NewServer(appCtx, cfg, log, jwtSvc, handlers)

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

	// Stop background goroutines before draining requests.
	appCancel()

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
