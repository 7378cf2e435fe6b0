// Command server runs the board backend: the REST API for projects,
// features, products, and the audit log, plus the asynchronous user-manual
// generation workers.
//
// @title       Board Backend API
// @version     1.0
// @description Project board, product catalog, and user-manual generation API.
// @BasePath    /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/reactivetech/go-board-backend/internal/config"
	"github.com/reactivetech/go-board-backend/internal/docs"
	httpapi "github.com/reactivetech/go-board-backend/internal/http"
	"github.com/reactivetech/go-board-backend/internal/http/middleware"
	"github.com/reactivetech/go-board-backend/internal/observability"
	"github.com/reactivetech/go-board-backend/internal/repo"
	"github.com/reactivetech/go-board-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(ctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// Manual-generation pipeline: local store, renderer, worker pool.
	store := docs.NewLocalStore(
		cfg.Docs.StorageDir,
		cfg.Docs.SigningSecret,
		cfg.APIBasePath+"/files",
		cfg.Docs.SignedURLTTL,
	)
	renderer := &docs.ManualRenderer{
		DB:           db,
		ModuleDir:    cfg.Docs.ModuleDir,
		TemplatePath: cfg.Docs.TemplatePath,
	}
	worker := docs.NewWorker(
		db, renderer, store, store,
		cfg.Docs.WorkerCount, cfg.Docs.QueueSize, cfg.Docs.WorkerTimeout,
		log.With().Str("component", "docs-worker").Logger(),
	)
	worker.Observe = middleware.ObserveJobOutcome
	worker.Start()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg, worker, store)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Graceful shutdown: stop accepting requests, then drain the workers so
	// in-flight jobs reach a terminal state.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	worker.Stop()
	log.Info().Msg("bye")
}
