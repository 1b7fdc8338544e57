// Package main is the entry point for the storagemanager API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"

	"storagemanager/internal/config"
	v1 "storagemanager/internal/infrastructure/http/v1"
	"storagemanager/internal/infrastructure/http/v1/handlers"
	"storagemanager/internal/infrastructure/http/v1/middleware"
	"storagemanager/internal/infrastructure/metrics"
	"storagemanager/internal/infrastructure/storage/postgres"
	"storagemanager/internal/services"
	"storagemanager/pkg/logger"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	log.Infow("starting storagemanager server", "storage", cfg.Storage, "env", cfg.App.Env)

	var m *metrics.Metrics
	var observer services.Observer
	if cfg.Metrics.Enabled {
		m = metrics.New(metrics.DefaultConfig())
		observer = m
	}

	var (
		svc *services.Services
		db  handlers.Pinger
	)
	switch cfg.Storage {
	case config.StorageMemory:
		svc, _ = services.NewInMemory(observer, log)
		log.Warn("using in-memory storage, state is lost on restart")

	default:
		poolCfg := postgres.DefaultPoolConfig(cfg.DB.URL)
		poolCfg.MaxConns = cfg.DB.MaxConns

		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()

		postgres.LogPoolStats(ctx, log, pool.Unwrap())
		if m != nil {
			m.RegisterPool(pool.Unwrap())
		}

		txm := postgres.NewTxManager(pool, cfg.DB.StatementTimeout, log)
		svc = services.NewPostgres(txm, observer, log)
		db = pool
	}

	router := v1.NewRouter(v1.RouterConfig{
		Services: svc,
		DB:       db,
		Logger:   log,
		Metrics:  m,
	})

	handler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.HeaderRequestID, middleware.HeaderTraceID},
		ExposedHeaders:   []string{"Content-Disposition", middleware.HeaderRequestID, middleware.HeaderTraceID},
		AllowCredentials: false,
		MaxAge:           300,
	})(router)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
