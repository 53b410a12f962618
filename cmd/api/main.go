// Package main is the entry point for the Liturgical Calendar API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/api"
	"github.com/zapponejosh/liturgical-calendar/internal/config"
	"github.com/zapponejosh/liturgical-calendar/internal/database"
	"github.com/zapponejosh/liturgical-calendar/internal/engine"
	"github.com/zapponejosh/liturgical-calendar/internal/logger"
	"github.com/zapponejosh/liturgical-calendar/internal/refdata"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	log.Info("starting liturgical calendar API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("data_source", cfg.DataSource),
		slog.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	var (
		src    refdata.Source = refdata.NewEmbedded()
		health api.HealthChecker
	)
	if cfg.UsesSQLite() {
		dbCfg := database.DefaultConfig(cfg.DatabasePath)
		dbCfg.ReadOnly = true
		db, err := database.Open(dbCfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		counts, err := db.CountDocuments(ctx)
		if err != nil {
			return fmt.Errorf("read database %s (run cmd/import first): %w", cfg.DatabasePath, err)
		}
		if len(counts) == 0 {
			return fmt.Errorf("database %s holds no reference data: run cmd/import first", cfg.DatabasePath)
		}
		log.Info("serving reference data from database", slog.String("path", cfg.DatabasePath), slog.Int("kinds", len(counts)))

		src = db
		health = db
	}

	eng := engine.New(refdata.NewRepository(src), log)
	// Fail at startup on documents the engine cannot resolve.
	if _, err := eng.Catalog(ctx); err != nil {
		return err
	}

	var cache api.Cache
	if cfg.CacheTTL > 0 {
		cache = api.NewMemoryCache(cfg.CacheTTL)
	}

	handlers := api.NewHandlers(eng, cache, health, cfg, log)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, log),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("liturgical calendar API ready", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
