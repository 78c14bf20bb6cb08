// Package main is the entry point for the warehub report server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"warehub/internal/core/tx"
	"warehub/internal/domain/reports"
	"warehub/internal/domain/uom"
	v1 "warehub/internal/infrastructure/http/v1"
	"warehub/internal/infrastructure/storage/memory"
	"warehub/internal/infrastructure/storage/postgres"
	"warehub/internal/infrastructure/storage/postgres/report_repo"
	"warehub/pkg/config"
	"warehub/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Infow("starting warehub server", "env", cfg.App.Env)

	settings, err := reportSettings(cfg.Report)
	if err != nil {
		log.Fatalw("invalid report settings", "error", err)
	}

	// --- Source of records ---
	var (
		repo reports.Repository
		txm  tx.ReadOnlyManager
		pool *postgres.Pool
	)
	if cfg.DB.URL == "" {
		log.Warn("DATABASE_URL not set, serving reports from an empty in-memory source")
		repo = memory.NewSource()
		txm = tx.Direct{}
	} else {
		poolCfg := postgres.DefaultPoolConfig(cfg.DB.URL)
		poolCfg.MaxConns = int32(cfg.DB.MaxConns)
		poolCfg.MinConns = int32(cfg.DB.MinConns)

		pool, err = postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()
		postgres.LogPoolStats(ctx, pool.Pool)

		txManager := postgres.NewTxManager(pool).WithStatementTimeout(cfg.DB.StatementTimeout)
		repo = report_repo.NewReportRepo(txManager, cfg.Report.PageSize)
		txm = txManager
	}

	service := reports.NewService(repo, txm, settings)

	// --- Router ---
	var handler http.Handler = v1.NewRouter(v1.RouterConfig{
		Reports:           service,
		Pool:              pool,
		Logger:            log,
		DefaultSystemCode: cfg.Report.DefaultSystemCode,
	})
	if cfg.HTTP.Compression {
		handler, err = v1.Compress(handler, gzhttp.DefaultMinSize)
		if err != nil {
			log.Fatalw("failed to enable compression", "error", err)
		}
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "addr", server.Addr, "system", cfg.Report.DefaultSystemCode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func reportSettings(rc config.ReportConfig) (reports.Settings, error) {
	loc, err := rc.Location()
	if err != nil {
		return reports.Settings{}, fmt.Errorf("timezone %q: %w", rc.Timezone, err)
	}
	lang, err := rc.Language()
	if err != nil {
		return reports.Settings{}, fmt.Errorf("locale %q: %w", rc.Locale, err)
	}
	return reports.Settings{
		Location:     loc,
		Language:     lang,
		WeightTarget: uom.NewTarget(rc.TargetUnit, rc.TargetAliases),
	}, nil
}
