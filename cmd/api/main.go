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

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/burnrate/internal/analytics"
	"github.com/MrJamesThe3rd/burnrate/internal/cache"
	"github.com/MrJamesThe3rd/burnrate/internal/config"
	"github.com/MrJamesThe3rd/burnrate/internal/database"
	apiHttp "github.com/MrJamesThe3rd/burnrate/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/burnrate/internal/http/analytics"
	importHandler "github.com/MrJamesThe3rd/burnrate/internal/http/importcsv"
	"github.com/MrJamesThe3rd/burnrate/internal/importer"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/burnrate/internal/ledger/store"
	"github.com/MrJamesThe3rd/burnrate/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/burnrate/internal/matching/store"
	"github.com/MrJamesThe3rd/burnrate/internal/preview"
	"github.com/MrJamesThe3rd/burnrate/internal/report"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(cfg.ConnectionString()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
	}

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	var (
		ledgerService   = ledger.NewService(ledgerStore.New(db))
		matchingService = matching.NewService(matchingStore.New(db))
		importService   = importer.NewService()
		reportService   = report.NewService(language.English)
		engine          = analytics.NewEngine(analytics.EngineConfig{
			CacheSize:   cfg.Analytics.CacheSize,
			CacheTTL:    cfg.Analytics.CacheTTL,
			TopN:        cfg.Analytics.TopN,
			TrendMonths: cfg.Analytics.TrendMonths,
		})
		previewService = preview.NewService(importService, matchingService, ledgerService, engine)
	)

	if cfg.Analytics.CacheTTL > 0 {
		go cache.NewJanitor(engine.Cache()).Run(ctx, cfg.Analytics.CacheTTL)
	}

	var (
		analyticsH = analyticsHandler.NewHandler(engine, ledgerService, reportService)
		importH    = importHandler.NewHandler(previewService, matchingService)
	)

	router := apiHttp.New(apiHttp.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		Timeout:        cfg.Server.Timeout,
	}, analyticsH, importH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	stats := engine.Stats()
	slog.Info("server stopped", "cache_hits", stats.Hits, "cache_misses", stats.Misses)

	return nil
}
