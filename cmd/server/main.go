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

	"github.com/damon-houk/xof-converter/internal/application/service"
	"github.com/damon-houk/xof-converter/internal/config"
	"github.com/damon-houk/xof-converter/internal/domain/repository"
	"github.com/damon-houk/xof-converter/internal/infrastructure/api"
	"github.com/damon-houk/xof-converter/internal/infrastructure/cache"
	"github.com/damon-houk/xof-converter/internal/infrastructure/db"
	"github.com/damon-houk/xof-converter/internal/infrastructure/handler"
	"github.com/damon-houk/xof-converter/internal/infrastructure/logger"
	"github.com/damon-houk/xof-converter/internal/infrastructure/metrics"
	"github.com/damon-houk/xof-converter/internal/infrastructure/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logger.GetDefaultLogger().Fatal("Server stopped with error", logger.Fields{"error": err.Error()})
	}
}

// run wires the application and blocks until shutdown. Errors are returned
// rather than fatal so deferred cleanup always runs.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	logger.SetDefaultLogger(log)

	for _, w := range cfg.Warnings {
		log.Warn("Ignoring invalid configuration value", logger.Fields{"detail": w})
	}

	log.Info("Starting XOF converter", logger.Fields{
		"port":          cfg.Server.Port,
		"cache_backend": cfg.Cache.Backend,
		"cache_window":  cfg.Cache.Window.String(),
		"sitemap_mode":  cfg.Site.SitemapMode,
	})

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	// Snapshot store
	var store repository.SnapshotStore
	switch cfg.Cache.Backend {
	case config.BackendBadger:
		badgerDB, err := db.OpenInMemory()
		if err != nil {
			return err
		}
		defer func() {
			if err := badgerDB.Close(); err != nil {
				log.Error("Error closing BadgerDB", logger.Fields{"error": err.Error()})
			}
		}()
		store = db.NewBadgerSnapshotStore(badgerDB)
	default:
		store = cache.NewSnapshotCache()
	}

	// Initialize API client and service
	rateAPI := api.NewExchangeRateAPIClient(cfg.RatesAPI.BaseURL, cfg.RatesAPI.Timeout, log)
	rateService := service.NewRateService(rateAPI, store, service.RateServiceOptions{
		CacheWindow:  cfg.Cache.Window,
		SingleFlight: cfg.Cache.SingleFlight,
		Logger:       log,
		Metrics:      m,
	})

	router := handler.NewRouter(handler.RouterConfig{
		Rates:              rateService,
		Converter:          service.NewConversionService(rateService, log),
		StaticDir:          cfg.Site.StaticDir,
		GoogleVerification: cfg.Site.GoogleVerification,
		Sitemap: handler.SitemapOptions{
			BaseURL: cfg.Site.BaseURL,
			Static:  cfg.Site.SitemapMode == config.SitemapStatic,
		},
		Logger:   log,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var refresher *scheduler.RefreshScheduler
	if cfg.RatesAPI.RefreshCron != "" {
		refresher, err = scheduler.NewRefreshScheduler(cfg.RatesAPI.RefreshCron, rateService, cfg.RatesAPI.Timeout, log)
		if err != nil {
			return fmt.Errorf("failed to configure rate refresh: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveHTTP(gctx, srv, log)
	})
	if refresher != nil {
		g.Go(func() error {
			return refresher.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server stopped", nil)
	return nil
}

// serveHTTP runs srv until ctx is done, then drains connections
func serveHTTP(ctx context.Context, srv *http.Server, log logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", logger.Fields{"addr": srv.Addr})
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

	log.Info("Shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
