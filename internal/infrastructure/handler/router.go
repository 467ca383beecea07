package handler

import (
	"net/http"

	"github.com/damon-houk/xof-converter/internal/infrastructure/logger"
	"github.com/damon-houk/xof-converter/internal/infrastructure/metrics"
	"github.com/damon-houk/xof-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig gathers everything the HTTP surface needs
type RouterConfig struct {
	Rates              RatesGetter
	Converter          Converter
	StaticDir          string
	GoogleVerification string
	Sitemap            SitemapOptions
	Logger             logger.Logger
	Metrics            *metrics.Metrics
	// Gatherer exposes /metrics when set
	Gatherer prometheus.Gatherer
}

// NewRouter wires every route behind the request ID, logging, metrics and CORS middleware
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware, middleware.LoggingMiddleware(log))
	if cfg.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(cfg.Metrics))
	}

	NewRatesHandler(cfg.Rates, log).RegisterRoutes(router)
	if cfg.Converter != nil {
		NewConversionHandler(cfg.Converter, log).RegisterRoutes(router)
	}

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet, http.MethodHead)

	if cfg.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	sitemapOpts := cfg.Sitemap
	if sitemapOpts.StaticDir == "" {
		sitemapOpts.StaticDir = cfg.StaticDir
	}
	NewSitemapHandler(sitemapOpts, log).RegisterRoutes(router)

	// Catch-all, must come last
	NewStaticHandler(cfg.StaticDir, cfg.GoogleVerification, log).RegisterRoutes(router)

	return middleware.CORSMiddleware()(router)
}
