// Package handler internal/infrastructure/handler/rates_handler.go
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/damon-houk/xof-converter/internal/application/service"
	"github.com/damon-houk/xof-converter/internal/infrastructure/logger"
	"github.com/damon-houk/xof-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// RatesGetter is the part of the rate service the handler depends on
type RatesGetter interface {
	GetRates(ctx context.Context) service.RatesResult
}

// RatesHandler handles HTTP requests for exchange rates
type RatesHandler struct {
	service RatesGetter
	logger  logger.Logger
}

// NewRatesHandler creates a new rates handler
func NewRatesHandler(service RatesGetter, log logger.Logger) *RatesHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RatesHandler{
		service: service,
		logger:  log,
	}
}

// GetRates answers with the current snapshot. It always responds 200: when
// the upstream failed the default rates are sent with an error message.
func (h *RatesHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	result := h.service.GetRates(r.Context())

	resp := RatesResponse{
		Rates:      result.Rates,
		LastUpdate: result.LastUpdate.UTC().Format(LastUpdateLayout),
		Cached:     result.Cached,
	}
	if result.IsFallback() {
		resp.Error = FallbackMessage
		h.logger.Warn("Serving default rates", map[string]interface{}{
			"request_id": requestID,
			"error":      result.Err.Error(),
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode rates response", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
}

// RegisterRoutes registers the rates handler routes
func (h *RatesHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/rates", h.GetRates).Methods(http.MethodGet, http.MethodHead).Name("rates")

	h.logger.Info("Rates routes registered", map[string]interface{}{
		"routes": []string{
			"GET /api/rates",
		},
	})
}
