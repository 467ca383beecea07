// Package handler internal/infrastructure/handler/conversion_handler.go
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/damon-houk/xof-converter/internal/application/service"
	"github.com/damon-houk/xof-converter/internal/domain/entity"
	"github.com/damon-houk/xof-converter/internal/infrastructure/logger"
	"github.com/damon-houk/xof-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// Converter is the part of the conversion service the handler depends on
type Converter interface {
	Convert(ctx context.Context, amount float64, from, to entity.Currency) (*service.Conversion, error)
}

// ConversionHandler handles HTTP requests for currency conversion
type ConversionHandler struct {
	service Converter
	logger  logger.Logger
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(service Converter, log logger.Logger) *ConversionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionHandler{
		service: service,
		logger:  log,
	}
}

// Convert handles GET /api/convert?amount=100&from=EUR&to=XOF. to defaults to XOF.
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	rawAmount := query.Get("amount")
	if rawAmount == "" {
		sendErrorResponse(w, h.logger, "Missing amount parameter",
			"The 'amount' query parameter is required", http.StatusBadRequest, requestID)
		return
	}
	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid amount",
			"Amount must be a non-negative number", http.StatusBadRequest, requestID)
		return
	}

	from, err := entity.ParseCurrency(query.Get("from"))
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid currency code",
			"'from' must be one of EUR, USD, GBP, CAD, CHF, XOF", http.StatusBadRequest, requestID)
		return
	}

	to := entity.BaseCurrency
	if raw := query.Get("to"); raw != "" {
		if to, err = entity.ParseCurrency(raw); err != nil {
			sendErrorResponse(w, h.logger, "Invalid currency code",
				"'to' must be one of EUR, USD, GBP, CAD, CHF, XOF", http.StatusBadRequest, requestID)
			return
		}
	}

	conv, err := h.service.Convert(r.Context(), amount, from, to)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			sendErrorResponse(w, h.logger, "Invalid amount",
				"Amount must be a non-negative number", http.StatusBadRequest, requestID)
		case errors.Is(err, entity.ErrUnsupportedCurrency):
			sendErrorResponse(w, h.logger, "Invalid currency code",
				"No rate is available for the requested currency", http.StatusBadRequest, requestID)
		case errors.Is(err, service.ErrRateUnavailable):
			h.logger.Error("Unusable rate in snapshot", logger.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Exchange rate service unavailable",
				"Unable to retrieve exchange rate data. Please try again later.",
				http.StatusServiceUnavailable, requestID)
		default:
			h.logger.Error("Unexpected error in conversion handler", logger.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Internal server error",
				"An unexpected error occurred. Please try again later.",
				http.StatusInternalServerError, requestID)
		}
		return
	}

	resp := ConversionResponse{
		From:            string(conv.From),
		To:              string(conv.To),
		Amount:          conv.Amount,
		ExchangeRate:    conv.ExchangeRate,
		ConvertedAmount: conv.ConvertedAmount,
		LastUpdate:      conv.LastUpdate.UTC().Format(LastUpdateLayout),
		Cached:          conv.Cached,
	}
	if conv.Fallback {
		resp.Error = FallbackMessage
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode conversion response", logger.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
}

// RegisterRoutes registers the conversion handler routes
func (h *ConversionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/convert", h.Convert).Methods(http.MethodGet).Name("convert")

	h.logger.Info("Conversion routes registered", logger.Fields{
		"routes": []string{
			"GET /api/convert",
		},
	})
}

func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", logger.Fields{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("Failed to encode error response", logger.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
}
