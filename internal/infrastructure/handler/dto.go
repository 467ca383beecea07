package handler

import "github.com/damon-houk/xof-converter/internal/domain/entity"

// LastUpdateLayout renders timestamps as ISO-8601 UTC with milliseconds
const LastUpdateLayout = "2006-01-02T15:04:05.000Z"

// FallbackMessage is reported in RatesResponse.Error when the default rates are served
const FallbackMessage = "Taux par défaut"

// RatesResponse represents the response for the rates endpoint
type RatesResponse struct {
	Rates      entity.RateSnapshot `json:"rates"`
	LastUpdate string              `json:"lastUpdate"`
	Cached     bool                `json:"cached"`
	Error      string              `json:"error,omitempty"`
}

// ConversionResponse represents the response for the conversion endpoint
type ConversionResponse struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	Amount          float64 `json:"amount"`
	ExchangeRate    float64 `json:"rate"`
	ConvertedAmount float64 `json:"result"`
	LastUpdate      string  `json:"lastUpdate"`
	Cached          bool    `json:"cached"`
	Error           string  `json:"error,omitempty"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
