// Package service internal/application/service/conversion_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/damon-houk/xof-converter/internal/domain/entity"
	"github.com/damon-houk/xof-converter/internal/infrastructure/logger"
	"github.com/damon-houk/xof-converter/internal/infrastructure/middleware"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for negative, NaN or infinite amounts
var ErrInvalidAmount = errors.New("invalid amount")

// ErrRateUnavailable is returned when the snapshot holds a zero or non-finite rate
var ErrRateUnavailable = errors.New("rate unavailable")

// RatesSource yields the current snapshot; satisfied by *RateService
type RatesSource interface {
	GetRates(ctx context.Context) RatesResult
}

// Conversion represents an amount converted between two supported currencies
type Conversion struct {
	From            entity.Currency
	To              entity.Currency
	Amount          float64
	ExchangeRate    float64
	ConvertedAmount float64
	LastUpdate      time.Time
	Cached          bool
	// Fallback is set when the default rates were used
	Fallback bool
}

// ConversionService converts amounts using the current rate snapshot
type ConversionService struct {
	rates  RatesSource
	logger logger.Logger
}

// NewConversionService creates a new conversion service
func NewConversionService(rates RatesSource, log logger.Logger) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionService{
		rates:  rates,
		logger: log,
	}
}

// Convert converts amount from one currency to another through XOF. The
// result is rounded to the target's minor unit: whole francs for XOF, cents otherwise.
func (s *ConversionService) Convert(ctx context.Context, amount float64, from, to entity.Currency) (*Conversion, error) {
	requestID := middleware.GetRequestID(ctx)

	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	result := s.rates.GetRates(ctx)

	fromRate, ok := result.Rates[from]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedCurrency, from)
	}
	toRate, ok := result.Rates[to]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedCurrency, to)
	}
	if !usableRate(fromRate) || !usableRate(toRate) {
		return nil, fmt.Errorf("%w: no usable rate for %s/%s", ErrRateUnavailable, from, to)
	}

	// Both rates are XOF per unit, so from->to is their ratio
	rate := decimal.NewFromFloat(fromRate).Div(decimal.NewFromFloat(toRate))
	converted := decimal.NewFromFloat(amount).Mul(rate).Round(minorUnits(to))

	convertedAmount := converted.InexactFloat64()
	if math.IsInf(convertedAmount, 0) {
		return nil, fmt.Errorf("%w: %v %s overflows in %s", ErrInvalidAmount, amount, from, to)
	}

	conv := &Conversion{
		From:            from,
		To:              to,
		Amount:          amount,
		ExchangeRate:    rate.Round(6).InexactFloat64(),
		ConvertedAmount: convertedAmount,
		LastUpdate:      result.LastUpdate,
		Cached:          result.Cached,
		Fallback:        result.IsFallback(),
	}

	s.logger.Info("Conversion completed", logger.Fields{
		"request_id":       requestID,
		"from":             from,
		"to":               to,
		"amount":           amount,
		"exchange_rate":    conv.ExchangeRate,
		"converted_amount": conv.ConvertedAmount,
		"fallback":         conv.Fallback,
	})

	return conv, nil
}

func usableRate(r float64) bool {
	return r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}

func minorUnits(c entity.Currency) int32 {
	if c == entity.XOF {
		return 0
	}
	return 2
}
