package service

import (
	"context"

	"github.com/damon-houk/xof-converter/internal/domain/entity"
)

// RateProvider defines the interface for the third-party exchange rate API
type RateProvider interface {
	// FetchLatestRates retrieves the latest quotes, expressed per 1 unit of base
	FetchLatestRates(ctx context.Context, base entity.Currency) (map[entity.Currency]float64, error)
}
