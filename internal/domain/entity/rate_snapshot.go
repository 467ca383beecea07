package entity

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	GBP Currency = "GBP"
	CAD Currency = "CAD"
	CHF Currency = "CHF"
	XOF Currency = "XOF"
)

// BaseCurrency is the currency every snapshot is expressed against
const BaseCurrency = XOF

// QuotedCurrencies are the currencies the converter offers besides the base
var QuotedCurrencies = []Currency{EUR, USD, GBP, CAD, CHF}

// ErrUnsupportedCurrency is returned for codes outside the snapshot
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ParseCurrency normalises a user supplied code and checks the snapshot carries it
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if c == BaseCurrency {
		return c, nil
	}
	for _, q := range QuotedCurrencies {
		if c == q {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
}

// RateSnapshot maps a currency to the number of XOF one unit of it is worth.
// The base currency always maps to 1.
type RateSnapshot map[Currency]float64

// DefaultRates returns the hardcoded snapshot served when the upstream is unavailable
func DefaultRates() RateSnapshot {
	return RateSnapshot{
		EUR: 655.957,
		USD: 615.234,
		GBP: 780.456,
		CAD: 442.123,
		CHF: 695.234,
		XOF: 1,
	}
}

// Clone returns an independent copy of the snapshot
func (s RateSnapshot) Clone() RateSnapshot {
	if s == nil {
		return nil
	}
	out := make(RateSnapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// NewRateSnapshot builds a snapshot from upstream quotes expressed per 1 XOF.
// Each quoted currency must be present and strictly positive; the result
// holds the inverse of every quote and XOF fixed at 1.
func NewRateSnapshot(quotes map[Currency]float64) (RateSnapshot, error) {
	one := decimal.NewFromInt(1)
	snap := make(RateSnapshot, len(QuotedCurrencies)+1)

	for _, ccy := range QuotedCurrencies {
		q, ok := quotes[ccy]
		if !ok {
			return nil, fmt.Errorf("missing rate for %s", ccy)
		}
		if math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
			return nil, fmt.Errorf("invalid rate for %s: %v", ccy, q)
		}

		inv := one.Div(decimal.NewFromFloat(q))
		f := inv.InexactFloat64()
		if !inv.IsPositive() || math.IsInf(f, 0) {
			return nil, fmt.Errorf("rate for %s out of range: %v", ccy, q)
		}
		snap[ccy] = f
	}
	snap[BaseCurrency] = 1

	return snap, nil
}

// CachedSnapshot is the content of the cache slot: a snapshot and the moment it was captured
type CachedSnapshot struct {
	Rates      RateSnapshot `json:"rates"`
	CapturedAt time.Time    `json:"captured_at"`
}

// Age reports how old the snapshot is at the given instant
func (c *CachedSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(c.CapturedAt)
}
