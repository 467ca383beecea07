package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/damon-houk/xof-converter/internal/domain/entity"
	"github.com/damon-houk/xof-converter/internal/infrastructure/logger"
)

const (
	defaultBaseURL = "https://api.exchangerate-api.com"
	latestPath     = "/v4/latest/"
	userAgent      = "xof-converter/1.0"
	maxBodyBytes   = 64 << 10
)

// StatusError is returned when the rate API answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rate API returned status %d: %s", e.StatusCode, e.Body)
}

// LatestRatesResponse is the payload of GET /v4/latest/{base}
type LatestRatesResponse struct {
	Base            string             `json:"base"`
	Date            string             `json:"date"`
	TimeLastUpdated int64              `json:"time_last_updated"`
	Rates           map[string]float64 `json:"rates"`
}

// ExchangeRateAPIClient talks to exchangerate-api.com. It makes exactly one
// request per call: no retries and no backoff.
type ExchangeRateAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewExchangeRateAPIClient creates a new client. An empty baseURL selects the public API.
func NewExchangeRateAPIClient(baseURL string, timeout time.Duration, log logger.Logger) *ExchangeRateAPIClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExchangeRateAPIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithField("component", "rates_api"),
	}
}

// FetchLatestRates retrieves the latest quotes for base, expressed per 1 unit of base
func (c *ExchangeRateAPIClient) FetchLatestRates(ctx context.Context, base entity.Currency) (map[entity.Currency]float64, error) {
	reqURL := c.baseURL + latestPath + url.PathEscape(string(base))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("Requesting latest rates", logger.Fields{"url": reqURL})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", logger.Fields{"error": closeErr})
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("Rate API responded", logger.Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
		"bytes":       len(body),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload LatestRatesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("response for %s contains no rates", base)
	}

	quotes := make(map[entity.Currency]float64, len(payload.Rates))
	for code, rate := range payload.Rates {
		quotes[entity.Currency(code)] = rate
	}

	return quotes, nil
}
