// internal/infrastructure/api/exchangerate_api_client_test.go
package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/damon-houk/xof-converter/internal/domain/entity"
	"github.com/damon-houk/xof-converter/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
	"provider": "https://www.exchangerate-api.com",
	"base": "XOF",
	"date": "2024-05-01",
	"time_last_updated": 1714521601,
	"rates": {
		"XOF": 1,
		"EUR": 0.0015,
		"USD": 0.0016,
		"GBP": 0.00128,
		"CAD": 0.00226,
		"CHF": 0.00144,
		"JPY": 0.25
	}
}`

func newTestClient(serverURL string) *ExchangeRateAPIClient {
	return NewExchangeRateAPIClient(serverURL, time.Second, logger.NewJSONLogger(nil, logger.ErrorLevel))
}

func TestFetchLatestRates(t *testing.T) {
	var calls int
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v4/latest/XOF", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer mockServer.Close()

	client := newTestClient(mockServer.URL)
	quotes, err := client.FetchLatestRates(context.Background(), entity.XOF)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0.0015, quotes[entity.EUR])
	assert.Equal(t, 0.0016, quotes[entity.USD])
	assert.Equal(t, 0.25, quotes[entity.Currency("JPY")])
	assert.Len(t, quotes, 7)
}

func TestFetchLatestRatesErrors(t *testing.T) {
	t.Run("Non 2xx status", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte("quota exceeded"))
		}))
		defer mockServer.Close()

		quotes, err := newTestClient(mockServer.URL).FetchLatestRates(context.Background(), entity.XOF)
		assert.Nil(t, quotes)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("Non JSON body", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>maintenance</html>"))
		}))
		defer mockServer.Close()

		_, err := newTestClient(mockServer.URL).FetchLatestRates(context.Background(), entity.XOF)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode response")
	})

	t.Run("Missing rates object", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"base":"XOF"}`))
		}))
		defer mockServer.Close()

		_, err := newTestClient(mockServer.URL).FetchLatestRates(context.Background(), entity.XOF)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "contains no rates")
	})

	t.Run("Unreachable host", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		serverURL := mockServer.URL
		mockServer.Close()

		_, err := newTestClient(serverURL).FetchLatestRates(context.Background(), entity.XOF)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute request")
	})

	t.Run("Timeout", func(t *testing.T) {
		release := make(chan struct{})
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer mockServer.Close()
		defer close(release)

		client := NewExchangeRateAPIClient(mockServer.URL, 50*time.Millisecond, logger.NewJSONLogger(nil, logger.ErrorLevel))
		_, err := client.FetchLatestRates(context.Background(), entity.XOF)
		assert.Error(t, err)
	})
}

func TestNewExchangeRateAPIClientDefaults(t *testing.T) {
	client := NewExchangeRateAPIClient("", 0, nil)

	assert.Equal(t, defaultBaseURL, client.baseURL)
	assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
	assert.NotNil(t, client.logger)
}
