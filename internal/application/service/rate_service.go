// Package service internal/application/service/rate_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/xof-converter/internal/domain/entity"
	"github.com/damon-houk/xof-converter/internal/domain/repository"
	domainservice "github.com/damon-houk/xof-converter/internal/domain/service"
	"github.com/damon-houk/xof-converter/internal/infrastructure/logger"
	"github.com/damon-houk/xof-converter/internal/infrastructure/metrics"
	"github.com/damon-houk/xof-converter/internal/infrastructure/middleware"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheWindow is how long a snapshot is served without asking the upstream again
const DefaultCacheWindow = time.Hour

const refreshKey = "latest"

// RatesResult is the answer to a rate lookup. When Err is non-nil the
// upstream could not be used and Rates holds the hardcoded defaults.
type RatesResult struct {
	Rates      entity.RateSnapshot
	LastUpdate time.Time
	Cached     bool
	Err        error
}

// IsFallback reports whether the default rates were served
func (r RatesResult) IsFallback() bool {
	return r.Err != nil
}

// RateServiceOptions tunes a RateService. Zero values select the defaults.
type RateServiceOptions struct {
	CacheWindow  time.Duration
	SingleFlight bool
	Now          func() time.Time
	Logger       logger.Logger
	Metrics      *metrics.Metrics
}

// RateService answers "current XOF rates" with at most one upstream call per cache window
type RateService struct {
	provider     domainservice.RateProvider
	store        repository.SnapshotStore
	window       time.Duration
	singleFlight bool
	group        singleflight.Group
	now          func() time.Time
	logger       logger.Logger
	metrics      *metrics.Metrics
}

// NewRateService creates a new rate service
func NewRateService(provider domainservice.RateProvider, store repository.SnapshotStore, opts RateServiceOptions) *RateService {
	if opts.CacheWindow <= 0 {
		opts.CacheWindow = DefaultCacheWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetDefaultLogger()
	}

	return &RateService{
		provider:     provider,
		store:        store,
		window:       opts.CacheWindow,
		singleFlight: opts.SingleFlight,
		now:          opts.Now,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
	}
}

// GetRates returns the cached snapshot while it is fresh, otherwise fetches a
// new one. It never fails: upstream problems yield the default rates with Err set.
func (s *RateService) GetRates(ctx context.Context) RatesResult {
	requestID := middleware.GetRequestID(ctx)

	if cached, ok := s.fresh(ctx, s.now()); ok {
		s.logger.Debug("Serving cached rates", logger.Fields{
			"request_id": requestID,
			"age":        cached.Age(s.now()).String(),
		})
		s.observe(metrics.OutcomeCached)
		return RatesResult{Rates: cached.Rates, LastUpdate: cached.CapturedAt, Cached: true}
	}

	result, err := s.refresh(ctx)
	if err != nil {
		s.logger.Error("Failed to refresh rates, serving defaults", logger.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		})
		s.observe(metrics.OutcomeFallback)
		return RatesResult{
			Rates:      entity.DefaultRates(),
			LastUpdate: s.now(),
			Cached:     false,
			Err:        err,
		}
	}

	if result.Cached {
		s.observe(metrics.OutcomeCached)
	} else {
		s.observe(metrics.OutcomeFresh)
	}
	return result
}

// Refresh fetches and caches a new snapshot regardless of the cached one.
// On failure the cache is left untouched.
func (s *RateService) Refresh(ctx context.Context) error {
	_, err := s.fetchAndStore(ctx)
	return err
}

// fresh returns the cached snapshot if one exists and is younger than the window
func (s *RateService) fresh(ctx context.Context, now time.Time) (*entity.CachedSnapshot, bool) {
	cached, err := s.store.Get(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrSnapshotNotFound) {
			s.logger.Warn("Failed to read cached rates", logger.Fields{"error": err.Error()})
		}
		return nil, false
	}
	if cached.Age(now) >= s.window {
		return nil, false
	}
	return cached, true
}

func (s *RateService) refresh(ctx context.Context) (RatesResult, error) {
	if !s.singleFlight {
		snap, err := s.fetchAndStore(ctx)
		if err != nil {
			return RatesResult{}, err
		}
		return RatesResult{Rates: snap.Rates, LastUpdate: snap.CapturedAt}, nil
	}

	v, err, _ := s.group.Do(refreshKey, func() (interface{}, error) {
		// Another flight may have completed between our miss and this call
		if cached, ok := s.fresh(ctx, s.now()); ok {
			return RatesResult{Rates: cached.Rates, LastUpdate: cached.CapturedAt, Cached: true}, nil
		}

		snap, err := s.fetchAndStore(ctx)
		if err != nil {
			return nil, err
		}
		return RatesResult{Rates: snap.Rates, LastUpdate: snap.CapturedAt}, nil
	})
	if err != nil {
		return RatesResult{}, err
	}

	// Shared results must not alias the same map
	result := v.(RatesResult)
	result.Rates = result.Rates.Clone()
	return result, nil
}

func (s *RateService) fetchAndStore(ctx context.Context) (*entity.CachedSnapshot, error) {
	// The fetch outlives a disconnecting client so its result still lands in the cache
	fetchCtx := context.WithoutCancel(ctx)
	capturedAt := s.now()

	start := time.Now()
	quotes, err := s.provider.FetchLatestRates(fetchCtx, entity.BaseCurrency)
	if s.metrics != nil {
		s.metrics.UpstreamFetchDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		s.upstreamFailed()
		return nil, fmt.Errorf("failed to fetch latest rates: %w", err)
	}

	rates, err := entity.NewRateSnapshot(quotes)
	if err != nil {
		s.upstreamFailed()
		return nil, fmt.Errorf("failed to parse latest rates: %w", err)
	}

	snap := &entity.CachedSnapshot{Rates: rates, CapturedAt: capturedAt}
	if err := s.store.Set(fetchCtx, snap); err != nil {
		s.logger.Error("Failed to cache rates", logger.Fields{"error": err.Error()})
	}

	s.logger.Info("Rates refreshed", logger.Fields{
		"base":        entity.BaseCurrency,
		"captured_at": capturedAt.UTC().Format(time.RFC3339),
		"EUR":         rates[entity.EUR],
		"USD":         rates[entity.USD],
	})

	return snap, nil
}

func (s *RateService) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.RateLookupsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *RateService) upstreamFailed() {
	if s.metrics != nil {
		s.metrics.UpstreamFailuresTotal.Inc()
	}
}
