// Package scheduler internal/infrastructure/scheduler/refresh_scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/damon-houk/xof-converter/internal/infrastructure/logger"
	"github.com/robfig/cron/v3"
)

// RateRefresher forces a new rate snapshot into the cache
type RateRefresher interface {
	Refresh(ctx context.Context) error
}

// RefreshScheduler warms the rate cache on a cron schedule so requests rarely wait on the upstream
type RefreshScheduler struct {
	cron      *cron.Cron
	refresher RateRefresher
	spec      string
	timeout   time.Duration
	logger    logger.Logger
}

// NewRefreshScheduler parses spec (standard 5-field cron or a descriptor such
// as "@every 55m") and returns a scheduler that is not yet running.
func NewRefreshScheduler(spec string, refresher RateRefresher, timeout time.Duration, log logger.Logger) (*RefreshScheduler, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	s := &RefreshScheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		refresher: refresher,
		spec:      spec,
		timeout:   timeout,
		logger:    log,
	}

	if _, err := s.cron.AddFunc(spec, s.refresh); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}

	return s, nil
}

// Run starts the schedule and blocks until ctx is done. Running jobs are
// allowed to finish before it returns.
func (s *RefreshScheduler) Run(ctx context.Context) error {
	s.logger.Info("Rate refresh scheduler started", logger.Fields{"schedule": s.spec})
	s.cron.Start()

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.logger.Info("Rate refresh scheduler stopped", nil)
	return nil
}

func (s *RefreshScheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Error("Scheduled rate refresh failed", logger.Fields{
			"error":       err.Error(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return
	}

	s.logger.Debug("Scheduled rate refresh completed", logger.Fields{
		"duration_ms": time.Since(start).Milliseconds(),
	})
}
