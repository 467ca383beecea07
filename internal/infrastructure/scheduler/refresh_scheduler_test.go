package scheduler

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/damon-houk/xof-converter/internal/infrastructure/logger"
	"github.com/damon-houk/xof-converter/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewRefreshSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewRefreshScheduler("every hour please", new(mocks.MockRateRefresher), 0, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid refresh schedule")
}

func TestNewRefreshSchedulerAcceptsSpecs(t *testing.T) {
	for _, spec := range []string{"0 * * * *", "*/55 * * * *", "@hourly", "@every 55m"} {
		_, err := NewRefreshScheduler(spec, new(mocks.MockRateRefresher), time.Second, nil)
		assert.NoError(t, err, spec)
	}
}

func TestRefreshLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	refresher := new(mocks.MockRateRefresher)
	refresher.On("Refresh", mock.Anything).Return(errors.New("upstream down")).Once()

	s, err := NewRefreshScheduler("@hourly", refresher, time.Second, logger.NewJSONLogger(&buf, logger.InfoLevel))
	require.NoError(t, err)

	s.refresh()

	refresher.AssertExpectations(t)
	assert.Contains(t, buf.String(), "Scheduled rate refresh failed")
	assert.Contains(t, buf.String(), "upstream down")
}

func TestRefreshPassesDeadline(t *testing.T) {
	refresher := new(mocks.MockRateRefresher)
	refresher.On("Refresh", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})).Return(nil).Once()

	s, err := NewRefreshScheduler("@hourly", refresher, 5*time.Second, logger.NewJSONLogger(&bytes.Buffer{}, logger.InfoLevel))
	require.NoError(t, err)

	s.refresh()
	refresher.AssertExpectations(t)
}

func TestRunStopsWithContext(t *testing.T) {
	refresher := new(mocks.MockRateRefresher)
	refresher.On("Refresh", mock.Anything).Return(nil).Maybe()

	s, err := NewRefreshScheduler("@every 1s", refresher, time.Second, logger.NewJSONLogger(&bytes.Buffer{}, logger.InfoLevel))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(1500 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	refresher.AssertCalled(t, "Refresh", mock.Anything)
}
