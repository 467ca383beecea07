// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/xof-converter/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockRateProvider mocks the RateProvider interface
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) FetchLatestRates(ctx context.Context, base entity.Currency) (map[entity.Currency]float64, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entity.Currency]float64), args.Error(1)
}

// MockSnapshotStore mocks the SnapshotStore interface
type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) Get(ctx context.Context) (*entity.CachedSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CachedSnapshot), args.Error(1)
}

func (m *MockSnapshotStore) Set(ctx context.Context, snapshot *entity.CachedSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// MockRateRefresher mocks the scheduler's view of the rate service
type MockRateRefresher struct {
	mock.Mock
}

func (m *MockRateRefresher) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// SampleQuotes returns upstream quotes for 1 XOF that invert to round figures
func SampleQuotes() map[entity.Currency]float64 {
	return map[entity.Currency]float64{
		entity.EUR: 0.0015,
		entity.USD: 0.0016,
		entity.GBP: 0.00128,
		entity.CAD: 0.00226,
		entity.CHF: 0.00144,
		entity.XOF: 1,
	}
}
