package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/novakeep/stakevault/internal/domain"
)

// MockPoolStatsSource implements PoolStatsSource for testing
type MockPoolStatsSource struct {
	mock.Mock
}

func (m *MockPoolStatsSource) GetPoolStats(ctx context.Context) (*domain.PoolStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PoolStats), args.Error(1)
}

func TestPoolStatsJob_Process(t *testing.T) {
	ctx := context.Background()
	source := new(MockPoolStatsSource)
	source.On("GetPoolStats", ctx).Return(&domain.PoolStats{
		TotalPoolBalance: 100000,
		RewardReserve:    5000,
		UniqueAccounts:   12,
	}, nil)

	job := NewPoolStatsJob(source)
	err := job.Process(ctx)

	assert.NoError(t, err)
	source.AssertExpectations(t)
}

func TestPoolStatsJob_ProcessError(t *testing.T) {
	ctx := context.Background()
	source := new(MockPoolStatsSource)
	readErr := errors.New("db down")
	source.On("GetPoolStats", ctx).Return(nil, readErr)

	job := NewPoolStatsJob(source)
	err := job.Process(ctx)

	assert.ErrorIs(t, err, readErr)
}
