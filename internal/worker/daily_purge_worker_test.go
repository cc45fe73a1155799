package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/novakeep/stakevault/internal/staking"
)

// MockCounterPurger for testing
type MockCounterPurger struct {
	mock.Mock
}

func (m *MockCounterPurger) PurgeDailyCounters(ctx context.Context, before string) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// TestTimeUntilNextPurge tests purge time calculation
func TestTimeUntilNextPurge(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want func(d time.Duration) bool
	}{
		{
			name: "01:00 UTC should be ~23 hours until next purge",
			now:  time.Date(2026, 2, 2, 1, 0, 0, 0, time.UTC),
			want: func(d time.Duration) bool {
				return d > 22*time.Hour && d < 24*time.Hour
			},
		},
		{
			name: "23:59 UTC should be ~1 minute until next purge",
			now:  time.Date(2026, 2, 2, 23, 59, 0, 0, time.UTC),
			want: func(d time.Duration) bool {
				return d > 0 && d < 2*time.Minute
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Since we can't easily mock time.Now() inside the function without changing it
			// we verify the logic manually here or just ensure it's reasonable
			nextPurge := time.Date(tt.now.Year(), tt.now.Month(), tt.now.Day(), 0, 0, 0, 0, time.UTC)
			if !nextPurge.After(tt.now) {
				nextPurge = nextPurge.AddDate(0, 0, 1)
			}
			testDuration := nextPurge.Sub(tt.now)

			assert.Greater(t, testDuration, time.Duration(0))
			assert.Less(t, testDuration, 25*time.Hour)
			assert.True(t, tt.want(testDuration))
		})
	}
}

// TestDailyPurgeWorkerStart tests that the worker schedules a purge
func TestDailyPurgeWorkerStart(t *testing.T) {
	purger := new(MockCounterPurger)

	worker := NewDailyPurgeWorker(purger)

	// Start should not panic
	worker.Start()

	// Shutdown should complete without error
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := worker.Shutdown(ctx)
	assert.NoError(t, err)
}

// TestDailyPurgeWorkerExecute tests that a purge reaches the repository
func TestDailyPurgeWorkerExecute(t *testing.T) {
	purger := new(MockCounterPurger)
	purger.On("PurgeDailyCounters", mock.Anything, mock.AnythingOfType("string")).Return(int64(3), nil)

	worker := NewDailyPurgeWorker(purger)
	worker.executePurge()

	// Shutdown drains the in-flight purge goroutine
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := worker.Shutdown(ctx)
	assert.NoError(t, err)

	purger.AssertExpectations(t)

	// The cutoff must be a UTC day, never a timestamp: today's counters
	// still enforce today's cap and must survive the purge.
	day := purger.Calls[0].Arguments.String(1)
	_, parseErr := time.Parse(staking.DayFormat, day)
	assert.NoError(t, parseErr)
}

// TestDailyPurgeWorkerExecuteError tests that a failed purge does not panic
func TestDailyPurgeWorkerExecuteError(t *testing.T) {
	purger := new(MockCounterPurger)
	purger.On("PurgeDailyCounters", mock.Anything, mock.AnythingOfType("string")).Return(int64(0), errors.New("db down"))

	worker := NewDailyPurgeWorker(purger)
	worker.executePurge()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := worker.Shutdown(ctx)
	assert.NoError(t, err)

	purger.AssertExpectations(t)
}

// TestDailyPurgeWorkerShutdown tests graceful shutdown
func TestDailyPurgeWorkerShutdown(t *testing.T) {
	purger := new(MockCounterPurger)

	worker := NewDailyPurgeWorker(purger)
	worker.Start()

	// Allow time for any scheduled timers
	time.Sleep(100 * time.Millisecond)

	// Shutdown should complete without hanging
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := worker.Shutdown(ctx)
	assert.NoError(t, err)
}

// TestDailyPurgeWorkerShutdownTimeout tests timeout during shutdown
func TestDailyPurgeWorkerShutdownTimeout(t *testing.T) {
	purger := new(MockCounterPurger)

	worker := NewDailyPurgeWorker(purger)
	worker.Start()

	// Shutdown with very short timeout should timeout
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Millisecond)
	defer cancel()

	// This might timeout (expected) or succeed quickly (also ok)
	_ = worker.Shutdown(ctx)

	// Verify worker still shuts down eventually
	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	err := worker.Shutdown(ctx2)
	assert.NoError(t, err)
}
