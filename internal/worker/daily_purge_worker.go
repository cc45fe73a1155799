package worker

import (
	"context"
	"sync"
	"time"

	"github.com/novakeep/stakevault/internal/logger"
	"github.com/novakeep/stakevault/internal/staking"
)

// CounterPurger deletes stale daily withdrawal counters.
type CounterPurger interface {
	PurgeDailyCounters(ctx context.Context, before string) (int64, error)
}

// DailyPurgeWorker deletes expired daily withdrawal counters at 00:00 UTC.
// The cap itself resets lazily on the day boundary; this worker only stops
// dead rows from piling up.
type DailyPurgeWorker struct {
	purger   CounterPurger
	timer    *time.Timer
	shutdown chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// NewDailyPurgeWorker creates a new DailyPurgeWorker
func NewDailyPurgeWorker(purger CounterPurger) *DailyPurgeWorker {
	return &DailyPurgeWorker{
		purger:   purger,
		shutdown: make(chan struct{}),
	}
}

// Start initializes the worker and schedules the first purge
func (w *DailyPurgeWorker) Start() {
	w.scheduleNext()
}

// scheduleNext calculates the time until the next 00:00 UTC and schedules
// the purge
func (w *DailyPurgeWorker) scheduleNext() {
	duration := timeUntilNextPurge()
	log := logger.FromContext(context.Background())

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}

	// Two-stage scheduling to prevent "tight loop" rescheduling caused by early triggers
	if duration > 1*time.Hour {
		// Stage 1: Long-range (Standby). Wake up 45 minutes before the purge.
		waitDuration := duration - 45*time.Minute
		w.timer = time.AfterFunc(waitDuration, func() {
			w.scheduleNext()
		})
		w.mu.Unlock()

		nextCheck := time.Now().UTC().Add(waitDuration)
		log.Info(LogMsgDailyPurgeStandby, "next_check_at", nextCheck)
		return
	}

	// Stage 2: Final approach. Schedule the actual purge.
	w.timer = time.AfterFunc(duration, func() {
		select {
		case <-w.shutdown:
			return
		default:
		}

		// Jitter protection: if the timer triggered early (jitter > 10s),
		// simply reschedule for the remaining time.
		// If duration is > 23h, it means we are actually on time or slightly LATE.
		rem := timeUntilNextPurge()
		if rem > 10*time.Second && rem < 23*time.Hour {
			w.scheduleNext()
			return
		}

		w.executePurge()
		w.scheduleNext() // This will now calculate ~24h and jump back to Stage 1
	})
	w.mu.Unlock()

	nextPurge := time.Now().UTC().Add(duration)
	log.Info(LogMsgDailyPurgeApproach, "next_purge_at", nextPurge)
}

// executePurge deletes counters for past days in a tracked goroutine. Rows
// for the current UTC day stay: they are still enforcing today's cap.
func (w *DailyPurgeWorker) executePurge() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ctx := context.Background()
		log := logger.FromContext(ctx)
		log.Info(LogMsgDailyPurgeStarting)

		today := time.Now().UTC().Format(staking.DayFormat)
		purged, err := w.purger.PurgeDailyCounters(ctx, today)
		if err != nil {
			log.Error(LogMsgDailyPurgeFailed, "error", err)
			return
		}

		log.Info(LogMsgDailyPurgeCompleted, "rows_purged", purged)
	}()
}

// Shutdown gracefully shuts down the daily purge worker
// Cancels the pending timer and waits for any in-flight purges to complete
func (w *DailyPurgeWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down daily purge worker")

	// Signal shutdown to timer callback (safe to close once)
	select {
	case <-w.shutdown:
		// Already closed, nothing to do
	default:
		close(w.shutdown)
	}

	// Cancel pending timer
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		log.Info("Cancelled pending daily purge")
	}
	w.mu.Unlock()

	// Wait for any in-flight purges to complete
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("Daily purge worker shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn("Daily purge worker shutdown timeout, a purge may still be running")
		return ctx.Err()
	}
}

// timeUntilNextPurge calculates the duration until the next 00:00 UTC
func timeUntilNextPurge() time.Duration {
	now := time.Now().UTC()
	nextPurge := time.Date(
		now.Year(), now.Month(), now.Day(),
		0, 0, 0, 0, time.UTC,
	)
	if !nextPurge.After(now) {
		nextPurge = nextPurge.AddDate(0, 0, 1)
	}
	return nextPurge.Sub(now)
}
