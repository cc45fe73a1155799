package scheduler

import (
	"sync"
	"time"

	"github.com/novakeep/stakevault/internal/worker"
)

// Scheduler manages scheduled jobs
type Scheduler struct {
	workerPool *worker.Pool
	quit       chan struct{}
	wg         sync.WaitGroup
}

// New creates a new scheduler
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		quit:       make(chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval. The first run happens
// one interval after the call, not immediately.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				// Enqueue blocks when the pool queue is full, which
				// stalls this ticker rather than piling up duplicate
				// runs of the same job.
				s.workerPool.Enqueue(job)
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs. Runs already handed to the worker pool are
// unaffected.
func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}
