package worker

import (
	"context"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/metrics"
)

// PoolStatsSource reads the current pool aggregates.
type PoolStatsSource interface {
	GetPoolStats(ctx context.Context) (*domain.PoolStats, error)
}

// PoolStatsJob refreshes the pool gauges from the database. Event handlers
// keep the gauges current while the process runs; this job seeds them after
// a restart and corrects any drift.
type PoolStatsJob struct {
	stats PoolStatsSource
}

// NewPoolStatsJob creates a new PoolStatsJob
func NewPoolStatsJob(stats PoolStatsSource) *PoolStatsJob {
	return &PoolStatsJob{stats: stats}
}

// Process reads one stats snapshot and pushes it into the gauges
func (j *PoolStatsJob) Process(ctx context.Context) error {
	stats, err := j.stats.GetPoolStats(ctx)
	if err != nil {
		return err
	}

	metrics.SetPoolStats(*stats)
	return nil
}
