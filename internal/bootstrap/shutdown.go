package bootstrap

import (
	"context"
	"log/slog"

	"github.com/novakeep/stakevault/internal/event"
	"github.com/novakeep/stakevault/internal/scheduler"
	"github.com/novakeep/stakevault/internal/server"
	"github.com/novakeep/stakevault/internal/staking"
	"github.com/novakeep/stakevault/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	PurgeWorker        *worker.DailyPurgeWorker
	StakingService     staking.Service
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in the correct order:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler (stop queueing new sweep jobs)
// 3. Worker pool (drain queued jobs)
// 4. Daily purge worker (cancel pending timers, drain in-flight purges)
// 5. Staking service (complete in-flight background operations)
// 6. Event publisher (flush pending events to ensure consistency)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	// Shutdown server first (stop accepting new requests)
	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	// Stop the scheduler before the pool so nothing enqueues into a
	// stopped pool
	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}

	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	if components.PurgeWorker != nil {
		if err := components.PurgeWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgPurgeWorkerShutdownFailed, "error", err)
		}
	}

	if components.StakingService != nil {
		shutdownService(ctx, ServiceNameStaking, components.StakingService)
	}

	// Shutdown resilient publisher last to flush pending events
	slog.Info(LogMsgShuttingDownEventPublisher)
	if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
		slog.Error(LogMsgResilientPublisherFailed, "error", err)
	}

	slog.Info(LogMsgServerStopped)
}

// shutdownService is a helper that shuts down a service and logs any errors.
type shutdownableService interface {
	Shutdown(context.Context) error
}

func shutdownService(ctx context.Context, name string, service shutdownableService) {
	if err := service.Shutdown(ctx); err != nil {
		slog.Error(name+LogMsgServiceShutdownFailed, "error", err)
	}
}
