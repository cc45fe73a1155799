package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/novakeep/stakevault/internal/event"
	"github.com/novakeep/stakevault/internal/eventlog"
	"github.com/novakeep/stakevault/internal/metrics"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus        event.Bus
	EventLogService eventlog.Service
}

// RegisterEventHandlers sets up all event subscribers.
// This includes:
// - Metrics collector (for event-based metrics)
// - Event logger (persists events to the audit log)
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	// Register Metrics Collector
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	// Subscribe Event Logger
	if err := deps.EventLogService.Subscribe(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSubscribeEventLogger, err)
	}
	slog.Info(LogMsgEventLoggerInitialized)

	return nil
}
