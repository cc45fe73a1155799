package eventlog

import (
	"context"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/event"
	"github.com/novakeep/stakevault/internal/logger"
	"github.com/novakeep/stakevault/internal/metrics"
)

// Service handles event logging business logic
type Service interface {
	// Subscribe registers the event logger to listen to all events
	Subscribe(bus event.Bus) error

	// GetEvents retrieves logged events matching the filter
	GetEvents(ctx context.Context, filter EventFilter) ([]Event, error)

	// CleanupOldEvents removes events older than retention period
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo Repository
}

// NewService creates a new event logging service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Subscribe registers event handlers for all ledger event types
func (s *service) Subscribe(bus event.Bus) error {
	eventTypes := []event.Type{
		domain.EventTypeDepositMade,
		domain.EventTypeWithdrawalMade,
		domain.EventTypeCompoundPerformed,
		domain.EventTypeCommissionPaid,
		domain.EventTypeTreasuryChanged,
		domain.EventTypeMigrationInitiated,
		domain.EventTypeLedgerPaused,
		domain.EventTypeSkillApplied,
		domain.EventTypeSkillRemoved,
		domain.EventTypeReserveFunded,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}

	return nil
}

// handleEvent persists one event to the audit log. Payloads are typed structs
// when published in-process, so they go through a JSON round-trip to get the
// generic map the log stores.
func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := event.DecodePayload[map[string]interface{}](evt.Payload)
	if err != nil {
		log.Debug(LogMsgEventPayloadNotMap, "type", evt.Type, "error", err)
		return nil
	}

	// Extract account_id if present
	var accountID *string
	if id, ok := payload[PayloadKeyAccountID].(string); ok {
		accountID = &id
	}

	metadata, _ := evt.Metadata.(map[string]interface{})

	if err := s.repo.LogEvent(ctx, string(evt.Type), accountID, payload, metadata); err != nil {
		log.Error(LogMsgFailedToLogEvent, "error", err, "type", evt.Type)
		metrics.EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		return err
	}

	log.Debug(LogMsgEventLogged, "type", evt.Type, "account_id", accountID)
	return nil
}

// GetEvents retrieves logged events matching the filter
func (s *service) GetEvents(ctx context.Context, filter EventFilter) ([]Event, error) {
	return s.repo.GetEvents(ctx, filter)
}

// CleanupOldEvents removes events older than the retention period
func (s *service) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	return s.repo.CleanupOldEvents(ctx, retentionDays)
}
