package metrics

import (
	"context"
	"strconv"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/event"
	"github.com/novakeep/stakevault/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		domain.EventTypeDepositMade,
		domain.EventTypeWithdrawalMade,
		domain.EventTypeCompoundPerformed,
		domain.EventTypeCommissionPaid,
		domain.EventTypeReserveFunded,
		domain.EventTypeSkillApplied,
		domain.EventTypeSkillRemoved,
		domain.EventTypeLedgerPaused,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case domain.EventTypeDepositMade:
		p, err := event.DecodePayload[domain.DepositMadePayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		DepositsTotal.WithLabelValues(strconv.Itoa(p.LockTier)).Inc()
		DepositedUnits.Add(float64(p.Net))

	case domain.EventTypeWithdrawalMade:
		p, err := event.DecodePayload[domain.WithdrawalMadePayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		kind := WithdrawalKindRewards
		if p.Full {
			kind = WithdrawalKindFull
		}
		WithdrawalsTotal.WithLabelValues(kind).Inc()
		WithdrawnUnits.Add(float64(p.NetPaid))

	case domain.EventTypeCompoundPerformed:
		p, err := event.DecodePayload[domain.CompoundPerformedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		CompoundsTotal.Inc()
		CompoundedUnits.Add(float64(p.Amount))

	case domain.EventTypeCommissionPaid:
		p, err := event.DecodePayload[domain.CommissionPaidPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		CommissionUnits.WithLabelValues(p.Source).Add(float64(p.Amount))

	case domain.EventTypeReserveFunded:
		p, err := event.DecodePayload[domain.ReserveFundedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		ReserveFundedUnits.Add(float64(p.Amount))
		RewardReserve.Set(float64(p.NewReserve))

	case domain.EventTypeSkillApplied:
		p, err := event.DecodePayload[domain.SkillAppliedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		SkillGrantsApplied.WithLabelValues(p.SkillType).Inc()

	case domain.EventTypeSkillRemoved:
		SkillGrantsRemoved.Inc()

	case domain.EventTypeLedgerPaused:
		p, err := event.DecodePayload[domain.LedgerPausedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		if p.Paused {
			LedgerPaused.Set(1)
		} else {
			LedgerPaused.Set(0)
		}
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

// SetPoolStats refreshes the pool gauges from a stats snapshot
func SetPoolStats(stats domain.PoolStats) {
	PoolBalance.Set(float64(stats.TotalPoolBalance))
	RewardReserve.Set(float64(stats.RewardReserve))
	UniqueAccounts.Set(float64(stats.UniqueAccounts))
}
