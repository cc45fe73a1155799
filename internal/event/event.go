package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/novakeep/stakevault/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// Type-safe event constructors

// NewDepositMadeEvent creates a stake.deposited event
func NewDepositMadeEvent(accountID string, depositID int64, lockTier int, gross, commission, net int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeDepositMade),
		Payload: domain.DepositMadePayloadV1{
			AccountID:  accountID,
			DepositID:  depositID,
			LockTier:   lockTier,
			Gross:      gross,
			Commission: commission,
			Net:        net,
			Timestamp:  time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewWithdrawalMadeEvent creates a stake.withdrawn event. full marks a
// close-out withdrawal that returned principal alongside rewards.
func NewWithdrawalMadeEvent(accountID string, principal, reward, commission, netPaid int64, full bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeWithdrawalMade),
		Payload: domain.WithdrawalMadePayloadV1{
			AccountID:  accountID,
			Principal:  principal,
			Reward:     reward,
			Commission: commission,
			NetPaid:    netPaid,
			Full:       full,
			Timestamp:  time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewCompoundPerformedEvent creates a stake.compounded event
func NewCompoundPerformedEvent(accountID string, depositID, amount int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeCompoundPerformed),
		Payload: domain.CompoundPerformedPayloadV1{
			AccountID: accountID,
			DepositID: depositID,
			Amount:    amount,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewCommissionPaidEvent creates a treasury.commission_paid event
func NewCommissionPaidEvent(accountID, treasury string, amount int64, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeCommissionPaid),
		Payload: domain.CommissionPaidPayloadV1{
			AccountID: accountID,
			Treasury:  treasury,
			Amount:    amount,
			Source:    source,
			Timestamp: time.Now().Unix(),
		},
		Metadata: map[string]interface{}{
			"source": source,
		},
	}
}

// NewTreasuryChangedEvent creates a treasury.changed event
func NewTreasuryChangedEvent(oldTreasury, newTreasury string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeTreasuryChanged),
		Payload: domain.TreasuryChangedPayloadV1{
			OldTreasury: oldTreasury,
			NewTreasury: newTreasury,
			Timestamp:   time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewMigrationInitiatedEvent creates a ledger.migration_initiated event
func NewMigrationInitiatedEvent(target string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeMigrationInitiated),
		Payload: domain.MigrationInitiatedPayloadV1{
			Target:    target,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewLedgerPausedEvent creates a ledger.paused event covering both pause and
// unpause transitions
func NewLedgerPausedEvent(paused bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeLedgerPaused),
		Payload: domain.LedgerPausedPayloadV1{
			Paused:    paused,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewSkillAppliedEvent creates a skill.applied event
func NewSkillAppliedEvent(accountID, tokenID, skillType string, magnitudeBP int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeSkillApplied),
		Payload: domain.SkillAppliedPayloadV1{
			AccountID:   accountID,
			TokenID:     tokenID,
			SkillType:   skillType,
			MagnitudeBP: magnitudeBP,
			Timestamp:   time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewSkillRemovedEvent creates a skill.removed event
func NewSkillRemovedEvent(accountID, tokenID string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeSkillRemoved),
		Payload: domain.SkillRemovedPayloadV1{
			AccountID: accountID,
			TokenID:   tokenID,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewReserveFundedEvent creates a reserve.funded event
func NewReserveFundedEvent(amount, newReserve int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeReserveFunded),
		Payload: domain.ReserveFundedPayloadV1{
			Amount:     amount,
			NewReserve: newReserve,
			Timestamp:  time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	// Handlers run synchronously; a slow subscriber slows the publisher.
	// Audit subscribers must stay cheap or hop to the worker pool themselves.
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
