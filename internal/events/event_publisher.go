package events

import (
	"context"
	"sync"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Event type names carried in the "event-type" header
const (
	TypeLotReceived               = "LotReceived"
	TypeStockReserved             = "StockReserved"
	TypeReservationCommitted      = "ReservationCommitted"
	TypeReservationCancelled      = "ReservationCancelled"
	TypeCaseMaterialStatusChanged = "CaseMaterialStatusChanged"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Event is implemented by every published domain event
type Event interface {
	EventType() string
	// PartitionKey keeps events of one lot or case ordered within a partition
	PartitionKey() string
	ID() uuid.UUID
}

type LotReceivedEvent struct {
	EventID     uuid.UUID       `json:"event_id"`
	LotID       uuid.UUID       `json:"lot_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	LotNumber   string          `json:"lot_number"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	PhysicalQty decimal.Decimal `json:"physical_qty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// ReservationEvent is the payload shared by the reservation lifecycle events
type ReservationEvent struct {
	EventID        uuid.UUID       `json:"event_id"`
	ReservationID  uuid.UUID       `json:"reservation_id"`
	LotID          uuid.UUID       `json:"lot_id"`
	CaseMaterialID *uuid.UUID      `json:"case_material_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	PhysicalQty    decimal.Decimal `json:"physical_qty"`
	AvailableQty   decimal.Decimal `json:"available_qty"`
	ReservedQty    decimal.Decimal `json:"reserved_qty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

type StockReservedEvent struct{ ReservationEvent }

type ReservationCommittedEvent struct{ ReservationEvent }

type ReservationCancelledEvent struct{ ReservationEvent }

type CaseMaterialStatusChangedEvent struct {
	EventID    uuid.UUID             `json:"event_id"`
	CaseID     uuid.UUID             `json:"case_id"`
	CaseNumber string                `json:"case_number"`
	Previous   domain.MaterialStatus `json:"previous"`
	Current    domain.MaterialStatus `json:"current"`
	OccurredAt time.Time             `json:"occurred_at"`
}

func (e LotReceivedEvent) EventType() string    { return TypeLotReceived }
func (e LotReceivedEvent) PartitionKey() string { return e.LotID.String() }
func (e LotReceivedEvent) ID() uuid.UUID        { return e.EventID }

func (e ReservationEvent) PartitionKey() string { return e.LotID.String() }
func (e ReservationEvent) ID() uuid.UUID        { return e.EventID }

func (e StockReservedEvent) EventType() string        { return TypeStockReserved }
func (e ReservationCommittedEvent) EventType() string { return TypeReservationCommitted }
func (e ReservationCancelledEvent) EventType() string { return TypeReservationCancelled }

func (e CaseMaterialStatusChangedEvent) EventType() string    { return TypeCaseMaterialStatusChanged }
func (e CaseMaterialStatusChangedEvent) PartitionKey() string { return e.CaseID.String() }
func (e CaseMaterialStatusChangedEvent) ID() uuid.UUID        { return e.EventID }

// NewLotReceived builds the event for a goods receipt
func NewLotReceived(lot *domain.InventoryLot) LotReceivedEvent {
	return LotReceivedEvent{
		EventID:     uuid.New(),
		LotID:       lot.ID,
		ProductID:   lot.ProductID,
		LotNumber:   lot.LotNumber,
		ExpiryDate:  lot.ExpiryDate,
		PhysicalQty: lot.PhysicalQty,
		OccurredAt:  time.Now().UTC(),
	}
}

// NewReservationEvent captures a reservation and the lot balances after the change
func NewReservationEvent(r *domain.Reservation, lot *domain.InventoryLot) ReservationEvent {
	return ReservationEvent{
		EventID:        uuid.New(),
		ReservationID:  r.ID,
		LotID:          r.LotID,
		CaseMaterialID: r.CaseMaterialID,
		Quantity:       r.ReservedQty,
		PhysicalQty:    lot.PhysicalQty,
		AvailableQty:   lot.AvailableQty,
		ReservedQty:    lot.ReservedQty,
		OccurredAt:     time.Now().UTC(),
	}
}

// DefaultRetainedEvents is how many events an InMemoryEventPublisher keeps
const DefaultRetainedEvents = 1000

// InMemoryEventPublisher keeps the most recent published events in memory.
// It is used when Kafka is disabled and in tests.
type InMemoryEventPublisher struct {
	logger *zap.Logger
	retain int
	mu     sync.Mutex
	events []Event
}

func NewInMemoryEventPublisher(logger *zap.Logger) *InMemoryEventPublisher {
	return NewBoundedEventPublisher(logger, DefaultRetainedEvents)
}

// NewBoundedEventPublisher keeps at most retain events, dropping the oldest
func NewBoundedEventPublisher(logger *zap.Logger, retain int) *InMemoryEventPublisher {
	if retain < 1 {
		retain = 1
	}
	return &InMemoryEventPublisher{
		logger: logger,
		retain: retain,
		events: make([]Event, 0),
	}
}

func (p *InMemoryEventPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.Lock()
	p.events = append(p.events, event)
	// compact once the backlog doubles so trimming stays amortized
	if len(p.events) >= 2*p.retain {
		n := copy(p.events, p.events[len(p.events)-p.retain:])
		clear(p.events[n:])
		p.events = p.events[:n]
	}
	p.mu.Unlock()

	p.logger.Debug("Event published (in-memory)",
		zap.String("event-type", event.EventType()),
		zap.String("event-id", event.ID().String()),
	)
	return nil
}

// Events returns a copy of the retained events, oldest first
func (p *InMemoryEventPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.events
	if len(kept) > p.retain {
		kept = kept[len(kept)-p.retain:]
	}
	out := make([]Event, len(kept))
	copy(out, kept)
	return out
}

// Types returns the retained event types, in order
func (p *InMemoryEventPublisher) Types() []string {
	events := p.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType()
	}
	return types
}
