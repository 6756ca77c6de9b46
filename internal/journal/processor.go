package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kpcrmv4/manusdentalos/internal/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrMalformedEvent marks payloads that can never be projected
var ErrMalformedEvent = errors.New("malformed event")

// IsPermanent reports whether retrying err cannot succeed
func IsPermanent(err error) bool {
	return errors.Is(err, ErrMalformedEvent) || errors.Is(err, ErrUnknownEvent)
}

// MovementWriter is the write side the processor needs
type MovementWriter interface {
	Record(ctx context.Context, m *Movement) (bool, error)
}

// Processor projects stock events into movements
type Processor struct {
	writer MovementWriter
	logger *zap.Logger
}

func NewProcessor(writer MovementWriter, logger *zap.Logger) *Processor {
	return &Processor{writer: writer, logger: logger}
}

// ProcessEvent journals a single event. Redelivered events are ignored.
func (p *Processor) ProcessEvent(ctx context.Context, eventType string, data []byte) error {
	m, err := Project(eventType, data)
	if err != nil {
		return err
	}

	inserted, err := p.writer.Record(ctx, m)
	if err != nil {
		return err
	}
	if !inserted {
		p.logger.Info("Duplicate event ignored",
			zap.String("event_type", eventType),
			zap.String("event_id", m.EventID),
		)
		return nil
	}

	p.logger.Info("Movement recorded",
		zap.String("event_type", eventType),
		zap.String("event_id", m.EventID),
		zap.String("lot_id", m.LotID),
		zap.String("quantity", m.Quantity.String()),
	)
	return nil
}

// Project converts an event payload into the balance deltas it implies
func Project(eventType string, data []byte) (*Movement, error) {
	switch eventType {
	case events.TypeLotReceived:
		var e events.LotReceivedEvent
		if err := decode(data, &e); err != nil {
			return nil, err
		}
		if err := requireIDs(e.EventID, e.LotID); err != nil {
			return nil, err
		}
		return &Movement{
			EventID:        e.EventID.String(),
			EventType:      eventType,
			LotID:          e.LotID.String(),
			ProductID:      e.ProductID.String(),
			Quantity:       e.PhysicalQty,
			PhysicalDelta:  e.PhysicalQty,
			AvailableDelta: e.PhysicalQty,
			ReservedDelta:  decimal.Zero,
			OccurredAt:     e.OccurredAt,
		}, nil

	case events.TypeStockReserved, events.TypeReservationCommitted, events.TypeReservationCancelled:
		var e events.ReservationEvent
		if err := decode(data, &e); err != nil {
			return nil, err
		}
		if err := requireIDs(e.EventID, e.LotID); err != nil {
			return nil, err
		}
		m := &Movement{
			EventID:       e.EventID.String(),
			EventType:     eventType,
			LotID:         e.LotID.String(),
			ReservationID: e.ReservationID.String(),
			Quantity:      e.Quantity,
			OccurredAt:    e.OccurredAt,
		}
		if e.CaseMaterialID != nil {
			m.CaseMaterialID = e.CaseMaterialID.String()
		}

		q := e.Quantity
		switch eventType {
		case events.TypeStockReserved:
			m.PhysicalDelta, m.AvailableDelta, m.ReservedDelta = decimal.Zero, q.Neg(), q
		case events.TypeReservationCommitted:
			m.PhysicalDelta, m.AvailableDelta, m.ReservedDelta = q.Neg(), decimal.Zero, q.Neg()
		default:
			m.PhysicalDelta, m.AvailableDelta, m.ReservedDelta = decimal.Zero, q, q.Neg()
		}
		return m, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, eventType)
	}
}

func decode(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return nil
}

func requireIDs(eventID, lotID uuid.UUID) error {
	if eventID == uuid.Nil || lotID == uuid.Nil {
		return fmt.Errorf("%w: event_id and lot_id are required", ErrMalformedEvent)
	}
	return nil
}
