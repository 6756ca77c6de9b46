package service

import (
	"context"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/allocation"
	"github.com/kpcrmv4/manusdentalos/internal/domain"
	"github.com/kpcrmv4/manusdentalos/internal/events"
	"github.com/kpcrmv4/manusdentalos/internal/ledger"
	"github.com/kpcrmv4/manusdentalos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReservationResult is the outcome of a FEFO reservation. Remaining is the
// unfulfilled quantity; a positive remainder is not an error.
type ReservationResult struct {
	Reservations []domain.Reservation `json:"reservations"`
	Reserved     decimal.Decimal      `json:"reserved_qty"`
	Remaining    decimal.Decimal      `json:"remaining_qty"`
}

// ReservationManager turns allocation plans into reservations and drives
// the reservation lifecycle.
type ReservationManager struct {
	store     repository.Store
	publisher events.EventPublisher
	logger    *zap.Logger
}

func NewReservationManager(store repository.Store, publisher events.EventPublisher, logger *zap.Logger) *ReservationManager {
	return &ReservationManager{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// PlanFEFO proposes lots for requiredQty without reserving anything
func (m *ReservationManager) PlanFEFO(ctx context.Context, productID uuid.UUID, requiredQty decimal.Decimal) (allocation.Plan, error) {
	if _, err := m.store.FindProductByID(ctx, productID); err != nil {
		return allocation.Plan{}, err
	}
	return allocation.NewAllocator(m.store).Plan(ctx, productID, requiredQty)
}

// CreateReservation reserves requiredQty of a product across lots in FEFO
// order. Either every lot in the plan is reserved or none is.
func (m *ReservationManager) CreateReservation(ctx context.Context, productID uuid.UUID, requiredQty decimal.Decimal, rc domain.ReservationContext) (*ReservationResult, error) {
	if err := domain.RequirePositive(requiredQty); err != nil {
		return nil, err
	}

	var (
		result  *ReservationResult
		pending []events.Event
	)
	err := m.store.Transact(ctx, func(tx repository.Store) error {
		if _, err := tx.FindProductByID(ctx, productID); err != nil {
			return err
		}
		var err error
		result, pending, err = m.reserveFEFO(ctx, tx, productID, requiredQty, rc)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Reservation created",
		zap.String("product_id", productID.String()),
		zap.String("required_qty", requiredQty.String()),
		zap.String("reserved_qty", result.Reserved.String()),
		zap.String("remaining_qty", result.Remaining.String()),
		zap.Int("lots", len(result.Reservations)),
	)
	publishAll(ctx, m.publisher, m.logger, pending)
	return result, nil
}

// reserveFEFO plans and reserves inside tx. Any failure aborts the whole plan.
func (m *ReservationManager) reserveFEFO(ctx context.Context, tx repository.Store, productID uuid.UUID, requiredQty decimal.Decimal, rc domain.ReservationContext) (*ReservationResult, []events.Event, error) {
	plan, err := allocation.NewAllocator(tx).Plan(ctx, productID, requiredQty)
	if err != nil {
		return nil, nil, err
	}

	lots := ledger.New(tx, m.logger)
	result := &ReservationResult{
		Reservations: make([]domain.Reservation, 0, len(plan.Lines)),
		Reserved:     plan.Allocated,
		Remaining:    plan.Remaining,
	}
	pending := make([]events.Event, 0, len(plan.Lines))

	for _, line := range plan.Lines {
		lot, err := lots.Reserve(ctx, line.LotID, line.Quantity)
		if err != nil {
			return nil, nil, err
		}
		r, err := domain.NewReservation(line.LotID, line.Quantity, rc)
		if err != nil {
			return nil, nil, err
		}
		if err := tx.InsertReservation(ctx, r); err != nil {
			return nil, nil, err
		}
		result.Reservations = append(result.Reservations, *r)
		pending = append(pending, events.StockReservedEvent{ReservationEvent: events.NewReservationEvent(r, lot)})
	}

	return result, pending, nil
}

// CreateLotReservation reserves qty from one specific lot, outside the FEFO flow
func (m *ReservationManager) CreateLotReservation(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal, rc domain.ReservationContext) (*domain.Reservation, error) {
	if err := domain.RequirePositive(qty); err != nil {
		return nil, err
	}

	var (
		reservation *domain.Reservation
		pending     []events.Event
	)
	err := m.store.Transact(ctx, func(tx repository.Store) error {
		lot, err := ledger.New(tx, m.logger).Reserve(ctx, lotID, qty)
		if err != nil {
			return err
		}
		reservation, err = domain.NewReservation(lotID, qty, rc)
		if err != nil {
			return err
		}
		if err := tx.InsertReservation(ctx, reservation); err != nil {
			return err
		}
		pending = append(pending, events.StockReservedEvent{ReservationEvent: events.NewReservationEvent(reservation, lot)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Lot reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("lot_id", lotID.String()),
		zap.String("quantity", qty.String()),
	)
	publishAll(ctx, m.publisher, m.logger, pending)
	return reservation, nil
}

// GetReservation returns one reservation
func (m *ReservationManager) GetReservation(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	return m.store.FindReservationByID(ctx, id)
}

// ListActiveByLot returns the active reservations held against a lot
func (m *ReservationManager) ListActiveByLot(ctx context.Context, lotID uuid.UUID) ([]domain.Reservation, error) {
	if _, err := m.store.FindLotByID(ctx, lotID); err != nil {
		return nil, err
	}
	return m.store.FindActiveReservationsByLot(ctx, lotID)
}

// CommitReservation consumes an active reservation and logs the usage
func (m *ReservationManager) CommitReservation(ctx context.Context, id uuid.UUID, loggedBy string) (*domain.Reservation, error) {
	var (
		reservation *domain.Reservation
		pending     []events.Event
	)
	err := m.store.Transact(ctx, func(tx repository.Store) error {
		var err error
		reservation, pending, err = m.commitInTx(ctx, tx, id, loggedBy)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Reservation committed",
		zap.String("reservation_id", id.String()),
		zap.String("lot_id", reservation.LotID.String()),
		zap.String("quantity", reservation.ReservedQty.String()),
	)
	publishAll(ctx, m.publisher, m.logger, pending)
	return reservation, nil
}

func (m *ReservationManager) commitInTx(ctx context.Context, tx repository.Store, id uuid.UUID, loggedBy string) (*domain.Reservation, []events.Event, error) {
	reservation, err := tx.FindReservationByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := lockBackingCase(ctx, tx, reservation); err != nil {
		return nil, nil, err
	}
	if err := reservation.Commit(time.Now().UTC()); err != nil {
		return nil, nil, err
	}
	if err := tx.UpdateReservation(ctx, reservation); err != nil {
		return nil, nil, err
	}

	lot, err := ledger.New(tx, m.logger).Commit(ctx, reservation.LotID, reservation.ReservedQty)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.InsertUsageLog(ctx, domain.NewUsageLogForReservation(reservation, loggedBy)); err != nil {
		return nil, nil, err
	}

	pending := []events.Event{events.ReservationCommittedEvent{ReservationEvent: events.NewReservationEvent(reservation, lot)}}
	caseEvents, err := applyMaterialUsage(ctx, tx, reservation)
	if err != nil {
		return nil, nil, err
	}
	return reservation, append(pending, caseEvents...), nil
}

// CancelReservation releases an active reservation back to available stock
func (m *ReservationManager) CancelReservation(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	var (
		reservation *domain.Reservation
		pending     []events.Event
	)
	err := m.store.Transact(ctx, func(tx repository.Store) error {
		var err error
		reservation, err = tx.FindReservationByID(ctx, id)
		if err != nil {
			return err
		}
		if err := lockBackingCase(ctx, tx, reservation); err != nil {
			return err
		}
		if err := reservation.Cancel(time.Now().UTC()); err != nil {
			return err
		}
		if err := tx.UpdateReservation(ctx, reservation); err != nil {
			return err
		}

		lot, err := ledger.New(tx, m.logger).Release(ctx, reservation.LotID, reservation.ReservedQty)
		if err != nil {
			return err
		}
		pending = append(pending, events.ReservationCancelledEvent{ReservationEvent: events.NewReservationEvent(reservation, lot)})

		caseEvents, err := applyMaterialRelease(ctx, tx, reservation)
		if err != nil {
			return err
		}
		pending = append(pending, caseEvents...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Reservation cancelled",
		zap.String("reservation_id", id.String()),
		zap.String("lot_id", reservation.LotID.String()),
		zap.String("quantity", reservation.ReservedQty.String()),
	)
	publishAll(ctx, m.publisher, m.logger, pending)
	return reservation, nil
}
