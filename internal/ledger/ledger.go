// Package ledger is the only writer of lot quantity fields.
package ledger

import (
	"context"

	"github.com/kpcrmv4/manusdentalos/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LotMutator applies a quantity change as one atomic conditional update.
// Implementations fail with InsufficientStock or InvalidState when the
// precondition does not hold at write time, and NotFound for unknown lots.
type LotMutator interface {
	ReserveLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error)
	CommitLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error)
	ReleaseLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error)
}

// Ledger validates arguments before handing mutations to the store
type Ledger struct {
	lots   LotMutator
	logger *zap.Logger
}

func New(lots LotMutator, logger *zap.Logger) *Ledger {
	return &Ledger{lots: lots, logger: logger}
}

// Reserve moves qty from available to reserved
func (l *Ledger) Reserve(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	return l.apply(ctx, "reserve", lotID, qty, l.lots.ReserveLot)
}

// Commit removes reserved qty from the lot's physical stock
func (l *Ledger) Commit(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	return l.apply(ctx, "commit", lotID, qty, l.lots.CommitLot)
}

// Release returns reserved qty to available
func (l *Ledger) Release(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	return l.apply(ctx, "release", lotID, qty, l.lots.ReleaseLot)
}

type mutation func(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error)

func (l *Ledger) apply(ctx context.Context, op string, lotID uuid.UUID, qty decimal.Decimal, fn mutation) (*domain.InventoryLot, error) {
	if lotID == uuid.Nil {
		return nil, domain.InvalidArgumentf("lot id is required")
	}
	if err := domain.RequirePositive(qty); err != nil {
		return nil, err
	}

	lot, err := fn(ctx, lotID, qty)
	if err != nil {
		l.logger.Warn("Ledger mutation rejected",
			zap.String("op", op),
			zap.String("lot_id", lotID.String()),
			zap.String("quantity", qty.String()),
			zap.Error(err),
		)
		return nil, err
	}

	l.logger.Debug("Ledger mutation applied",
		zap.String("op", op),
		zap.String("lot_id", lotID.String()),
		zap.String("quantity", qty.String()),
		zap.String("physical_qty", lot.PhysicalQty.String()),
		zap.String("available_qty", lot.AvailableQty.String()),
		zap.String("reserved_qty", lot.ReservedQty.String()),
	)
	return lot, nil
}
