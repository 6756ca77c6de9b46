// Package allocation computes first-expired-first-out allocation plans over inventory lots.
package allocation

import (
	"bytes"
	"context"
	"sort"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is the quantity proposed from a single lot
type Line struct {
	LotID      uuid.UUID       `json:"lot_id"`
	LotNumber  string          `json:"lot_number"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	Quantity   decimal.Decimal `json:"proposed_qty"`
}

// Plan is an ordered allocation for one product.
// Allocated + Remaining == Required.
type Plan struct {
	ProductID uuid.UUID       `json:"product_id"`
	Required  decimal.Decimal `json:"required_qty"`
	Allocated decimal.Decimal `json:"allocated_qty"`
	Remaining decimal.Decimal `json:"remaining_qty"`
	Lines     []Line          `json:"lines"`
}

// Fulfilled reports whether the plan covers the whole requirement
func (p Plan) Fulfilled() bool {
	return p.Remaining.IsZero()
}

// LotFinder is the read side the allocator needs
type LotFinder interface {
	FindLotsByProduct(ctx context.Context, productID uuid.UUID) ([]domain.InventoryLot, error)
}

// Allocator produces FEFO plans from the current lot rows. It never mutates stock.
type Allocator struct {
	lots LotFinder
}

func NewAllocator(lots LotFinder) *Allocator {
	return &Allocator{lots: lots}
}

// Plan fetches the product's lots and allocates required across them
func (a *Allocator) Plan(ctx context.Context, productID uuid.UUID, required decimal.Decimal) (Plan, error) {
	if productID == uuid.Nil {
		return Plan{}, domain.InvalidArgumentf("product id is required")
	}
	if err := domain.RequirePositive(required); err != nil {
		return Plan{}, err
	}

	lots, err := a.lots.FindLotsByProduct(ctx, productID)
	if err != nil {
		return Plan{}, err
	}

	return Build(productID, required, lots), nil
}

// Build allocates required across lots in FEFO order.
// A shortfall is reported in Remaining, not as an error.
func Build(productID uuid.UUID, required decimal.Decimal, lots []domain.InventoryLot) Plan {
	plan := Plan{
		ProductID: productID,
		Required:  required,
		Allocated: decimal.Zero,
		Remaining: required,
		Lines:     []Line{},
	}

	for _, lot := range Eligible(lots) {
		if !plan.Remaining.IsPositive() {
			break
		}
		take := decimal.Min(lot.AvailableQty, plan.Remaining)
		plan.Lines = append(plan.Lines, Line{
			LotID:      lot.ID,
			LotNumber:  lot.LotNumber,
			ExpiryDate: lot.ExpiryDate,
			Quantity:   take,
		})
		plan.Allocated = plan.Allocated.Add(take)
		plan.Remaining = plan.Remaining.Sub(take)
	}

	return plan
}

// Eligible returns a sorted copy of the lots that have available stock
func Eligible(lots []domain.InventoryLot) []domain.InventoryLot {
	out := make([]domain.InventoryLot, 0, len(lots))
	for _, lot := range lots {
		if lot.AvailableQty.IsPositive() {
			out = append(out, lot)
		}
	}
	SortFEFO(out)
	return out
}

// SortFEFO orders lots by expiry ascending, undated lots last, ties by lot id
func SortFEFO(lots []domain.InventoryLot) {
	sort.SliceStable(lots, func(i, j int) bool {
		return Less(&lots[i], &lots[j])
	})
}

// Less is the FEFO ordering between two lots
func Less(a, b *domain.InventoryLot) bool {
	switch {
	case a.ExpiryDate == nil && b.ExpiryDate != nil:
		return false
	case a.ExpiryDate != nil && b.ExpiryDate == nil:
		return true
	case a.ExpiryDate != nil && b.ExpiryDate != nil && !a.ExpiryDate.Equal(*b.ExpiryDate):
		return a.ExpiryDate.Before(*b.ExpiryDate)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}
