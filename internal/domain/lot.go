package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryLot is a single received batch of a product.
// PhysicalQty == AvailableQty + ReservedQty holds after every mutation.
type InventoryLot struct {
	ID           uuid.UUID           `json:"id" db:"id"`
	ProductID    uuid.UUID           `json:"product_id" db:"product_id"`
	LotNumber    string              `json:"lot_number" db:"lot_number"`
	ExpiryDate   *time.Time          `json:"expiry_date,omitempty" db:"expiry_date"`
	PhysicalQty  decimal.Decimal     `json:"physical_qty" db:"physical_qty"`
	AvailableQty decimal.Decimal     `json:"available_qty" db:"available_qty"`
	ReservedQty  decimal.Decimal     `json:"reserved_qty" db:"reserved_qty"`
	CostPrice    decimal.NullDecimal `json:"cost_price" db:"cost_price"`
	SupplierID   *string             `json:"supplier_id,omitempty" db:"supplier_id"`
	InvoiceNo    *string             `json:"invoice_no,omitempty" db:"invoice_no"`
	RefCode      *string             `json:"ref_code,omitempty" db:"ref_code"`
	ReceivedDate time.Time           `json:"received_date" db:"received_date"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" db:"updated_at"`
}

// LotReceipt carries the goods-receipt fields of a new lot
type LotReceipt struct {
	ProductID   uuid.UUID
	LotNumber   string
	ExpiryDate  *time.Time
	PhysicalQty decimal.Decimal
	CostPrice   decimal.NullDecimal
	SupplierID  *string
	InvoiceNo   *string
	RefCode     *string
}

// NewInventoryLot creates a lot with its whole physical quantity available
func NewInventoryLot(r LotReceipt) (*InventoryLot, error) {
	if r.ProductID == uuid.Nil {
		return nil, InvalidArgumentf("product id is required")
	}
	lotNumber := strings.TrimSpace(r.LotNumber)
	if lotNumber == "" {
		return nil, InvalidArgumentf("lot number is required")
	}
	if !r.PhysicalQty.IsPositive() {
		return nil, InvalidArgumentf("physical quantity must be positive, got %s", r.PhysicalQty)
	}
	if err := RequireScale(r.PhysicalQty); err != nil {
		return nil, err
	}
	if r.CostPrice.Valid {
		if r.CostPrice.Decimal.IsNegative() {
			return nil, InvalidArgumentf("cost price must not be negative")
		}
		if err := RequireScale(r.CostPrice.Decimal); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	return &InventoryLot{
		ID:           uuid.New(),
		ProductID:    r.ProductID,
		LotNumber:    lotNumber,
		ExpiryDate:   r.ExpiryDate,
		PhysicalQty:  r.PhysicalQty,
		AvailableQty: r.PhysicalQty,
		ReservedQty:  decimal.Zero,
		CostPrice:    r.CostPrice,
		SupplierID:   r.SupplierID,
		InvoiceNo:    r.InvoiceNo,
		RefCode:      r.RefCode,
		ReceivedDate: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Balanced reports whether the conservation invariant holds
func (l *InventoryLot) Balanced() bool {
	if l.AvailableQty.IsNegative() || l.ReservedQty.IsNegative() {
		return false
	}
	return l.PhysicalQty.Equal(l.AvailableQty.Add(l.ReservedQty))
}

// Reserve moves qty from available to reserved
func (l *InventoryLot) Reserve(qty decimal.Decimal) error {
	if err := RequirePositive(qty); err != nil {
		return err
	}
	if qty.GreaterThan(l.AvailableQty) {
		return InsufficientStockf("lot %s: requested %s, available %s", l.LotNumber, qty, l.AvailableQty)
	}
	l.AvailableQty = l.AvailableQty.Sub(qty)
	l.ReservedQty = l.ReservedQty.Add(qty)
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// Commit consumes reserved qty, removing it from physical stock
func (l *InventoryLot) Commit(qty decimal.Decimal) error {
	if err := RequirePositive(qty); err != nil {
		return err
	}
	if qty.GreaterThan(l.ReservedQty) {
		return InvalidStatef("lot %s: commit %s exceeds reserved %s", l.LotNumber, qty, l.ReservedQty)
	}
	l.ReservedQty = l.ReservedQty.Sub(qty)
	l.PhysicalQty = l.PhysicalQty.Sub(qty)
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// Release returns reserved qty to the available pool
func (l *InventoryLot) Release(qty decimal.Decimal) error {
	if err := RequirePositive(qty); err != nil {
		return err
	}
	if qty.GreaterThan(l.ReservedQty) {
		return InvalidStatef("lot %s: release %s exceeds reserved %s", l.LotNumber, qty, l.ReservedQty)
	}
	l.ReservedQty = l.ReservedQty.Sub(qty)
	l.AvailableQty = l.AvailableQty.Add(qty)
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// QuantityScale is the number of decimal places stored for quantities and prices
const QuantityScale = 2

// RequirePositive rejects zero and negative quantities, and quantities finer
// than QuantityScale.
func RequirePositive(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return InvalidArgumentf("quantity must be positive, got %s", qty)
	}
	return RequireScale(qty)
}

// RequireScale rejects values that would be rounded when stored
func RequireScale(value decimal.Decimal) error {
	if !value.Equal(value.Truncate(QuantityScale)) {
		return InvalidArgumentf("%s has more than %d decimal places", value, QuantityScale)
	}
	return nil
}
