package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalogue entry referenced by inventory lots
type Product struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Code          string          `json:"code" db:"code"`
	Name          string          `json:"name" db:"name"`
	Unit          string          `json:"unit" db:"unit"`
	MinStockLevel decimal.Decimal `json:"min_stock_level" db:"min_stock_level"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// NewProduct creates a new product
func NewProduct(code, name, unit string, minStockLevel decimal.Decimal) (*Product, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, InvalidArgumentf("product code is required")
	}
	if name == "" {
		return nil, InvalidArgumentf("product name is required")
	}
	if minStockLevel.IsNegative() {
		return nil, InvalidArgumentf("min stock level must not be negative")
	}
	if err := RequireScale(minStockLevel); err != nil {
		return nil, err
	}
	if unit == "" {
		unit = "piece"
	}

	now := time.Now().UTC()
	return &Product{
		ID:            uuid.New(),
		Code:          code,
		Name:          name,
		Unit:          unit,
		MinStockLevel: minStockLevel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// StockLevel is a product with its summed available quantity across lots
type StockLevel struct {
	Product
	AvailableQty decimal.Decimal `json:"available_qty" db:"available_qty"`
}

// BelowMinimum reports whether available stock is under the reorder threshold
func (s StockLevel) BelowMinimum() bool {
	return s.AvailableQty.LessThan(s.MinStockLevel)
}
