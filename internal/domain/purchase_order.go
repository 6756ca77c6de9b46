package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus is the receiving state of a purchase order
type PurchaseOrderStatus string

const (
	POPending           PurchaseOrderStatus = "pending"
	POPartiallyReceived PurchaseOrderStatus = "partially_received"
	POCompleted         PurchaseOrderStatus = "completed"
	POCancelled         PurchaseOrderStatus = "cancelled"
)

// ParsePurchaseOrderStatus validates a purchase order status name
func ParsePurchaseOrderStatus(s string) (PurchaseOrderStatus, error) {
	switch st := PurchaseOrderStatus(s); st {
	case POPending, POPartiallyReceived, POCompleted, POCancelled:
		return st, nil
	}
	return "", InvalidArgumentf("unknown purchase order status %q", s)
}

// PurchaseOrder is an order placed with a supplier. TotalAmount is the sum
// of its item totals.
type PurchaseOrder struct {
	ID                   uuid.UUID           `json:"id" db:"id"`
	PONumber             string              `json:"po_number" db:"po_number"`
	SupplierID           string              `json:"supplier_id" db:"supplier_id"`
	OrderDate            time.Time           `json:"order_date" db:"order_date"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date,omitempty" db:"expected_delivery_date"`
	Status               PurchaseOrderStatus `json:"status" db:"status"`
	TotalAmount          decimal.Decimal     `json:"total_amount" db:"total_amount"`
	Notes                *string             `json:"notes,omitempty" db:"notes"`
	CreatedBy            *string             `json:"created_by,omitempty" db:"created_by"`
	CreatedAt            time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at" db:"updated_at"`
	Items                []PurchaseOrderItem `json:"items,omitempty" db:"-"`
}

// PurchaseOrderItem is one ordered product. A missing unit price counts as zero in the totals.
type PurchaseOrderItem struct {
	ID              uuid.UUID           `json:"id" db:"id"`
	PurchaseOrderID uuid.UUID           `json:"purchase_order_id" db:"purchase_order_id"`
	ProductID       uuid.UUID           `json:"product_id" db:"product_id"`
	OrderedQty      decimal.Decimal     `json:"ordered_qty" db:"ordered_qty"`
	ReceivedQty     decimal.Decimal     `json:"received_qty" db:"received_qty"`
	UnitPrice       decimal.NullDecimal `json:"unit_price" db:"unit_price"`
	TotalPrice      decimal.Decimal     `json:"total_price" db:"total_price"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
}

// PurchaseOrderDetails carries the header fields of a new order
type PurchaseOrderDetails struct {
	PONumber             string
	SupplierID           string
	ExpectedDeliveryDate *time.Time
	Notes                string
	CreatedBy            string
}

// PurchaseOrderLine is one requested item of a new order
type PurchaseOrderLine struct {
	ProductID  uuid.UUID
	OrderedQty decimal.Decimal
	UnitPrice  decimal.NullDecimal
}

// NewPurchaseOrder creates a pending order with its items and totals.
// Item totals are rounded to QuantityScale before they are summed.
func NewPurchaseOrder(d PurchaseOrderDetails, lines []PurchaseOrderLine) (*PurchaseOrder, error) {
	poNumber := strings.TrimSpace(d.PONumber)
	if poNumber == "" {
		return nil, InvalidArgumentf("po number is required")
	}
	supplierID := strings.TrimSpace(d.SupplierID)
	if supplierID == "" {
		return nil, InvalidArgumentf("supplier id is required")
	}
	if len(lines) == 0 {
		return nil, InvalidArgumentf("purchase order %s has no items", poNumber)
	}

	now := time.Now().UTC()
	po := &PurchaseOrder{
		ID:                   uuid.New(),
		PONumber:             poNumber,
		SupplierID:           supplierID,
		OrderDate:            now,
		ExpectedDeliveryDate: d.ExpectedDeliveryDate,
		Status:               POPending,
		TotalAmount:          decimal.Zero,
		Notes:                optional(d.Notes),
		CreatedBy:            optional(d.CreatedBy),
		CreatedAt:            now,
		UpdatedAt:            now,
		Items:                make([]PurchaseOrderItem, 0, len(lines)),
	}

	for _, line := range lines {
		item, err := newPurchaseOrderItem(po.ID, line, now)
		if err != nil {
			return nil, err
		}
		po.TotalAmount = po.TotalAmount.Add(item.TotalPrice)
		po.Items = append(po.Items, *item)
	}
	return po, nil
}

func newPurchaseOrderItem(poID uuid.UUID, line PurchaseOrderLine, now time.Time) (*PurchaseOrderItem, error) {
	if line.ProductID == uuid.Nil {
		return nil, InvalidArgumentf("product id is required")
	}
	if err := RequirePositive(line.OrderedQty); err != nil {
		return nil, err
	}

	total := decimal.Zero
	if line.UnitPrice.Valid {
		if line.UnitPrice.Decimal.IsNegative() {
			return nil, InvalidArgumentf("unit price must not be negative")
		}
		if err := RequireScale(line.UnitPrice.Decimal); err != nil {
			return nil, err
		}
		total = line.UnitPrice.Decimal.Mul(line.OrderedQty).Round(QuantityScale)
	}

	return &PurchaseOrderItem{
		ID:              uuid.New(),
		PurchaseOrderID: poID,
		ProductID:       line.ProductID,
		OrderedQty:      line.OrderedQty,
		ReceivedQty:     decimal.Zero,
		UnitPrice:       line.UnitPrice,
		TotalPrice:      total,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
