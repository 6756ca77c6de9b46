package handlers

import (
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/allocation"
	"github.com/kpcrmv4/manusdentalos/internal/domain"

	"github.com/shopspring/decimal"
)

// Quantities are JSON numbers or numeric strings, e.g. 5 or "2.50".

// CreateProductRequest is the body of POST /products
type CreateProductRequest struct {
	Code          string          `json:"code" binding:"required" example:"IMP-4510"`
	Name          string          `json:"name" binding:"required" example:"Implant 4.5 x 10mm"`
	Unit          string          `json:"unit" example:"piece"`
	MinStockLevel decimal.Decimal `json:"min_stock_level" binding:"gte=0" swaggertype:"number" example:"5"`
}

// ReceiveLotRequest is the body of POST /lots
type ReceiveLotRequest struct {
	ProductID   string              `json:"product_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	LotNumber   string              `json:"lot_number" binding:"required" example:"LOT-2024-001"`
	ExpiryDate  *time.Time          `json:"expiry_date" example:"2025-06-30T00:00:00Z"`
	PhysicalQty decimal.Decimal     `json:"physical_qty" binding:"required,gt=0" swaggertype:"number" example:"8"`
	CostPrice   decimal.NullDecimal `json:"cost_price" binding:"omitempty,gte=0" swaggertype:"number" example:"1200.50"`
	SupplierID  *string             `json:"supplier_id" example:"SUP-01"`
	InvoiceNo   *string             `json:"invoice_no" example:"INV-7781"`
	RefCode     *string             `json:"ref_code" example:"GR-0042"`
}

// ReservationContextRequest is the metadata shared by reservation requests
type ReservationContextRequest struct {
	ReservedFor string     `json:"reserved_for" example:"walk-in extraction"`
	PatientName string     `json:"patient_name" example:"Somchai P."`
	SurgeryDate *time.Time `json:"surgery_date" example:"2024-07-01T09:00:00Z"`
	ExpiresAt   *time.Time `json:"expires_at" example:"2024-07-02T00:00:00Z"`
}

// CreateLotReservationRequest is the body of POST /reservations
type CreateLotReservationRequest struct {
	LotID       string          `json:"lot_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	ReservedQty decimal.Decimal `json:"reserved_qty" binding:"required,gt=0" swaggertype:"number" example:"2"`
	ReservationContextRequest
}

// CreateFEFOReservationRequest is the body of POST /reservations/fefo
type CreateFEFOReservationRequest struct {
	ProductID   string          `json:"product_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	RequiredQty decimal.Decimal `json:"required_qty" binding:"required,gt=0" swaggertype:"number" example:"5"`
	ReservationContextRequest
}

// MaterialRequestBody is one required material of a case
type MaterialRequestBody struct {
	ProductID   string          `json:"product_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	RequiredQty decimal.Decimal `json:"required_qty" binding:"required,gt=0" swaggertype:"number" example:"1"`
}

// CreateCaseRequest is the body of POST /surgery-cases
type CreateCaseRequest struct {
	CaseNumber  string                `json:"case_number" binding:"required" example:"SC-2024-0001"`
	PatientName string                `json:"patient_name" binding:"required" example:"Somchai P."`
	PatientID   string                `json:"patient_id" example:"HN-00123"`
	SurgeryDate time.Time             `json:"surgery_date" binding:"required" example:"2024-07-01T09:00:00Z"`
	SurgeryType string                `json:"surgery_type" example:"implant"`
	DentistName string                `json:"dentist_name" example:"Dr. Lee"`
	Notes       string                `json:"notes"`
	Materials   []MaterialRequestBody `json:"materials" binding:"dive"`
}

// UpdateCaseStatusRequest is the body of PATCH /surgery-cases/:id/status
type UpdateCaseStatusRequest struct {
	Status string `json:"status" binding:"required" example:"in_progress"`
}

// PurchaseOrderItemRequest is one ordered product
type PurchaseOrderItemRequest struct {
	ProductID  string              `json:"product_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	OrderedQty decimal.Decimal     `json:"ordered_qty" binding:"required,gt=0" swaggertype:"number" example:"10"`
	UnitPrice  decimal.NullDecimal `json:"unit_price" binding:"omitempty,gte=0" swaggertype:"number" example:"1500.00"`
}

// CreatePurchaseOrderRequest is the body of POST /purchase-orders
type CreatePurchaseOrderRequest struct {
	PONumber             string                     `json:"po_number" binding:"required" example:"PO-2024-001"`
	SupplierID           string                     `json:"supplier_id" binding:"required" example:"SUP-01"`
	ExpectedDeliveryDate *time.Time                 `json:"expected_delivery_date" example:"2024-07-15T00:00:00Z"`
	Notes                string                     `json:"notes"`
	Items                []PurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// MaterialStatusResponse reports case readiness
type MaterialStatusResponse struct {
	CaseID         string                `json:"case_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	MaterialStatus domain.MaterialStatus `json:"material_status" swaggertype:"string" example:"green"`
}

// FEFOResponse lists reservable lots and, when a quantity was given, the proposed allocation
type FEFOResponse struct {
	ProductID string                `json:"product_id"`
	Lots      []domain.InventoryLot `json:"lots"`
	Plan      *allocation.Plan      `json:"plan,omitempty"`
}

// ListResponse wraps collection results
type ListResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total" example:"3"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`
	Service   string    `json:"service" example:"inventory-api"`
	Database  string    `json:"database" example:"up"`
	Timestamp time.Time `json:"timestamp"`
}

func (r ReservationContextRequest) toDomain(reservedBy string) domain.ReservationContext {
	return domain.ReservationContext{
		ReservedBy:  reservedBy,
		ReservedFor: r.ReservedFor,
		PatientName: r.PatientName,
		SurgeryDate: r.SurgeryDate,
		ExpiresAt:   r.ExpiresAt,
	}
}

func list(items interface{}, total int) ListResponse {
	return ListResponse{Items: items, Total: total}
}
