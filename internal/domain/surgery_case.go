package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialStatus is the aggregate readiness of a case's materials
type MaterialStatus string

const (
	MaterialGreen  MaterialStatus = "green"
	MaterialYellow MaterialStatus = "yellow"
	MaterialRed    MaterialStatus = "red"
)

// CaseStatus is the workflow state of a surgery case
type CaseStatus string

const (
	CasePlanned          CaseStatus = "planned"
	CaseMaterialsReady   CaseStatus = "materials_ready"
	CaseMaterialsPartial CaseStatus = "materials_partial"
	CaseInProgress       CaseStatus = "in_progress"
	CaseCompleted        CaseStatus = "completed"
	CaseCancelled        CaseStatus = "cancelled"
)

// ParseCaseStatus validates a workflow state name
func ParseCaseStatus(s string) (CaseStatus, error) {
	switch st := CaseStatus(s); st {
	case CasePlanned, CaseMaterialsReady, CaseMaterialsPartial, CaseInProgress, CaseCompleted, CaseCancelled:
		return st, nil
	}
	return "", InvalidArgumentf("unknown case status %q", s)
}

// MaterialLineStatus is the state of one required-material line
type MaterialLineStatus string

const (
	MaterialPending  MaterialLineStatus = "pending"
	MaterialReserved MaterialLineStatus = "reserved"
	MaterialUsed     MaterialLineStatus = "used"
)

// SurgeryCase is a planned procedure
type SurgeryCase struct {
	ID             uuid.UUID             `json:"id" db:"id"`
	CaseNumber     string                `json:"case_number" db:"case_number"`
	PatientName    string                `json:"patient_name" db:"patient_name"`
	PatientID      *string               `json:"patient_id,omitempty" db:"patient_id"`
	SurgeryDate    time.Time             `json:"surgery_date" db:"surgery_date"`
	SurgeryType    *string               `json:"surgery_type,omitempty" db:"surgery_type"`
	DentistName    *string               `json:"dentist_name,omitempty" db:"dentist_name"`
	Notes          *string               `json:"notes,omitempty" db:"notes"`
	Status         CaseStatus            `json:"status" db:"status"`
	MaterialStatus MaterialStatus        `json:"material_status" db:"material_status"`
	CreatedBy      *string               `json:"created_by,omitempty" db:"created_by"`
	CreatedAt      time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at" db:"updated_at"`
	Materials      []SurgeryCaseMaterial `json:"materials,omitempty" db:"-"`
}

// SurgeryCaseMaterial is a required quantity of a product for a case.
// It may be backed by several reservations when FEFO spans lots.
type SurgeryCaseMaterial struct {
	ID             uuid.UUID          `json:"id" db:"id"`
	CaseID         uuid.UUID          `json:"case_id" db:"case_id"`
	ProductID      uuid.UUID          `json:"product_id" db:"product_id"`
	RequiredQty    decimal.Decimal    `json:"required_qty" db:"required_qty"`
	ReservedQty    decimal.Decimal    `json:"reserved_qty" db:"reserved_qty"`
	UsedQty        decimal.Decimal    `json:"used_qty" db:"used_qty"`
	Status         MaterialLineStatus `json:"status" db:"status"`
	ReservationIDs []uuid.UUID        `json:"reservation_ids" db:"-"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`
}

// CaseDetails carries the descriptive fields of a new case
type CaseDetails struct {
	CaseNumber  string
	PatientName string
	PatientID   string
	SurgeryDate time.Time
	SurgeryType string
	DentistName string
	Notes       string
	CreatedBy   string
}

// NewSurgeryCase creates a planned case with no materials
func NewSurgeryCase(d CaseDetails) (*SurgeryCase, error) {
	caseNumber := strings.TrimSpace(d.CaseNumber)
	if caseNumber == "" {
		return nil, InvalidArgumentf("case number is required")
	}
	if strings.TrimSpace(d.PatientName) == "" {
		return nil, InvalidArgumentf("patient name is required")
	}
	if d.SurgeryDate.IsZero() {
		return nil, InvalidArgumentf("surgery date is required")
	}

	now := time.Now().UTC()
	return &SurgeryCase{
		ID:             uuid.New(),
		CaseNumber:     caseNumber,
		PatientName:    d.PatientName,
		PatientID:      optional(d.PatientID),
		SurgeryDate:    d.SurgeryDate,
		SurgeryType:    optional(d.SurgeryType),
		DentistName:    optional(d.DentistName),
		Notes:          optional(d.Notes),
		Status:         CasePlanned,
		MaterialStatus: MaterialRed,
		CreatedBy:      optional(d.CreatedBy),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// NewSurgeryCaseMaterial creates a pending line for requiredQty of productID
func NewSurgeryCaseMaterial(caseID, productID uuid.UUID, requiredQty decimal.Decimal) (*SurgeryCaseMaterial, error) {
	if productID == uuid.Nil {
		return nil, InvalidArgumentf("product id is required")
	}
	if err := RequirePositive(requiredQty); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &SurgeryCaseMaterial{
		ID:             uuid.New(),
		CaseID:         caseID,
		ProductID:      productID,
		RequiredQty:    requiredQty,
		ReservedQty:    decimal.Zero,
		UsedQty:        decimal.Zero,
		Status:         MaterialPending,
		ReservationIDs: []uuid.UUID{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// FullyReserved reports whether the reserved total covers the requirement
func (m *SurgeryCaseMaterial) FullyReserved() bool {
	return m.ReservedQty.GreaterThanOrEqual(m.RequiredQty)
}

// RemainingNeeded is the quantity still to reserve, never negative
func (m *SurgeryCaseMaterial) RemainingNeeded() decimal.Decimal {
	remaining := m.RequiredQty.Sub(m.ReservedQty)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// NeedsReservation reports whether reserveMaterials should allocate for this line
func (m *SurgeryCaseMaterial) NeedsReservation() bool {
	return m.Status == MaterialPending && !m.FullyReserved()
}

// AddReserved records qty newly reserved for the line
func (m *SurgeryCaseMaterial) AddReserved(qty decimal.Decimal, reservationIDs ...uuid.UUID) {
	m.ReservedQty = m.ReservedQty.Add(qty)
	m.ReservationIDs = append(m.ReservationIDs, reservationIDs...)
	if m.Status == MaterialPending && m.FullyReserved() {
		m.Status = MaterialReserved
	}
	m.UpdatedAt = time.Now().UTC()
}

// RemoveReserved records a cancelled reservation of qty backing the line
func (m *SurgeryCaseMaterial) RemoveReserved(qty decimal.Decimal) {
	m.ReservedQty = m.ReservedQty.Sub(qty)
	if m.ReservedQty.IsNegative() {
		m.ReservedQty = decimal.Zero
	}
	if m.Status == MaterialReserved && !m.FullyReserved() {
		m.Status = MaterialPending
	}
	m.UpdatedAt = time.Now().UTC()
}

// AddUsed records consumption. Only a reserved line may become used.
func (m *SurgeryCaseMaterial) AddUsed(qty decimal.Decimal) {
	m.UsedQty = m.UsedQty.Add(qty)
	if m.Status == MaterialReserved && m.UsedQty.GreaterThanOrEqual(m.RequiredQty) {
		m.Status = MaterialUsed
	}
	m.UpdatedAt = time.Now().UTC()
}

// CalculateMaterialStatus derives case readiness from its material lines
func CalculateMaterialStatus(materials []SurgeryCaseMaterial) MaterialStatus {
	if len(materials) == 0 {
		return MaterialRed
	}

	full := 0
	for i := range materials {
		if materials[i].FullyReserved() {
			full++
		}
	}

	switch {
	case full == len(materials):
		return MaterialGreen
	case full > 0:
		return MaterialYellow
	default:
		return MaterialRed
	}
}
