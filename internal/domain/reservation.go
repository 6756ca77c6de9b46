package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationStatus is the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCommitted ReservationStatus = "committed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Reservation is a claim against exactly one lot
type Reservation struct {
	ID             uuid.UUID         `json:"id" db:"id"`
	LotID          uuid.UUID         `json:"lot_id" db:"lot_id"`
	CaseMaterialID *uuid.UUID        `json:"case_material_id,omitempty" db:"case_material_id"`
	ReservedQty    decimal.Decimal   `json:"reserved_qty" db:"reserved_qty"`
	Status         ReservationStatus `json:"status" db:"status"`
	ReservedBy     *string           `json:"reserved_by,omitempty" db:"reserved_by"`
	ReservedFor    *string           `json:"reserved_for,omitempty" db:"reserved_for"`
	PatientName    *string           `json:"patient_name,omitempty" db:"patient_name"`
	SurgeryDate    *time.Time        `json:"surgery_date,omitempty" db:"surgery_date"`
	ExpiresAt      *time.Time        `json:"expires_at,omitempty" db:"expires_at"`
	CommittedAt    *time.Time        `json:"committed_at,omitempty" db:"committed_at"`
	CancelledAt    *time.Time        `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

// ReservationContext is the metadata attached to new reservations
type ReservationContext struct {
	ReservedBy     string
	ReservedFor    string
	PatientName    string
	SurgeryDate    *time.Time
	ExpiresAt      *time.Time
	CaseMaterialID *uuid.UUID
}

// NewReservation creates an active reservation of qty against lotID
func NewReservation(lotID uuid.UUID, qty decimal.Decimal, rc ReservationContext) (*Reservation, error) {
	if lotID == uuid.Nil {
		return nil, InvalidArgumentf("lot id is required")
	}
	if err := RequirePositive(qty); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Reservation{
		ID:             uuid.New(),
		LotID:          lotID,
		CaseMaterialID: rc.CaseMaterialID,
		ReservedQty:    qty,
		Status:         ReservationActive,
		ReservedBy:     optional(rc.ReservedBy),
		ReservedFor:    optional(rc.ReservedFor),
		PatientName:    optional(rc.PatientName),
		SurgeryDate:    rc.SurgeryDate,
		ExpiresAt:      rc.ExpiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// IsTerminal reports whether no further transition is allowed
func (r *Reservation) IsTerminal() bool {
	return r.Status == ReservationCommitted || r.Status == ReservationCancelled
}

// Commit marks the reservation consumed
func (r *Reservation) Commit(at time.Time) error {
	if r.Status != ReservationActive {
		return InvalidStatef("reservation %s is %s, not active", r.ID, r.Status)
	}
	r.Status = ReservationCommitted
	r.CommittedAt = &at
	r.UpdatedAt = at
	return nil
}

// Cancel marks the reservation released without consumption
func (r *Reservation) Cancel(at time.Time) error {
	if r.Status != ReservationActive {
		return InvalidStatef("reservation %s is %s, not active", r.ID, r.Status)
	}
	r.Status = ReservationCancelled
	r.CancelledAt = &at
	r.UpdatedAt = at
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
