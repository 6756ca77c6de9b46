package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UsageLog records material actually consumed from a lot
type UsageLog struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	LotID         uuid.UUID       `json:"lot_id" db:"lot_id"`
	ReservationID *uuid.UUID      `json:"reservation_id,omitempty" db:"reservation_id"`
	UsedQty       decimal.Decimal `json:"used_qty" db:"used_qty"`
	PatientName   *string         `json:"patient_name,omitempty" db:"patient_name"`
	SurgeryDate   *time.Time      `json:"surgery_date,omitempty" db:"surgery_date"`
	Notes         *string         `json:"notes,omitempty" db:"notes"`
	LoggedBy      *string         `json:"logged_by,omitempty" db:"logged_by"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// NewUsageLogForReservation builds the usage entry written when r is committed
func NewUsageLogForReservation(r *Reservation, loggedBy string) *UsageLog {
	id := r.ID
	return &UsageLog{
		ID:            uuid.New(),
		LotID:         r.LotID,
		ReservationID: &id,
		UsedQty:       r.ReservedQty,
		PatientName:   r.PatientName,
		SurgeryDate:   r.SurgeryDate,
		LoggedBy:      optional(loggedBy),
		CreatedAt:     time.Now().UTC(),
	}
}
