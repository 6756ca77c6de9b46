package journal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Movement is one journaled change to a lot's balances
type Movement struct {
	EventID        string          `json:"event_id"`
	EventType      string          `json:"event_type"`
	LotID          string          `json:"lot_id"`
	ProductID      string          `json:"product_id,omitempty"`
	ReservationID  string          `json:"reservation_id,omitempty"`
	CaseMaterialID string          `json:"case_material_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	PhysicalDelta  decimal.Decimal `json:"physical_delta"`
	AvailableDelta decimal.Decimal `json:"available_delta"`
	ReservedDelta  decimal.Decimal `json:"reserved_delta"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// Stats summarizes the journal contents
type Stats struct {
	Total          int            `json:"total_movements"`
	Lots           int            `json:"lots"`
	ByType         map[string]int `json:"by_type"`
	LastOccurredAt *time.Time     `json:"last_occurred_at,omitempty"`
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return d, nil
}
