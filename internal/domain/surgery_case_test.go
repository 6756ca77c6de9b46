package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(required, reserved string) SurgeryCaseMaterial {
	return SurgeryCaseMaterial{RequiredQty: d(required), ReservedQty: d(reserved), Status: MaterialPending}
}

func TestCalculateMaterialStatus(t *testing.T) {
	tests := []struct {
		name      string
		materials []SurgeryCaseMaterial
		want      MaterialStatus
	}{
		{"no lines", nil, MaterialRed},
		{"all reserved", []SurgeryCaseMaterial{line("2", "2"), line("3", "3"), line("1", "4")}, MaterialGreen},
		{"some reserved", []SurgeryCaseMaterial{line("2", "2"), line("3", "3"), line("1", "0")}, MaterialYellow},
		{"partial is not reserved", []SurgeryCaseMaterial{line("2", "1.5"), line("3", "0")}, MaterialRed},
		{"none reserved", []SurgeryCaseMaterial{line("2", "0"), line("3", "0"), line("1", "0")}, MaterialRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateMaterialStatus(tt.materials))
		})
	}
}

func TestNewSurgeryCase(t *testing.T) {
	c, err := NewSurgeryCase(CaseDetails{CaseNumber: "C-100", PatientName: "Jane", SurgeryDate: time.Now()})

	require.NoError(t, err)
	assert.Equal(t, CasePlanned, c.Status)
	assert.Equal(t, MaterialRed, c.MaterialStatus)
	assert.Nil(t, c.DentistName)
}

func TestNewSurgeryCase_Error_MissingFields(t *testing.T) {
	_, err := NewSurgeryCase(CaseDetails{PatientName: "Jane", SurgeryDate: time.Now()})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = NewSurgeryCase(CaseDetails{CaseNumber: "C-1", PatientName: "Jane"})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestMaterialLine_ReserveLifecycle(t *testing.T) {
	m, err := NewSurgeryCaseMaterial(uuid.New(), uuid.New(), d("5"))
	require.NoError(t, err)
	assert.True(t, m.NeedsReservation())

	m.AddReserved(d("3"), uuid.New())
	assert.Equal(t, MaterialPending, m.Status)
	assert.True(t, m.RemainingNeeded().Equal(d("2")))

	m.AddReserved(d("2"), uuid.New())
	assert.Equal(t, MaterialReserved, m.Status)
	assert.False(t, m.NeedsReservation())
	assert.Len(t, m.ReservationIDs, 2)

	m.AddUsed(d("3"))
	assert.Equal(t, MaterialReserved, m.Status)
	m.AddUsed(d("2"))
	assert.Equal(t, MaterialUsed, m.Status)
}

func TestMaterialLine_RemoveReservedReturnsToPending(t *testing.T) {
	m, _ := NewSurgeryCaseMaterial(uuid.New(), uuid.New(), d("5"))
	m.AddReserved(d("5"))

	m.RemoveReserved(d("2"))

	assert.Equal(t, MaterialPending, m.Status)
	assert.True(t, m.ReservedQty.Equal(d("3")))
}

func TestMaterialLine_PendingCannotSkipToUsed(t *testing.T) {
	m, _ := NewSurgeryCaseMaterial(uuid.New(), uuid.New(), d("5"))

	m.AddUsed(d("5"))

	assert.Equal(t, MaterialPending, m.Status)
}

func TestParseCaseStatus(t *testing.T) {
	st, err := ParseCaseStatus("in_progress")
	assert.NoError(t, err)
	assert.Equal(t, CaseInProgress, st)

	_, err = ParseCaseStatus("done")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestNewSurgeryCaseMaterial_Error_FinerThanStoredScale(t *testing.T) {
	_, err := NewSurgeryCaseMaterial(uuid.New(), uuid.New(), d("0.001"))
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	m, err := NewSurgeryCaseMaterial(uuid.New(), uuid.New(), d("0.01"))
	require.NoError(t, err)
	assert.True(t, m.RequiredQty.Equal(d("0.01")))
}
