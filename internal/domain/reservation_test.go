package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReservation(t *testing.T) {
	lotID := uuid.New()

	r, err := NewReservation(lotID, d("5"), ReservationContext{ReservedFor: "case C-1", PatientName: "Jane"})

	require.NoError(t, err)
	assert.Equal(t, lotID, r.LotID)
	assert.Equal(t, ReservationActive, r.Status)
	assert.Equal(t, "case C-1", *r.ReservedFor)
	assert.Equal(t, "Jane", *r.PatientName)
	assert.Nil(t, r.ReservedBy)
	assert.Nil(t, r.CommittedAt)
	assert.Nil(t, r.CancelledAt)
}

func TestNewReservation_Error_NonPositive(t *testing.T) {
	_, err := NewReservation(uuid.New(), decimal.Zero, ReservationContext{})

	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestReservationCommit(t *testing.T) {
	r, _ := NewReservation(uuid.New(), d("1"), ReservationContext{})
	now := time.Now().UTC()

	require.NoError(t, r.Commit(now))

	assert.Equal(t, ReservationCommitted, r.Status)
	assert.Equal(t, now, *r.CommittedAt)
	assert.True(t, r.IsTerminal())
}

func TestReservation_TerminalStatesAreFinal(t *testing.T) {
	committed, _ := NewReservation(uuid.New(), d("1"), ReservationContext{})
	require.NoError(t, committed.Commit(time.Now()))
	cancelled, _ := NewReservation(uuid.New(), d("1"), ReservationContext{})
	require.NoError(t, cancelled.Cancel(time.Now()))

	assert.True(t, errors.Is(committed.Commit(time.Now()), ErrInvalidState))
	assert.True(t, errors.Is(committed.Cancel(time.Now()), ErrInvalidState))
	assert.True(t, errors.Is(cancelled.Commit(time.Now()), ErrInvalidState))
	assert.True(t, errors.Is(cancelled.Cancel(time.Now()), ErrInvalidState))
	assert.Nil(t, committed.CancelledAt)
	assert.Nil(t, cancelled.CommittedAt)
}
