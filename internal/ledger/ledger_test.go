package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/kpcrmv4/manusdentalos/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockLotMutator struct {
	mock.Mock
}

func (m *MockLotMutator) ReserveLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	args := m.Called(ctx, lotID, qty)
	return lotOrNil(args)
}

func (m *MockLotMutator) CommitLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	args := m.Called(ctx, lotID, qty)
	return lotOrNil(args)
}

func (m *MockLotMutator) ReleaseLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	args := m.Called(ctx, lotID, qty)
	return lotOrNil(args)
}

func lotOrNil(args mock.Arguments) (*domain.InventoryLot, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryLot), args.Error(1)
}

func TestReserve_DelegatesToStore(t *testing.T) {
	store := new(MockLotMutator)
	lotID := uuid.New()
	qty := decimal.NewFromInt(5)
	updated := &domain.InventoryLot{ID: lotID, PhysicalQty: decimal.NewFromInt(8), AvailableQty: decimal.NewFromInt(3), ReservedQty: qty}
	store.On("ReserveLot", mock.Anything, lotID, qty).Return(updated, nil)

	lot, err := New(store, zap.NewNop()).Reserve(context.Background(), lotID, qty)

	require.NoError(t, err)
	assert.Equal(t, updated, lot)
	store.AssertExpectations(t)
}

func TestReserve_PropagatesInsufficientStock(t *testing.T) {
	store := new(MockLotMutator)
	lotID := uuid.New()
	qty := decimal.NewFromInt(5)
	store.On("ReserveLot", mock.Anything, lotID, qty).Return(nil, domain.InsufficientStockf("lot %s", lotID))

	_, err := New(store, zap.NewNop()).Reserve(context.Background(), lotID, qty)

	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}

func TestMutations_RejectNonPositiveBeforeStore(t *testing.T) {
	store := new(MockLotMutator)
	l := New(store, zap.NewNop())
	ctx := context.Background()

	_, err := l.Reserve(ctx, uuid.New(), decimal.Zero)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	_, err = l.Commit(ctx, uuid.New(), decimal.NewFromInt(-1))
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	_, err = l.Release(ctx, uuid.Nil, decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	store.AssertNotCalled(t, "ReserveLot", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "CommitLot", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "ReleaseLot", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommitAndRelease_PropagateInvalidState(t *testing.T) {
	store := new(MockLotMutator)
	lotID := uuid.New()
	qty := decimal.NewFromInt(2)
	store.On("CommitLot", mock.Anything, lotID, qty).Return(nil, domain.InvalidStatef("commit exceeds reserved"))
	store.On("ReleaseLot", mock.Anything, lotID, qty).Return(nil, domain.InvalidStatef("release exceeds reserved"))
	l := New(store, zap.NewNop())

	_, err := l.Commit(context.Background(), lotID, qty)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
	_, err = l.Release(context.Background(), lotID, qty)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
}
