package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLot(t *testing.T, s *MemoryStore, qty int64, expiry *time.Time) (*domain.Product, *domain.InventoryLot) {
	t.Helper()
	ctx := context.Background()
	product, err := domain.NewProduct("P-"+uuid.NewString()[:8], "Bone graft", "g", decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, s.CreateProduct(ctx, product))

	lot, err := domain.NewInventoryLot(domain.LotReceipt{
		ProductID:   product.ID,
		LotNumber:   "LOT-" + uuid.NewString()[:8],
		ExpiryDate:  expiry,
		PhysicalQty: decimal.NewFromInt(qty),
	})
	require.NoError(t, err)
	require.NoError(t, s.CreateLot(ctx, lot))
	return product, lot
}

func TestMemoryStore_CreateProductDuplicateCode(t *testing.T) {
	s := NewMemoryStore()
	p1, _ := domain.NewProduct("IMP-01", "Implant", "piece", decimal.Zero)
	p2, _ := domain.NewProduct("IMP-01", "Implant copy", "piece", decimal.Zero)

	require.NoError(t, s.CreateProduct(context.Background(), p1))
	err := s.CreateProduct(context.Background(), p2)

	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestMemoryStore_ReserveLotGuard(t *testing.T) {
	s := NewMemoryStore()
	_, lot := seedLot(t, s, 8, nil)
	ctx := context.Background()

	updated, err := s.ReserveLot(ctx, lot.ID, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, updated.AvailableQty.Equal(decimal.NewFromInt(3)))

	_, err = s.ReserveLot(ctx, lot.ID, decimal.NewFromInt(4))
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	stored, err := s.FindLotByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.True(t, stored.AvailableQty.Equal(decimal.NewFromInt(3)))
	assert.True(t, stored.Balanced())
}

func TestMemoryStore_ReturnedLotIsACopy(t *testing.T) {
	s := NewMemoryStore()
	_, lot := seedLot(t, s, 8, nil)

	found, err := s.FindLotByID(context.Background(), lot.ID)
	require.NoError(t, err)
	found.AvailableQty = decimal.Zero

	again, _ := s.FindLotByID(context.Background(), lot.ID)
	assert.True(t, again.AvailableQty.Equal(decimal.NewFromInt(8)))
}

func TestMemoryStore_UnknownLot(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.CommitLot(context.Background(), uuid.New(), decimal.NewFromInt(1))

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMemoryStore_TransactRollsBackEveryWrite(t *testing.T) {
	s := NewMemoryStore()
	_, first := seedLot(t, s, 5, nil)
	_, second := seedLot(t, s, 5, nil)
	ctx := context.Background()

	err := s.Transact(ctx, func(tx Store) error {
		if _, err := tx.ReserveLot(ctx, first.ID, decimal.NewFromInt(5)); err != nil {
			return err
		}
		r, err := domain.NewReservation(first.ID, decimal.NewFromInt(5), domain.ReservationContext{})
		if err != nil {
			return err
		}
		if err := tx.InsertReservation(ctx, r); err != nil {
			return err
		}
		_, err = tx.ReserveLot(ctx, second.ID, decimal.NewFromInt(6))
		return err
	})

	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	lot, _ := s.FindLotByID(ctx, first.ID)
	assert.True(t, lot.AvailableQty.Equal(decimal.NewFromInt(5)))
	assert.True(t, lot.ReservedQty.IsZero())
	active, _ := s.FindActiveReservationsByLot(ctx, first.ID)
	assert.Empty(t, active)
}

func TestMemoryStore_TransactCommitsOnSuccess(t *testing.T) {
	s := NewMemoryStore()
	_, lot := seedLot(t, s, 5, nil)
	ctx := context.Background()

	err := s.Transact(ctx, func(tx Store) error {
		_, err := tx.ReserveLot(ctx, lot.ID, decimal.NewFromInt(2))
		return err
	})

	require.NoError(t, err)
	stored, _ := s.FindLotByID(ctx, lot.ID)
	assert.True(t, stored.ReservedQty.Equal(decimal.NewFromInt(2)))
}

func TestMemoryStore_ConcurrentReservationsNeverOversell(t *testing.T) {
	s := NewMemoryStore()
	_, lot := seedLot(t, s, 10, nil)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ReserveLot(ctx, lot.ID, decimal.NewFromInt(1)); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	stored, _ := s.FindLotByID(ctx, lot.ID)
	assert.Equal(t, 10, succeeded)
	assert.True(t, stored.AvailableQty.IsZero())
	assert.True(t, stored.Balanced())
}

func TestMemoryStore_UpdateReservationRequiresActive(t *testing.T) {
	s := NewMemoryStore()
	_, lot := seedLot(t, s, 5, nil)
	ctx := context.Background()
	r, _ := domain.NewReservation(lot.ID, decimal.NewFromInt(1), domain.ReservationContext{})
	require.NoError(t, s.InsertReservation(ctx, r))

	require.NoError(t, r.Commit(time.Now().UTC()))
	require.NoError(t, s.UpdateReservation(ctx, r))

	again := *r
	again.Status = domain.ReservationCancelled
	err := s.UpdateReservation(ctx, &again)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))

	stored, _ := s.FindReservationByID(ctx, r.ID)
	assert.Equal(t, domain.ReservationCommitted, stored.Status)
}

func TestMemoryStore_FindLotsByProductInFEFOOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	early := time.Now().AddDate(0, 1, 0)
	product, undated := seedLot(t, s, 5, nil)
	dated, _ := domain.NewInventoryLot(domain.LotReceipt{
		ProductID: product.ID, LotNumber: "EARLY", ExpiryDate: &early, PhysicalQty: decimal.NewFromInt(1),
	})
	require.NoError(t, s.CreateLot(ctx, dated))

	lots, err := s.FindLotsByProduct(ctx, product.ID)

	require.NoError(t, err)
	require.Len(t, lots, 2)
	assert.Equal(t, dated.ID, lots[0].ID)
	assert.Equal(t, undated.ID, lots[1].ID)
}

func TestMemoryStore_LowStockAndExpiring(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	soon := time.Now().AddDate(0, 0, 5)
	later := time.Now().AddDate(0, 3, 0)
	low, soonLot := seedLot(t, s, 4, &soon)
	seedLot(t, s, 40, &later)

	levels, err := s.FindLowStockProducts(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, low.ID, levels[0].ID)
	assert.True(t, levels[0].AvailableQty.Equal(decimal.NewFromInt(4)))

	expiring, err := s.FindExpiringLots(ctx, time.Now(), time.Now().AddDate(0, 0, 30))
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, soonLot.ID, expiring[0].ID)
}

func TestMemoryStore_MaterialsCarryReservationIDs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	product, lot := seedLot(t, s, 5, nil)
	c, _ := domain.NewSurgeryCase(domain.CaseDetails{CaseNumber: "C-1", PatientName: "Jane", SurgeryDate: time.Now()})
	m, _ := domain.NewSurgeryCaseMaterial(c.ID, product.ID, decimal.NewFromInt(2))
	c.Materials = []domain.SurgeryCaseMaterial{*m}
	require.NoError(t, s.CreateCase(ctx, c))

	r, _ := domain.NewReservation(lot.ID, decimal.NewFromInt(2), domain.ReservationContext{CaseMaterialID: &m.ID})
	require.NoError(t, s.InsertReservation(ctx, r))

	materials, err := s.FindMaterialsByCase(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, []uuid.UUID{r.ID}, materials[0].ReservationIDs)

	dup, _ := domain.NewSurgeryCase(domain.CaseDetails{CaseNumber: "C-1", PatientName: "John", SurgeryDate: time.Now()})
	assert.True(t, errors.Is(s.CreateCase(ctx, dup), domain.ErrConflict))
}

func newTestOrder(t *testing.T, number string, productID uuid.UUID) *domain.PurchaseOrder {
	t.Helper()
	po, err := domain.NewPurchaseOrder(domain.PurchaseOrderDetails{PONumber: number, SupplierID: "SUP-01"}, []domain.PurchaseOrderLine{
		{ProductID: productID, OrderedQty: decimal.NewFromInt(4), UnitPrice: decimal.NewNullDecimal(decimal.NewFromInt(250))},
		{ProductID: productID, OrderedQty: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)
	return po
}

func TestMemoryStore_PurchaseOrders(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	product, _ := seedLot(t, s, 1, nil)

	first := newTestOrder(t, "PO-001", product.ID)
	require.NoError(t, s.CreatePurchaseOrder(ctx, first))
	second := newTestOrder(t, "PO-002", product.ID)
	second.OrderDate = first.OrderDate.Add(time.Hour)
	second.Status = domain.POCompleted
	require.NoError(t, s.CreatePurchaseOrder(ctx, second))

	err := s.CreatePurchaseOrder(ctx, newTestOrder(t, "PO-001", product.ID))
	assert.True(t, errors.Is(err, domain.ErrConflict))

	stored, err := s.FindPurchaseOrderByID(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.True(t, stored.TotalAmount.Equal(decimal.NewFromInt(1000)))

	all, err := s.ListPurchaseOrders(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "PO-002", all[0].PONumber)
	assert.Empty(t, all[0].Items)

	pending := domain.POPending
	filtered, err := s.ListPurchaseOrders(ctx, &pending)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, first.ID, filtered[0].ID)

	_, err = s.FindPurchaseOrderByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMemoryStore_PurchaseOrderUnknownProductRollsBack(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	product, _ := seedLot(t, s, 1, nil)

	po := newTestOrder(t, "PO-009", product.ID)
	po.Items[1].ProductID = uuid.New()
	err := s.Transact(ctx, func(tx Store) error {
		return tx.CreatePurchaseOrder(ctx, po)
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	all, err := s.ListPurchaseOrders(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
	require.NoError(t, s.CreatePurchaseOrder(ctx, newTestOrder(t, "PO-009", product.ID)))
}
