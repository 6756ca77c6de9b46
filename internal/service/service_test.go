package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/domain"
	"github.com/kpcrmv4/manusdentalos/internal/events"
	"github.com/kpcrmv4/manusdentalos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	store        repository.Store
	publisher    *events.InMemoryEventPublisher
	reservations *ReservationManager
	planner      *Planner
	inventory    *InventoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, repository.NewMemoryStore())
}

func newFixtureWithStore(t *testing.T, store repository.Store) *fixture {
	t.Helper()
	return buildFixture(store)
}

func buildFixture(store repository.Store) *fixture {
	logger := zap.NewNop()
	publisher := events.NewInMemoryEventPublisher(logger)
	reservations := NewReservationManager(store, publisher, logger)
	return &fixture{
		store:        store,
		publisher:    publisher,
		reservations: reservations,
		planner:      NewPlanner(store, reservations, publisher, logger),
		inventory:    NewInventoryService(store, publisher, logger, 30),
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func daysFromNow(days int) *time.Time {
	t := time.Now().UTC().AddDate(0, 0, days).Truncate(24 * time.Hour)
	return &t
}

func (f *fixture) product(t *testing.T, code string) *domain.Product {
	t.Helper()
	p, err := f.inventory.CreateProduct(context.Background(), code, "Implant "+code, "piece", d("2"))
	require.NoError(t, err)
	return p
}

func (f *fixture) lot(t *testing.T, productID uuid.UUID, number string, qty string, expiry *time.Time) *domain.InventoryLot {
	t.Helper()
	lot, err := f.inventory.ReceiveLot(context.Background(), domain.LotReceipt{
		ProductID:   productID,
		LotNumber:   number,
		ExpiryDate:  expiry,
		PhysicalQty: d(qty),
	})
	require.NoError(t, err)
	return lot
}

func (f *fixture) reload(t *testing.T, lotID uuid.UUID) *domain.InventoryLot {
	t.Helper()
	lot, err := f.store.FindLotByID(context.Background(), lotID)
	require.NoError(t, err)
	require.True(t, lot.Balanced(), "lot %s out of balance", lot.LotNumber)
	return lot
}

func caseDetails(number string) domain.CaseDetails {
	return domain.CaseDetails{
		CaseNumber:  number,
		PatientName: "Somchai",
		SurgeryDate: time.Now().UTC().AddDate(0, 0, 7),
		DentistName: "Dr. Lee",
	}
}

func TestReserveMaterialsForCase_SingleLot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "IMP-01")
	lot := f.lot(t, p.ID, "L-1", "8", daysFromNow(90))

	sc, err := f.planner.CreateCase(ctx, caseDetails("C-001"), []MaterialRequest{{ProductID: p.ID, RequiredQty: d("5")}})
	require.NoError(t, err)
	assert.Equal(t, domain.MaterialRed, sc.MaterialStatus)

	status, err := f.planner.ReserveMaterialsForCase(ctx, sc.ID, "nurse")
	require.NoError(t, err)
	assert.Equal(t, domain.MaterialGreen, status)

	stored := f.reload(t, lot.ID)
	assert.True(t, d("3").Equal(stored.AvailableQty))
	assert.True(t, d("5").Equal(stored.ReservedQty))
	assert.True(t, d("8").Equal(stored.PhysicalQty))

	got, err := f.planner.GetCase(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaterialGreen, got.MaterialStatus)
	require.Len(t, got.Materials, 1)
	line := got.Materials[0]
	assert.Equal(t, domain.MaterialReserved, line.Status)
	assert.True(t, d("5").Equal(line.ReservedQty))
	require.Len(t, line.ReservationIDs, 1)

	r, err := f.reservations.GetReservation(ctx, line.ReservationIDs[0])
	require.NoError(t, err)
	assert.Equal(t, lot.ID, r.LotID)
	assert.Equal(t, "case C-001", *r.ReservedFor)
	assert.Equal(t, "Somchai", *r.PatientName)

	assert.Contains(t, f.publisher.Types(), events.TypeStockReserved)
	assert.Contains(t, f.publisher.Types(), events.TypeCaseMaterialStatusChanged)
}

func TestCreateReservation_SpansLotsInFEFOOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "IMP-02")
	late := f.lot(t, p.ID, "LATE", "10", daysFromNow(200))
	undated := f.lot(t, p.ID, "UNDATED", "10", nil)
	early := f.lot(t, p.ID, "EARLY", "3", daysFromNow(20))

	result, err := f.reservations.CreateReservation(ctx, p.ID, d("5"), domain.ReservationContext{ReservedBy: "nurse"})
	require.NoError(t, err)
	require.Len(t, result.Reservations, 2)
	assert.True(t, d("5").Equal(result.Reserved))
	assert.True(t, result.Remaining.IsZero())

	assert.Equal(t, early.ID, result.Reservations[0].LotID)
	assert.True(t, d("3").Equal(result.Reservations[0].ReservedQty))
	assert.Equal(t, late.ID, result.Reservations[1].LotID)
	assert.True(t, d("2").Equal(result.Reservations[1].ReservedQty))

	assert.True(t, f.reload(t, early.ID).AvailableQty.IsZero())
	assert.True(t, d("8").Equal(f.reload(t, late.ID).AvailableQty))
	assert.True(t, d("10").Equal(f.reload(t, undated.ID).AvailableQty))
}

func TestCreateReservation_ShortfallIsNotAnError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "IMP-03")
	f.lot(t, p.ID, "L-1", "3", daysFromNow(30))

	result, err := f.reservations.CreateReservation(ctx, p.ID, d("5"), domain.ReservationContext{})
	require.NoError(t, err)
	assert.True(t, d("3").Equal(result.Reserved))
	assert.True(t, d("2").Equal(result.Remaining))

	again, err := f.reservations.CreateReservation(ctx, p.ID, d("1"), domain.ReservationContext{})
	require.NoError(t, err)
	assert.Empty(t, again.Reservations)
	assert.True(t, d("1").Equal(again.Remaining))
}

func TestCreateReservation_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "IMP-04")

	_, err := f.reservations.CreateReservation(ctx, p.ID, d("0"), domain.ReservationContext{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.reservations.CreateReservation(ctx, uuid.New(), d("1"), domain.ReservationContext{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateLotReservation_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "IMP-05")
	lot := f.lot(t, p.ID, "L-1", "4", nil)

	_, err := f.reservations.CreateLotReservation(ctx, lot.ID, d("5"), domain.ReservationContext{})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, d("4").Equal(f.reload(t, lot.ID).AvailableQty))

	r, err := f.reservations.CreateLotReservation(ctx, lot.ID, d("4"), domain.ReservationContext{ReservedBy: "nurse"})
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationActive, r.Status)

	active, err := f.reservations.ListActiveByLot(ctx, lot.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, r.ID, active[0].ID)
}

func TestCommitReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "IMP-06")
	lot := f.lot(t, p.ID, "L-1", "8", nil)

	r, err := f.reservations.CreateLotReservation(ctx, lot.ID, d("5"), domain.ReservationContext{PatientName: "Anan"})
	require.NoError(t, err)

	committed, err := f.reservations.CommitReservation(ctx, r.ID, "dr.lee")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCommitted, committed.Status)
	assert.NotNil(t, committed.CommittedAt)

	stored := f.reload(t, lot.ID)
	assert.True(t, d("3").Equal(stored.PhysicalQty))
	assert.True(t, d("3").Equal(stored.AvailableQty))
	assert.True(t, stored.ReservedQty.IsZero())

	logs, err := f.inventory.UsageByLot(ctx, lot.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, d("5").Equal(logs[0].UsedQty))
	assert.Equal(t, r.ID, *logs[0].ReservationID)
	assert.Equal(t, "dr.lee", *logs[0].LoggedBy)

	_, err = f.reservations.CommitReservation(ctx, r.ID, "dr.lee")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.reservations.CancelReservation(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	after := f.reload(t, lot.ID)
	assert.True(t, d("3").Equal(after.PhysicalQty))
	assert.True(t, d("3").Equal(after.AvailableQty))
}

func TestCancelReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "IMP-07")
	lot := f.lot(t, p.ID, "L-1", "8", nil)

	r, err := f.reservations.CreateLotReservation(ctx, lot.ID, d("5"), domain.ReservationContext{})
	require.NoError(t, err)

	cancelled, err := f.reservations.CancelReservation(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, cancelled.Status)

	stored := f.reload(t, lot.ID)
	assert.True(t, d("8").Equal(stored.PhysicalQty))
	assert.True(t, d("8").Equal(stored.AvailableQty))
	assert.True(t, stored.ReservedQty.IsZero())

	_, err = f.reservations.CancelReservation(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.reservations.CommitReservation(ctx, r.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.reservations.CancelReservation(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReserveMaterialsForCase_PartialThenComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stocked := f.product(t, "IMP-08")
	missing := f.product(t, "MEM-01")
	f.lot(t, stocked.ID, "L-1", "10", daysFromNow(60))

	sc, err := f.planner.CreateCase(ctx, caseDetails("C-002"), []MaterialRequest{
		{ProductID: stocked.ID, RequiredQty: d("2")},
		{ProductID: missing.ID, RequiredQty: d("1")},
	})
	require.NoError(t, err)

	status, err := f.planner.ReserveMaterialsForCase(ctx, sc.ID, "nurse")
	require.NoError(t, err)
	assert.Equal(t, domain.MaterialYellow, status)

	f.lot(t, missing.ID, "M-1", "1", daysFromNow(60))
	status, err = f.planner.ReserveMaterialsForCase(ctx, sc.ID, "nurse")
	require.NoError(t, err)
	assert.Equal(t, domain.MaterialGreen, status)

	// reserving again allocates nothing new
	status, err = f.planner.ReserveMaterialsForCase(ctx, sc.ID, "nurse")
	require.NoError(t, err)
	assert.Equal(t, domain.MaterialGreen, status)

	lots, err := f.inventory.ListLotsByProduct(ctx, stocked.ID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.True(t, d("2").Equal(lots[0].ReservedQty))
}

func TestReserveMaterialsForCase_TopsUpPartialLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "IMP-09")
	f.lot(t, p.ID, "L-1", "3", daysFromNow(10))

	sc, err := f.planner.CreateCase(ctx, caseDetails("C-003"), []MaterialRequest{{ProductID: p.ID, RequiredQty: d("5")}})
	require.NoError(t, err)

	status, err := f.planner.ReserveMaterialsForCase(ctx, sc.ID, "nurse")
	require.NoError(t, err)
	assert.Equal(t, domain.MaterialRed, status)

	second := f.lot(t, p.ID, "L-2", "4", daysFromNow(20))
	status, err = f.planner.ReserveMaterialsForCase(ctx, sc.ID, "nurse")
	require.NoError(t, err)
	assert.Equal(t, domain.MaterialGreen, status)
	assert.True(t, d("2").Equal(f.reload(t, second.ID).ReservedQty))

	got, err := f.planner.GetCase(ctx, sc.ID)
	require.NoError(t, err)
	assert.Len(t, got.Materials[0].ReservationIDs, 2)
	assert.True(t, d("5").Equal(got.Materials[0].ReservedQty))
}

func TestReserveMaterialsForCase_ClosedCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "IMP-10")
	lot := f.lot(t, p.ID, "L-1", "5", nil)

	sc, err := f.planner.CreateCase(ctx, caseDetails("C-004"), []MaterialRequest{{ProductID: p.ID, RequiredQty: d("1")}})
	require.NoError(t, err)
	_, err = f.planner.UpdateCaseStatus(ctx, sc.ID, domain.CaseCancelled)
	require.NoError(t, err)

	_, err = f.planner.ReserveMaterialsForCase(ctx, sc.ID, "nurse")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.True(t, d("5").Equal(f.reload(t, lot.ID).AvailableQty))

	_, err = f.planner.UpdateCaseStatus(ctx, sc.ID, domain.CasePlanned)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.planner.ReserveMaterialsForCase(ctx, uuid.New(), "nurse")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelCaseReservation_ReturnsLineToPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "IMP-11")
	lot := f.lot(t, p.ID, "L-1", "8", nil)

	sc, err := f.planner.CreateCase(ctx, caseDetails("C-005"), []MaterialRequest{{ProductID: p.ID, RequiredQty: d("5")}})
	require.NoError(t, err)
	_, err = f.planner.ReserveMaterialsForCase(ctx, sc.ID, "nurse")
	require.NoError(t, err)

	got, err := f.planner.GetCase(ctx, sc.ID)
	require.NoError(t, err)
	_, err = f.reservations.CancelReservation(ctx, got.Materials[0].ReservationIDs[0])
	require.NoError(t, err)

	got, err = f.planner.GetCase(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaterialRed, got.MaterialStatus)
	assert.Equal(t, domain.MaterialPending, got.Materials[0].Status)
	assert.True(t, got.Materials[0].ReservedQty.IsZero())
	assert.True(t, d("8").Equal(f.reload(t, lot.ID).AvailableQty))

	status, err := f.planner.ReserveMaterialsForCase(ctx, sc.ID, "nurse")
	require.NoError(t, err)
	assert.Equal(t, domain.MaterialGreen, status)
}

func TestConsumeMaterial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "IMP-12")
	first := f.lot(t, p.ID, "L-1", "2", daysFromNow(5))
	second := f.lot(t, p.ID, "L-2", "6", daysFromNow(50))

	sc, err := f.planner.CreateCase(ctx, caseDetails("C-006"), []MaterialRequest{{ProductID: p.ID, RequiredQty: d("4")}})
	require.NoError(t, err)

	lineID := sc.Materials[0].ID
	_, err = f.planner.ConsumeMaterial(ctx, lineID, "dr.lee")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.planner.ReserveMaterialsForCase(ctx, sc.ID, "nurse")
	require.NoError(t, err)

	line, err := f.planner.ConsumeMaterial(ctx, lineID, "dr.lee")
	require.NoError(t, err)
	assert.Equal(t, domain.MaterialUsed, line.Status)
	assert.True(t, d("4").Equal(line.UsedQty))

	assert.True(t, f.reload(t, first.ID).PhysicalQty.IsZero())
	assert.True(t, d("4").Equal(f.reload(t, second.ID).PhysicalQty))

	status, err := f.planner.CalculateCaseMaterialStatus(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaterialGreen, status)

	_, err = f.planner.ConsumeMaterial(ctx, lineID, "dr.lee")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestAddMaterial_DowngradesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "IMP-13")
	other := f.product(t, "IMP-14")
	f.lot(t, p.ID, "L-1", "5", nil)

	sc, err := f.planner.CreateCase(ctx, caseDetails("C-007"), []MaterialRequest{{ProductID: p.ID, RequiredQty: d("1")}})
	require.NoError(t, err)
	status, err := f.planner.ReserveMaterialsForCase(ctx, sc.ID, "nurse")
	require.NoError(t, err)
	require.Equal(t, domain.MaterialGreen, status)

	_, err = f.planner.AddMaterial(ctx, sc.ID, MaterialRequest{ProductID: other.ID, RequiredQty: d("2")})
	require.NoError(t, err)

	got, err := f.planner.GetCase(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaterialYellow, got.MaterialStatus)
	assert.Len(t, got.Materials, 2)

	_, err = f.planner.AddMaterial(ctx, sc.ID, MaterialRequest{ProductID: uuid.New(), RequiredQty: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateCase_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "IMP-15")

	_, err := f.planner.CreateCase(ctx, caseDetails("C-008"), []MaterialRequest{{ProductID: p.ID, RequiredQty: d("-1")}})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.planner.CreateCase(ctx, caseDetails("C-008"), []MaterialRequest{{ProductID: uuid.New(), RequiredQty: d("1")}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.planner.CreateCase(ctx, caseDetails("C-008"), nil)
	require.NoError(t, err)
	_, err = f.planner.CreateCase(ctx, caseDetails("C-008"), nil)
	assert.ErrorIs(t, err, domain.ErrConflict)

	from := time.Now().UTC()
	to := from.AddDate(0, 0, -1)
	_, err = f.planner.ListCases(ctx, repository.CaseFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

// failingStore fails InsertReservation after a number of successful calls
type failingStore struct {
	repository.Store
	allowed int
}

func (s *failingStore) Transact(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.Transact(ctx, func(tx repository.Store) error {
		return fn(&failingStore{Store: tx, allowed: s.allowed})
	})
}

func (s *failingStore) InsertReservation(ctx context.Context, r *domain.Reservation) error {
	if s.allowed == 0 {
		return errors.New("connection reset")
	}
	s.allowed--
	return s.Store.InsertReservation(ctx, r)
}

func TestCreateReservation_RollsBackWholePlan(t *testing.T) {
	store := repository.NewMemoryStore()
	f := newFixtureWithStore(t, &failingStore{Store: store, allowed: 1})
	ctx := context.Background()
	p := f.product(t, "IMP-16")
	first := f.lot(t, p.ID, "L-1", "2", daysFromNow(5))
	second := f.lot(t, p.ID, "L-2", "6", daysFromNow(50))

	_, err := f.reservations.CreateReservation(ctx, p.ID, d("5"), domain.ReservationContext{})
	require.Error(t, err)

	assert.True(t, d("2").Equal(f.reload(t, first.ID).AvailableQty))
	assert.True(t, d("6").Equal(f.reload(t, second.ID).AvailableQty))

	active, err := store.FindActiveReservationsByLot(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.NotContains(t, f.publisher.Types(), events.TypeStockReserved)
}

func TestCreateReservation_ConcurrentNeverOversells(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "IMP-17")
	lot := f.lot(t, p.ID, "L-1", "10", nil)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total = decimal.Zero
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.reservations.CreateReservation(ctx, p.ID, d("1"), domain.ReservationContext{})
			if err != nil {
				return
			}
			mu.Lock()
			total = total.Add(result.Reserved)
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.True(t, d("10").Equal(total))
	stored := f.reload(t, lot.ID)
	assert.True(t, stored.AvailableQty.IsZero())
	assert.True(t, d("10").Equal(stored.ReservedQty))
}

func TestInventoryService_Queries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	low := f.product(t, "LOW-1")
	ok := f.product(t, "OK-1")
	f.lot(t, low.ID, "L-1", "1", daysFromNow(10))
	f.lot(t, ok.ID, "L-2", "50", daysFromNow(400))
	drained := f.lot(t, ok.ID, "L-3", "1", daysFromNow(3))
	_, err := f.reservations.CreateLotReservation(ctx, drained.ID, d("1"), domain.ReservationContext{})
	require.NoError(t, err)

	levels, err := f.inventory.LowStockProducts(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, low.ID, levels[0].ID)

	expiring, err := f.inventory.ExpiringSoonLots(ctx, 0)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "L-1", expiring[0].LotNumber)

	available, err := f.inventory.AvailableLotsFEFO(ctx, ok.ID)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "L-2", available[0].LotNumber)

	all, err := f.inventory.ListLotsByProduct(ctx, ok.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "L-3", all[0].LotNumber)

	plan, err := f.reservations.PlanFEFO(ctx, ok.ID, d("60"))
	require.NoError(t, err)
	assert.False(t, plan.Fulfilled())
	assert.True(t, d("10").Equal(plan.Remaining))

	_, err = f.inventory.CreateProduct(ctx, "LOW-1", "dup", "", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, f.publisher.Types(), events.TypeLotReceived)
}

// recordingStore logs the order of case locks and lot and line writes
type recordingStore struct {
	repository.Store
	mu    *sync.Mutex
	calls *[]string
}

func newRecordingStore(store repository.Store) *recordingStore {
	return &recordingStore{Store: store, mu: &sync.Mutex{}, calls: &[]string{}}
}

func (s *recordingStore) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.calls = append(*s.calls, call)
}

func (s *recordingStore) reset() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	calls := *s.calls
	*s.calls = nil
	return calls
}

func (s *recordingStore) Transact(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.Transact(ctx, func(tx repository.Store) error {
		return fn(&recordingStore{Store: tx, mu: s.mu, calls: s.calls})
	})
}

func (s *recordingStore) LockCase(ctx context.Context, id uuid.UUID) (*domain.SurgeryCase, error) {
	s.record("lock-case")
	return s.Store.LockCase(ctx, id)
}

func (s *recordingStore) ReserveLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	s.record("reserve-lot")
	return s.Store.ReserveLot(ctx, lotID, qty)
}

func (s *recordingStore) ReleaseLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	s.record("release-lot")
	return s.Store.ReleaseLot(ctx, lotID, qty)
}

func (s *recordingStore) CommitLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	s.record("commit-lot")
	return s.Store.CommitLot(ctx, lotID, qty)
}

func (s *recordingStore) UpdateMaterial(ctx context.Context, material *domain.SurgeryCaseMaterial) error {
	s.record("update-material")
	return s.Store.UpdateMaterial(ctx, material)
}

func TestMaterialWriters_LockCaseFirst(t *testing.T) {
	store := newRecordingStore(repository.NewMemoryStore())
	f := newFixtureWithStore(t, store)
	ctx := context.Background()
	p := f.product(t, "IMP-20")
	f.lot(t, p.ID, "L-1", "2", daysFromNow(5))
	f.lot(t, p.ID, "L-2", "6", daysFromNow(50))

	sc, err := f.planner.CreateCase(ctx, caseDetails("C-020"), []MaterialRequest{{ProductID: p.ID, RequiredQty: d("4")}})
	require.NoError(t, err)
	store.reset()

	_, err = f.planner.ReserveMaterialsForCase(ctx, sc.ID, "nurse")
	require.NoError(t, err)
	assert.Equal(t, []string{"lock-case", "reserve-lot", "reserve-lot", "update-material"}, store.reset())

	got, err := f.planner.GetCase(ctx, sc.ID)
	require.NoError(t, err)
	_, err = f.reservations.CancelReservation(ctx, got.Materials[0].ReservationIDs[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"lock-case", "release-lot", "update-material"}, store.reset())

	_, err = f.planner.ReserveMaterialsForCase(ctx, sc.ID, "nurse")
	require.NoError(t, err)
	store.reset()

	_, err = f.planner.ConsumeMaterial(ctx, sc.Materials[0].ID, "dr.lee")
	require.NoError(t, err)
	calls := store.reset()
	require.NotEmpty(t, calls)
	assert.Equal(t, "lock-case", calls[0])
	assert.Contains(t, calls, "commit-lot")

	_, err = f.planner.AddMaterial(ctx, sc.ID, MaterialRequest{ProductID: p.ID, RequiredQty: d("1")})
	require.NoError(t, err)
	assert.Equal(t, []string{"lock-case"}, store.reset())
}

func TestReserveMaterialsForCase_ConcurrentRerunsHoldOnlyRequired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "IMP-21")
	lot := f.lot(t, p.ID, "L-1", "20", nil)

	sc, err := f.planner.CreateCase(ctx, caseDetails("C-021"), []MaterialRequest{{ProductID: p.ID, RequiredQty: d("5")}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.planner.ReserveMaterialsForCase(ctx, sc.ID, "nurse")
		}()
	}
	wg.Wait()

	stored := f.reload(t, lot.ID)
	assert.True(t, d("5").Equal(stored.ReservedQty))
	assert.True(t, d("15").Equal(stored.AvailableQty))

	got, err := f.planner.GetCase(ctx, sc.ID)
	require.NoError(t, err)
	assert.True(t, d("5").Equal(got.Materials[0].ReservedQty))
	assert.Equal(t, domain.MaterialGreen, got.MaterialStatus)
}

func TestPurchasingService_CreateAndRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	purchasing := NewPurchasingService(f.store, zap.NewNop())
	implant := f.product(t, "IMP-30")
	membrane := f.product(t, "MEM-30")

	po, err := purchasing.CreatePurchaseOrder(ctx, domain.PurchaseOrderDetails{
		PONumber:   "PO-2024-001",
		SupplierID: "SUP-01",
		CreatedBy:  "buyer",
	}, []domain.PurchaseOrderLine{
		{ProductID: implant.ID, OrderedQty: d("10"), UnitPrice: decimal.NewNullDecimal(d("1500"))},
		{ProductID: membrane.ID, OrderedQty: d("3"), UnitPrice: decimal.NewNullDecimal(d("99.99"))},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, po.ID)
	assert.True(t, d("15299.97").Equal(po.TotalAmount))

	got, err := purchasing.GetPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, "PO-2024-001", got.PONumber)
	require.Len(t, got.Items, 2)

	total := decimal.Zero
	for _, item := range got.Items {
		assert.Equal(t, po.ID, item.PurchaseOrderID)
		total = total.Add(item.TotalPrice)
	}
	assert.True(t, total.Equal(got.TotalAmount))

	completed := domain.POCompleted
	orders, err := purchasing.ListPurchaseOrders(ctx, &completed)
	require.NoError(t, err)
	assert.Empty(t, orders)

	orders, err = purchasing.ListPurchaseOrders(ctx, nil)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, po.ID, orders[0].ID)
}

func TestPurchasingService_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	purchasing := NewPurchasingService(f.store, zap.NewNop())
	p := f.product(t, "IMP-31")
	header := domain.PurchaseOrderDetails{PONumber: "PO-2024-002", SupplierID: "SUP-01"}

	_, err := purchasing.CreatePurchaseOrder(ctx, header, []domain.PurchaseOrderLine{
		{ProductID: p.ID, OrderedQty: d("1")},
		{ProductID: uuid.New(), OrderedQty: d("1")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = purchasing.CreatePurchaseOrder(ctx, header, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = purchasing.CreatePurchaseOrder(ctx, header, []domain.PurchaseOrderLine{{ProductID: p.ID, OrderedQty: d("1")}})
	require.NoError(t, err)
	_, err = purchasing.CreatePurchaseOrder(ctx, header, []domain.PurchaseOrderLine{{ProductID: p.ID, OrderedQty: d("1")}})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = purchasing.GetPurchaseOrder(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
