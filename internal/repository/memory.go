package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/allocation"
	"github.com/kpcrmv4/manusdentalos/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryStore is an in-process Store. Writers are serialised; a transaction
// holds the write lock for its whole duration and undoes its writes on error.
type MemoryStore struct {
	writeMu sync.Mutex
	mu      sync.RWMutex

	products     map[uuid.UUID]domain.Product
	productCodes map[string]uuid.UUID
	lots         map[uuid.UUID]domain.InventoryLot
	reservations map[uuid.UUID]domain.Reservation
	cases        map[uuid.UUID]domain.SurgeryCase
	caseNumbers  map[string]uuid.UUID
	materials    map[uuid.UUID]domain.SurgeryCaseMaterial
	usageLogs    map[uuid.UUID]domain.UsageLog
	orders       map[uuid.UUID]domain.PurchaseOrder
	orderNumbers map[string]uuid.UUID
	orderItems   map[uuid.UUID]domain.PurchaseOrderItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:     make(map[uuid.UUID]domain.Product),
		productCodes: make(map[string]uuid.UUID),
		lots:         make(map[uuid.UUID]domain.InventoryLot),
		reservations: make(map[uuid.UUID]domain.Reservation),
		cases:        make(map[uuid.UUID]domain.SurgeryCase),
		caseNumbers:  make(map[string]uuid.UUID),
		materials:    make(map[uuid.UUID]domain.SurgeryCaseMaterial),
		usageLogs:    make(map[uuid.UUID]domain.UsageLog),
		orders:       make(map[uuid.UUID]domain.PurchaseOrder),
		orderNumbers: make(map[string]uuid.UUID),
		orderItems:   make(map[uuid.UUID]domain.PurchaseOrderItem),
	}
}

// undoLog records how to restore every key a transaction touched
type undoLog []func()

func (u *undoLog) rollback() {
	for i := len(*u) - 1; i >= 0; i-- {
		(*u)[i]()
	}
	*u = nil
}

func put[K comparable, V any](m map[K]V, key K, value V, undo *undoLog) {
	if undo != nil {
		old, existed := m[key]
		*undo = append(*undo, func() {
			if existed {
				m[key] = old
			} else {
				delete(m, key)
			}
		})
	}
	m[key] = value
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Transact serialises fn with every other writer
func (s *MemoryStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx := &memoryTx{MemoryStore: s}
	if err := fn(tx); err != nil {
		s.mu.Lock()
		tx.undo.rollback()
		s.mu.Unlock()
		return err
	}
	return nil
}

// write runs op under both locks outside of any transaction
func (s *MemoryStore) write(op func(undo *undoLog) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return op(nil)
}

// Products

func (s *MemoryStore) CreateProduct(ctx context.Context, product *domain.Product) error {
	return s.write(func(undo *undoLog) error { return s.createProduct(product, undo) })
}

func (s *MemoryStore) createProduct(product *domain.Product, undo *undoLog) error {
	if _, exists := s.productCodes[product.Code]; exists {
		return domain.Conflictf("product code %s already exists", product.Code)
	}
	put(s.products, product.ID, *product, undo)
	put(s.productCodes, product.Code, product.ID, undo)
	return nil
}

func (s *MemoryStore) FindProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[id]
	if !exists {
		return nil, domain.NotFoundf("product %s not found", id)
	}
	return &product, nil
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Code < products[j].Code })
	return products, nil
}

func (s *MemoryStore) FindLowStockProducts(ctx context.Context) ([]domain.StockLevel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[uuid.UUID]decimal.Decimal, len(s.products))
	for _, lot := range s.lots {
		totals[lot.ProductID] = totals[lot.ProductID].Add(lot.AvailableQty)
	}

	levels := []domain.StockLevel{}
	for id, p := range s.products {
		level := domain.StockLevel{Product: p, AvailableQty: totals[id]}
		if level.BelowMinimum() {
			levels = append(levels, level)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Code < levels[j].Code })
	return levels, nil
}

// Lots

func (s *MemoryStore) CreateLot(ctx context.Context, lot *domain.InventoryLot) error {
	return s.write(func(undo *undoLog) error { return s.createLot(lot, undo) })
}

func (s *MemoryStore) createLot(lot *domain.InventoryLot, undo *undoLog) error {
	if _, exists := s.products[lot.ProductID]; !exists {
		return domain.NotFoundf("product %s not found", lot.ProductID)
	}
	put(s.lots, lot.ID, *lot, undo)
	return nil
}

func (s *MemoryStore) FindLotByID(ctx context.Context, id uuid.UUID) (*domain.InventoryLot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lot, exists := s.lots[id]
	if !exists {
		return nil, domain.NotFoundf("lot %s not found", id)
	}
	return &lot, nil
}

func (s *MemoryStore) FindLotsByProduct(ctx context.Context, productID uuid.UUID) ([]domain.InventoryLot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lots := []domain.InventoryLot{}
	for _, lot := range s.lots {
		if lot.ProductID == productID {
			lots = append(lots, lot)
		}
	}
	allocation.SortFEFO(lots)
	return lots, nil
}

func (s *MemoryStore) FindExpiringLots(ctx context.Context, from, to time.Time) ([]domain.InventoryLot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lots := []domain.InventoryLot{}
	for _, lot := range s.lots {
		if lot.ExpiryDate == nil || !lot.AvailableQty.IsPositive() {
			continue
		}
		if lot.ExpiryDate.Before(from) || lot.ExpiryDate.After(to) {
			continue
		}
		lots = append(lots, lot)
	}
	allocation.SortFEFO(lots)
	return lots, nil
}

func (s *MemoryStore) ReserveLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	return s.mutateLotLocked(lotID, func(l *domain.InventoryLot) error { return l.Reserve(qty) })
}

func (s *MemoryStore) CommitLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	return s.mutateLotLocked(lotID, func(l *domain.InventoryLot) error { return l.Commit(qty) })
}

func (s *MemoryStore) ReleaseLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	return s.mutateLotLocked(lotID, func(l *domain.InventoryLot) error { return l.Release(qty) })
}

func (s *MemoryStore) mutateLotLocked(lotID uuid.UUID, fn func(*domain.InventoryLot) error) (*domain.InventoryLot, error) {
	var out *domain.InventoryLot
	err := s.write(func(undo *undoLog) error {
		lot, err := s.mutateLot(lotID, fn, undo)
		out = lot
		return err
	})
	return out, err
}

// mutateLot applies fn to a copy of the lot and stores it only if fn succeeds
func (s *MemoryStore) mutateLot(lotID uuid.UUID, fn func(*domain.InventoryLot) error, undo *undoLog) (*domain.InventoryLot, error) {
	lot, exists := s.lots[lotID]
	if !exists {
		return nil, domain.NotFoundf("lot %s not found", lotID)
	}
	if err := fn(&lot); err != nil {
		return nil, err
	}
	put(s.lots, lotID, lot, undo)
	return &lot, nil
}

// Reservations

func (s *MemoryStore) InsertReservation(ctx context.Context, reservation *domain.Reservation) error {
	return s.write(func(undo *undoLog) error { return s.insertReservation(reservation, undo) })
}

func (s *MemoryStore) insertReservation(reservation *domain.Reservation, undo *undoLog) error {
	if _, exists := s.lots[reservation.LotID]; !exists {
		return domain.NotFoundf("lot %s not found", reservation.LotID)
	}
	put(s.reservations, reservation.ID, *reservation, undo)
	return nil
}

func (s *MemoryStore) FindReservationByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.reservations[id]
	if !exists {
		return nil, domain.NotFoundf("reservation %s not found", id)
	}
	return &r, nil
}

func (s *MemoryStore) FindActiveReservationsByLot(ctx context.Context, lotID uuid.UUID) ([]domain.Reservation, error) {
	return s.filterReservations(func(r *domain.Reservation) bool {
		return r.LotID == lotID && r.Status == domain.ReservationActive
	}), nil
}

func (s *MemoryStore) FindReservationsByMaterial(ctx context.Context, materialID uuid.UUID) ([]domain.Reservation, error) {
	return s.filterReservations(func(r *domain.Reservation) bool {
		return r.CaseMaterialID != nil && *r.CaseMaterialID == materialID
	}), nil
}

func (s *MemoryStore) filterReservations(keep func(*domain.Reservation) bool) []domain.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Reservation{}
	for _, r := range s.reservations {
		if keep(&r) {
			out = append(out, r)
		}
	}
	sortReservations(out)
	return out
}

func sortReservations(rs []domain.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].CreatedAt.Before(rs[j].CreatedAt)
		}
		return rs[i].ID.String() < rs[j].ID.String()
	})
}

func (s *MemoryStore) UpdateReservation(ctx context.Context, reservation *domain.Reservation) error {
	return s.write(func(undo *undoLog) error { return s.updateReservation(reservation, undo) })
}

func (s *MemoryStore) updateReservation(reservation *domain.Reservation, undo *undoLog) error {
	current, exists := s.reservations[reservation.ID]
	if !exists {
		return domain.NotFoundf("reservation %s not found", reservation.ID)
	}
	if current.Status != domain.ReservationActive {
		return domain.InvalidStatef("reservation %s is %s, not active", reservation.ID, current.Status)
	}
	current.Status = reservation.Status
	current.CommittedAt = reservation.CommittedAt
	current.CancelledAt = reservation.CancelledAt
	current.UpdatedAt = reservation.UpdatedAt
	put(s.reservations, current.ID, current, undo)
	return nil
}

// Surgery cases

func (s *MemoryStore) CreateCase(ctx context.Context, surgeryCase *domain.SurgeryCase) error {
	return s.write(func(undo *undoLog) error { return s.createCase(surgeryCase, undo) })
}

func (s *MemoryStore) createCase(surgeryCase *domain.SurgeryCase, undo *undoLog) error {
	if _, exists := s.caseNumbers[surgeryCase.CaseNumber]; exists {
		return domain.Conflictf("case number %s already exists", surgeryCase.CaseNumber)
	}
	stored := *surgeryCase
	stored.Materials = nil
	put(s.cases, stored.ID, stored, undo)
	put(s.caseNumbers, stored.CaseNumber, stored.ID, undo)
	for i := range surgeryCase.Materials {
		if err := s.insertMaterial(&surgeryCase.Materials[i], undo); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) FindCaseByID(ctx context.Context, id uuid.UUID) (*domain.SurgeryCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.cases[id]
	if !exists {
		return nil, domain.NotFoundf("surgery case %s not found", id)
	}
	return &c, nil
}

// LockCase is a plain read: Transact already holds the writer lock.
func (s *MemoryStore) LockCase(ctx context.Context, id uuid.UUID) (*domain.SurgeryCase, error) {
	return s.FindCaseByID(ctx, id)
}

func (s *MemoryStore) ListCases(ctx context.Context, filter CaseFilter) ([]domain.SurgeryCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cases := []domain.SurgeryCase{}
	for _, c := range s.cases {
		if filter.From != nil && c.SurgeryDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && c.SurgeryDate.After(*filter.To) {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		cases = append(cases, c)
	}
	sort.Slice(cases, func(i, j int) bool {
		if !cases[i].SurgeryDate.Equal(cases[j].SurgeryDate) {
			return cases[i].SurgeryDate.Before(cases[j].SurgeryDate)
		}
		return cases[i].CaseNumber < cases[j].CaseNumber
	})
	return cases, nil
}

func (s *MemoryStore) UpdateCase(ctx context.Context, surgeryCase *domain.SurgeryCase) error {
	return s.write(func(undo *undoLog) error { return s.updateCase(surgeryCase, undo) })
}

func (s *MemoryStore) updateCase(surgeryCase *domain.SurgeryCase, undo *undoLog) error {
	current, exists := s.cases[surgeryCase.ID]
	if !exists {
		return domain.NotFoundf("surgery case %s not found", surgeryCase.ID)
	}
	current.Status = surgeryCase.Status
	current.MaterialStatus = surgeryCase.MaterialStatus
	current.UpdatedAt = surgeryCase.UpdatedAt
	put(s.cases, current.ID, current, undo)
	return nil
}

func (s *MemoryStore) InsertMaterial(ctx context.Context, material *domain.SurgeryCaseMaterial) error {
	return s.write(func(undo *undoLog) error { return s.insertMaterial(material, undo) })
}

func (s *MemoryStore) insertMaterial(material *domain.SurgeryCaseMaterial, undo *undoLog) error {
	if _, exists := s.cases[material.CaseID]; !exists {
		return domain.NotFoundf("surgery case %s not found", material.CaseID)
	}
	if _, exists := s.products[material.ProductID]; !exists {
		return domain.NotFoundf("product %s not found", material.ProductID)
	}
	stored := *material
	stored.ReservationIDs = nil
	put(s.materials, stored.ID, stored, undo)
	return nil
}

func (s *MemoryStore) FindMaterialByID(ctx context.Context, id uuid.UUID) (*domain.SurgeryCaseMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.materials[id]
	if !exists {
		return nil, domain.NotFoundf("case material %s not found", id)
	}
	m.ReservationIDs = s.reservationIDsFor(m.ID)
	return &m, nil
}

func (s *MemoryStore) FindMaterialsByCase(ctx context.Context, caseID uuid.UUID) ([]domain.SurgeryCaseMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	materials := []domain.SurgeryCaseMaterial{}
	for _, m := range s.materials {
		if m.CaseID == caseID {
			m.ReservationIDs = s.reservationIDsFor(m.ID)
			materials = append(materials, m)
		}
	}
	sort.Slice(materials, func(i, j int) bool {
		if !materials[i].CreatedAt.Equal(materials[j].CreatedAt) {
			return materials[i].CreatedAt.Before(materials[j].CreatedAt)
		}
		return materials[i].ID.String() < materials[j].ID.String()
	})
	return materials, nil
}

// reservationIDsFor expects s.mu to be held
func (s *MemoryStore) reservationIDsFor(materialID uuid.UUID) []uuid.UUID {
	rs := []domain.Reservation{}
	for _, r := range s.reservations {
		if r.CaseMaterialID != nil && *r.CaseMaterialID == materialID {
			rs = append(rs, r)
		}
	}
	sortReservations(rs)
	ids := make([]uuid.UUID, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.ID)
	}
	return ids
}

func (s *MemoryStore) UpdateMaterial(ctx context.Context, material *domain.SurgeryCaseMaterial) error {
	return s.write(func(undo *undoLog) error { return s.updateMaterial(material, undo) })
}

func (s *MemoryStore) updateMaterial(material *domain.SurgeryCaseMaterial, undo *undoLog) error {
	current, exists := s.materials[material.ID]
	if !exists {
		return domain.NotFoundf("case material %s not found", material.ID)
	}
	current.ReservedQty = material.ReservedQty
	current.UsedQty = material.UsedQty
	current.Status = material.Status
	current.UpdatedAt = material.UpdatedAt
	put(s.materials, current.ID, current, undo)
	return nil
}

// Usage logs

func (s *MemoryStore) InsertUsageLog(ctx context.Context, log *domain.UsageLog) error {
	return s.write(func(undo *undoLog) error { return s.insertUsageLog(log, undo) })
}

func (s *MemoryStore) insertUsageLog(log *domain.UsageLog, undo *undoLog) error {
	if _, exists := s.lots[log.LotID]; !exists {
		return domain.NotFoundf("lot %s not found", log.LotID)
	}
	put(s.usageLogs, log.ID, *log, undo)
	return nil
}

func (s *MemoryStore) FindUsageLogsByLot(ctx context.Context, lotID uuid.UUID) ([]domain.UsageLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := []domain.UsageLog{}
	for _, l := range s.usageLogs {
		if l.LotID == lotID {
			logs = append(logs, l)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].CreatedAt.Before(logs[j].CreatedAt) })
	return logs, nil
}

// Purchase orders

func (s *MemoryStore) CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	return s.write(func(undo *undoLog) error { return s.createPurchaseOrder(po, undo) })
}

func (s *MemoryStore) createPurchaseOrder(po *domain.PurchaseOrder, undo *undoLog) error {
	if _, exists := s.orderNumbers[po.PONumber]; exists {
		return domain.Conflictf("purchase order %s already exists", po.PONumber)
	}
	for _, item := range po.Items {
		if _, exists := s.products[item.ProductID]; !exists {
			return domain.NotFoundf("product %s not found", item.ProductID)
		}
	}

	stored := *po
	stored.Items = nil
	put(s.orders, stored.ID, stored, undo)
	put(s.orderNumbers, stored.PONumber, stored.ID, undo)
	for _, item := range po.Items {
		put(s.orderItems, item.ID, item, undo)
	}
	return nil
}

func (s *MemoryStore) FindPurchaseOrderByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	po, exists := s.orders[id]
	if !exists {
		return nil, domain.NotFoundf("purchase order %s not found", id)
	}
	po.Items = []domain.PurchaseOrderItem{}
	for _, item := range s.orderItems {
		if item.PurchaseOrderID == id {
			po.Items = append(po.Items, item)
		}
	}
	sort.Slice(po.Items, func(i, j int) bool {
		if po.Items[i].CreatedAt.Equal(po.Items[j].CreatedAt) {
			return po.Items[i].ID.String() < po.Items[j].ID.String()
		}
		return po.Items[i].CreatedAt.Before(po.Items[j].CreatedAt)
	})
	return &po, nil
}

func (s *MemoryStore) ListPurchaseOrders(ctx context.Context, status *domain.PurchaseOrderStatus) ([]domain.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := []domain.PurchaseOrder{}
	for _, po := range s.orders {
		if status != nil && po.Status != *status {
			continue
		}
		orders = append(orders, po)
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].OrderDate.Equal(orders[j].OrderDate) {
			return orders[i].PONumber < orders[j].PONumber
		}
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
	return orders, nil
}

// memoryTx is the view handed to Transact callbacks. The write lock is
// already held, so its writes only take the data lock and record undo steps.
type memoryTx struct {
	*MemoryStore
	undo undoLog
}

func (t *memoryTx) Transact(ctx context.Context, fn func(tx Store) error) error {
	return fn(t)
}

func (t *memoryTx) apply(op func(undo *undoLog) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return op(&t.undo)
}

func (t *memoryTx) CreateProduct(ctx context.Context, product *domain.Product) error {
	return t.apply(func(undo *undoLog) error { return t.createProduct(product, undo) })
}

func (t *memoryTx) CreateLot(ctx context.Context, lot *domain.InventoryLot) error {
	return t.apply(func(undo *undoLog) error { return t.createLot(lot, undo) })
}

func (t *memoryTx) ReserveLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	return t.mutateLotTx(lotID, func(l *domain.InventoryLot) error { return l.Reserve(qty) })
}

func (t *memoryTx) CommitLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	return t.mutateLotTx(lotID, func(l *domain.InventoryLot) error { return l.Commit(qty) })
}

func (t *memoryTx) ReleaseLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	return t.mutateLotTx(lotID, func(l *domain.InventoryLot) error { return l.Release(qty) })
}

func (t *memoryTx) mutateLotTx(lotID uuid.UUID, fn func(*domain.InventoryLot) error) (*domain.InventoryLot, error) {
	var out *domain.InventoryLot
	err := t.apply(func(undo *undoLog) error {
		lot, err := t.mutateLot(lotID, fn, undo)
		out = lot
		return err
	})
	return out, err
}

func (t *memoryTx) InsertReservation(ctx context.Context, reservation *domain.Reservation) error {
	return t.apply(func(undo *undoLog) error { return t.insertReservation(reservation, undo) })
}

func (t *memoryTx) UpdateReservation(ctx context.Context, reservation *domain.Reservation) error {
	return t.apply(func(undo *undoLog) error { return t.updateReservation(reservation, undo) })
}

func (t *memoryTx) CreateCase(ctx context.Context, surgeryCase *domain.SurgeryCase) error {
	return t.apply(func(undo *undoLog) error { return t.createCase(surgeryCase, undo) })
}

func (t *memoryTx) UpdateCase(ctx context.Context, surgeryCase *domain.SurgeryCase) error {
	return t.apply(func(undo *undoLog) error { return t.updateCase(surgeryCase, undo) })
}

func (t *memoryTx) InsertMaterial(ctx context.Context, material *domain.SurgeryCaseMaterial) error {
	return t.apply(func(undo *undoLog) error { return t.insertMaterial(material, undo) })
}

func (t *memoryTx) UpdateMaterial(ctx context.Context, material *domain.SurgeryCaseMaterial) error {
	return t.apply(func(undo *undoLog) error { return t.updateMaterial(material, undo) })
}

func (t *memoryTx) InsertUsageLog(ctx context.Context, log *domain.UsageLog) error {
	return t.apply(func(undo *undoLog) error { return t.insertUsageLog(log, undo) })
}

func (t *memoryTx) CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	return t.apply(func(undo *undoLog) error { return t.createPurchaseOrder(po, undo) })
}
