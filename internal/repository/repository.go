package repository

import (
	"context"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/domain"
	"github.com/kpcrmv4/manusdentalos/internal/ledger"

	"github.com/google/uuid"
)

// ProductRepository defines persistence for products
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	FindProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	FindLowStockProducts(ctx context.Context) ([]domain.StockLevel, error)
}

// LotRepository defines persistence for inventory lots.
// Quantity fields are written only through the ledger.LotMutator methods.
type LotRepository interface {
	ledger.LotMutator
	CreateLot(ctx context.Context, lot *domain.InventoryLot) error
	FindLotByID(ctx context.Context, id uuid.UUID) (*domain.InventoryLot, error)
	FindLotsByProduct(ctx context.Context, productID uuid.UUID) ([]domain.InventoryLot, error)
	FindExpiringLots(ctx context.Context, from, to time.Time) ([]domain.InventoryLot, error)
}

// ReservationRepository defines persistence for reservations
type ReservationRepository interface {
	InsertReservation(ctx context.Context, reservation *domain.Reservation) error
	FindReservationByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	FindActiveReservationsByLot(ctx context.Context, lotID uuid.UUID) ([]domain.Reservation, error)
	FindReservationsByMaterial(ctx context.Context, materialID uuid.UUID) ([]domain.Reservation, error)
	// UpdateReservation writes a terminal transition. It only applies to a
	// reservation that is still active in the store.
	UpdateReservation(ctx context.Context, reservation *domain.Reservation) error
}

// CaseFilter narrows ListCases
type CaseFilter struct {
	From   *time.Time
	To     *time.Time
	Status *domain.CaseStatus
}

// SurgeryCaseRepository defines persistence for cases and their material lines
type SurgeryCaseRepository interface {
	CreateCase(ctx context.Context, surgeryCase *domain.SurgeryCase) error
	FindCaseByID(ctx context.Context, id uuid.UUID) (*domain.SurgeryCase, error)
	// LockCase reads a case and holds its row lock until the transaction
	// ends. Every writer of a case's material lines takes it first.
	LockCase(ctx context.Context, id uuid.UUID) (*domain.SurgeryCase, error)
	ListCases(ctx context.Context, filter CaseFilter) ([]domain.SurgeryCase, error)
	UpdateCase(ctx context.Context, surgeryCase *domain.SurgeryCase) error
	InsertMaterial(ctx context.Context, material *domain.SurgeryCaseMaterial) error
	FindMaterialByID(ctx context.Context, id uuid.UUID) (*domain.SurgeryCaseMaterial, error)
	FindMaterialsByCase(ctx context.Context, caseID uuid.UUID) ([]domain.SurgeryCaseMaterial, error)
	UpdateMaterial(ctx context.Context, material *domain.SurgeryCaseMaterial) error
}

// UsageLogRepository defines persistence for usage logs
type UsageLogRepository interface {
	InsertUsageLog(ctx context.Context, log *domain.UsageLog) error
	FindUsageLogsByLot(ctx context.Context, lotID uuid.UUID) ([]domain.UsageLog, error)
}

// PurchaseOrderRepository defines persistence for purchase orders and their items
type PurchaseOrderRepository interface {
	// CreatePurchaseOrder inserts the order together with its items
	CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error
	FindPurchaseOrderByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error)
	// ListPurchaseOrders returns orders without items, newest first
	ListPurchaseOrders(ctx context.Context, status *domain.PurchaseOrderStatus) ([]domain.PurchaseOrder, error)
}

// Store groups every repository behind one transactional boundary
type Store interface {
	ProductRepository
	LotRepository
	ReservationRepository
	SurgeryCaseRepository
	UsageLogRepository
	PurchaseOrderRepository

	// Transact runs fn against a transactional view of the store. If fn
	// returns an error every write made through the view is rolled back.
	// Calling Transact on a transactional view runs fn inline.
	Transact(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
