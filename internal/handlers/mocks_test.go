package handlers

import (
	"context"

	"github.com/kpcrmv4/manusdentalos/internal/allocation"
	"github.com/kpcrmv4/manusdentalos/internal/domain"
	"github.com/kpcrmv4/manusdentalos/internal/repository"
	"github.com/kpcrmv4/manusdentalos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) CreateProduct(ctx context.Context, code, name, unit string, minStockLevel decimal.Decimal) (*domain.Product, error) {
	args := m.Called(ctx, code, name, unit, minStockLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockInventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockInventoryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockInventoryService) ReceiveLot(ctx context.Context, receipt domain.LotReceipt) (*domain.InventoryLot, error) {
	args := m.Called(ctx, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryLot), args.Error(1)
}

func (m *MockInventoryService) ListLotsByProduct(ctx context.Context, productID uuid.UUID) ([]domain.InventoryLot, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.InventoryLot), args.Error(1)
}

func (m *MockInventoryService) AvailableLotsFEFO(ctx context.Context, productID uuid.UUID) ([]domain.InventoryLot, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.InventoryLot), args.Error(1)
}

func (m *MockInventoryService) LowStockProducts(ctx context.Context) ([]domain.StockLevel, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.StockLevel), args.Error(1)
}

func (m *MockInventoryService) ExpiringSoonLots(ctx context.Context, days int) ([]domain.InventoryLot, error) {
	args := m.Called(ctx, days)
	return args.Get(0).([]domain.InventoryLot), args.Error(1)
}

func (m *MockInventoryService) UsageByLot(ctx context.Context, lotID uuid.UUID) ([]domain.UsageLog, error) {
	args := m.Called(ctx, lotID)
	return args.Get(0).([]domain.UsageLog), args.Error(1)
}

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) PlanFEFO(ctx context.Context, productID uuid.UUID, requiredQty decimal.Decimal) (allocation.Plan, error) {
	args := m.Called(ctx, productID, requiredQty)
	return args.Get(0).(allocation.Plan), args.Error(1)
}

func (m *MockReservationService) CreateReservation(ctx context.Context, productID uuid.UUID, requiredQty decimal.Decimal, rc domain.ReservationContext) (*service.ReservationResult, error) {
	args := m.Called(ctx, productID, requiredQty, rc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReservationResult), args.Error(1)
}

func (m *MockReservationService) CreateLotReservation(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal, rc domain.ReservationContext) (*domain.Reservation, error) {
	args := m.Called(ctx, lotID, qty, rc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) GetReservation(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) ListActiveByLot(ctx context.Context, lotID uuid.UUID) ([]domain.Reservation, error) {
	args := m.Called(ctx, lotID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationService) CommitReservation(ctx context.Context, id uuid.UUID, loggedBy string) (*domain.Reservation, error) {
	args := m.Called(ctx, id, loggedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) CancelReservation(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

type MockCaseService struct {
	mock.Mock
}

func (m *MockCaseService) CreateCase(ctx context.Context, details domain.CaseDetails, materials []service.MaterialRequest) (*domain.SurgeryCase, error) {
	args := m.Called(ctx, details, materials)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SurgeryCase), args.Error(1)
}

func (m *MockCaseService) AddMaterial(ctx context.Context, caseID uuid.UUID, req service.MaterialRequest) (*domain.SurgeryCaseMaterial, error) {
	args := m.Called(ctx, caseID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SurgeryCaseMaterial), args.Error(1)
}

func (m *MockCaseService) GetCase(ctx context.Context, caseID uuid.UUID) (*domain.SurgeryCase, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SurgeryCase), args.Error(1)
}

func (m *MockCaseService) ListCases(ctx context.Context, filter repository.CaseFilter) ([]domain.SurgeryCase, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.SurgeryCase), args.Error(1)
}

func (m *MockCaseService) UpdateCaseStatus(ctx context.Context, caseID uuid.UUID, status domain.CaseStatus) (*domain.SurgeryCase, error) {
	args := m.Called(ctx, caseID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SurgeryCase), args.Error(1)
}

func (m *MockCaseService) ReserveMaterialsForCase(ctx context.Context, caseID uuid.UUID, reservedBy string) (domain.MaterialStatus, error) {
	args := m.Called(ctx, caseID, reservedBy)
	return args.Get(0).(domain.MaterialStatus), args.Error(1)
}

func (m *MockCaseService) CalculateCaseMaterialStatus(ctx context.Context, caseID uuid.UUID) (domain.MaterialStatus, error) {
	args := m.Called(ctx, caseID)
	return args.Get(0).(domain.MaterialStatus), args.Error(1)
}

func (m *MockCaseService) ConsumeMaterial(ctx context.Context, materialID uuid.UUID, loggedBy string) (*domain.SurgeryCaseMaterial, error) {
	args := m.Called(ctx, materialID, loggedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SurgeryCaseMaterial), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockPurchaseOrderService struct {
	mock.Mock
}

func (m *MockPurchaseOrderService) CreatePurchaseOrder(ctx context.Context, details domain.PurchaseOrderDetails, lines []domain.PurchaseOrderLine) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, details, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderService) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderService) ListPurchaseOrders(ctx context.Context, status *domain.PurchaseOrderStatus) ([]domain.PurchaseOrder, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.PurchaseOrder), args.Error(1)
}
