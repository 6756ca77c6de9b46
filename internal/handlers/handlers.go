package handlers

import (
	"context"
	"strconv"

	"github.com/kpcrmv4/manusdentalos/internal/allocation"
	"github.com/kpcrmv4/manusdentalos/internal/domain"
	"github.com/kpcrmv4/manusdentalos/internal/repository"
	"github.com/kpcrmv4/manusdentalos/internal/service"
	"github.com/kpcrmv4/manusdentalos/pkg/errors"
	"github.com/kpcrmv4/manusdentalos/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryService is the catalogue and goods-receipt surface used by InventoryHandler
type InventoryService interface {
	CreateProduct(ctx context.Context, code, name, unit string, minStockLevel decimal.Decimal) (*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ReceiveLot(ctx context.Context, receipt domain.LotReceipt) (*domain.InventoryLot, error)
	ListLotsByProduct(ctx context.Context, productID uuid.UUID) ([]domain.InventoryLot, error)
	AvailableLotsFEFO(ctx context.Context, productID uuid.UUID) ([]domain.InventoryLot, error)
	LowStockProducts(ctx context.Context) ([]domain.StockLevel, error)
	ExpiringSoonLots(ctx context.Context, days int) ([]domain.InventoryLot, error)
	UsageByLot(ctx context.Context, lotID uuid.UUID) ([]domain.UsageLog, error)
}

// ReservationService is the reservation lifecycle used by ReservationHandler
type ReservationService interface {
	PlanFEFO(ctx context.Context, productID uuid.UUID, requiredQty decimal.Decimal) (allocation.Plan, error)
	CreateReservation(ctx context.Context, productID uuid.UUID, requiredQty decimal.Decimal, rc domain.ReservationContext) (*service.ReservationResult, error)
	CreateLotReservation(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal, rc domain.ReservationContext) (*domain.Reservation, error)
	GetReservation(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	ListActiveByLot(ctx context.Context, lotID uuid.UUID) ([]domain.Reservation, error)
	CommitReservation(ctx context.Context, id uuid.UUID, loggedBy string) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
}

// CaseService is the surgery planning surface used by CaseHandler
type CaseService interface {
	CreateCase(ctx context.Context, details domain.CaseDetails, materials []service.MaterialRequest) (*domain.SurgeryCase, error)
	AddMaterial(ctx context.Context, caseID uuid.UUID, req service.MaterialRequest) (*domain.SurgeryCaseMaterial, error)
	GetCase(ctx context.Context, caseID uuid.UUID) (*domain.SurgeryCase, error)
	ListCases(ctx context.Context, filter repository.CaseFilter) ([]domain.SurgeryCase, error)
	UpdateCaseStatus(ctx context.Context, caseID uuid.UUID, status domain.CaseStatus) (*domain.SurgeryCase, error)
	ReserveMaterialsForCase(ctx context.Context, caseID uuid.UUID, reservedBy string) (domain.MaterialStatus, error)
	CalculateCaseMaterialStatus(ctx context.Context, caseID uuid.UUID) (domain.MaterialStatus, error)
	ConsumeMaterial(ctx context.Context, materialID uuid.UUID, loggedBy string) (*domain.SurgeryCaseMaterial, error)
}

// PurchaseOrderService is the purchasing surface used by PurchaseOrderHandler
type PurchaseOrderService interface {
	CreatePurchaseOrder(ctx context.Context, details domain.PurchaseOrderDetails, lines []domain.PurchaseOrderLine) (*domain.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, status *domain.PurchaseOrderStatus) ([]domain.PurchaseOrder, error)
}

// fail attaches err for the ErrorHandler middleware and stops the chain
func fail(c *gin.Context, err error) {
	c.Error(errors.FromDomain(err))
	c.Abort()
}

// bindJSON binds the request body, reporting a validation error on failure
func bindJSON(c *gin.Context, logger *zap.Logger, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Invalid request body", zap.String("path", c.Request.URL.Path), zap.Error(err))
		fail(c, errors.NewInvalidRequest("invalid request body", err.Error()))
		return false
	}
	return true
}

// uuidParam parses the named path parameter
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	return parseUUID(c, name, c.Param(name))
}

func parseUUID(c *gin.Context, field, value string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		fail(c, errors.NewInvalidID(field, value))
		return uuid.Nil, false
	}
	return id, true
}

// intQuery reads an optional non-negative integer query parameter
func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		fail(c, errors.NewValidationError("must be a non-negative integer", name))
		return 0, false
	}
	return n, true
}

// decimalQuery reads an optional decimal query parameter
func decimalQuery(c *gin.Context, name string) (*decimal.Decimal, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		fail(c, errors.NewValidationError("must be a decimal number", name))
		return nil, false
	}
	return &value, true
}

func actor(c *gin.Context) string {
	return middleware.Username(c)
}
