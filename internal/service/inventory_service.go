package service

import (
	"context"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/allocation"
	"github.com/kpcrmv4/manusdentalos/internal/domain"
	"github.com/kpcrmv4/manusdentalos/internal/events"
	"github.com/kpcrmv4/manusdentalos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryService covers the product catalogue and goods receipt
type InventoryService struct {
	store            repository.Store
	publisher        events.EventPublisher
	logger           *zap.Logger
	expiringSoonDays int
}

func NewInventoryService(store repository.Store, publisher events.EventPublisher, logger *zap.Logger, expiringSoonDays int) *InventoryService {
	if expiringSoonDays <= 0 {
		expiringSoonDays = 30
	}
	return &InventoryService{
		store:            store,
		publisher:        publisher,
		logger:           logger,
		expiringSoonDays: expiringSoonDays,
	}
}

func (s *InventoryService) CreateProduct(ctx context.Context, code, name, unit string, minStockLevel decimal.Decimal) (*domain.Product, error) {
	product, err := domain.NewProduct(code, name, unit, minStockLevel)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code),
	)
	return product, nil
}

func (s *InventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.store.FindProductByID(ctx, id)
}

func (s *InventoryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.ListProducts(ctx)
}

// ReceiveLot records a goods receipt as a new lot with everything available
func (s *InventoryService) ReceiveLot(ctx context.Context, receipt domain.LotReceipt) (*domain.InventoryLot, error) {
	lot, err := domain.NewInventoryLot(receipt)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateLot(ctx, lot); err != nil {
		return nil, err
	}

	s.logger.Info("Lot received",
		zap.String("lot_id", lot.ID.String()),
		zap.String("product_id", lot.ProductID.String()),
		zap.String("lot_number", lot.LotNumber),
		zap.String("physical_qty", lot.PhysicalQty.String()),
	)
	publishAll(ctx, s.publisher, s.logger, []events.Event{events.NewLotReceived(lot)})
	return lot, nil
}

// ListLotsByProduct returns every lot of a product in FEFO order
func (s *InventoryService) ListLotsByProduct(ctx context.Context, productID uuid.UUID) ([]domain.InventoryLot, error) {
	if _, err := s.store.FindProductByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.store.FindLotsByProduct(ctx, productID)
}

// AvailableLotsFEFO returns only the lots that can still be reserved, FEFO first
func (s *InventoryService) AvailableLotsFEFO(ctx context.Context, productID uuid.UUID) ([]domain.InventoryLot, error) {
	lots, err := s.ListLotsByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return allocation.Eligible(lots), nil
}

func (s *InventoryService) LowStockProducts(ctx context.Context) ([]domain.StockLevel, error) {
	return s.store.FindLowStockProducts(ctx)
}

// ExpiringSoonLots returns lots with stock left that expire within days.
// A non-positive days uses the configured default.
func (s *InventoryService) ExpiringSoonLots(ctx context.Context, days int) ([]domain.InventoryLot, error) {
	if days <= 0 {
		days = s.expiringSoonDays
	}
	now := time.Now().UTC()
	return s.store.FindExpiringLots(ctx, now, now.AddDate(0, 0, days))
}

// UsageByLot returns the usage history of a lot
func (s *InventoryService) UsageByLot(ctx context.Context, lotID uuid.UUID) ([]domain.UsageLog, error) {
	if _, err := s.store.FindLotByID(ctx, lotID); err != nil {
		return nil, err
	}
	return s.store.FindUsageLogsByLot(ctx, lotID)
}
