package service

import (
	"context"

	"github.com/kpcrmv4/manusdentalos/internal/domain"
	"github.com/kpcrmv4/manusdentalos/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchasingService records supplier purchase orders
type PurchasingService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewPurchasingService(store repository.Store, logger *zap.Logger) *PurchasingService {
	return &PurchasingService{
		store:  store,
		logger: logger,
	}
}

// CreatePurchaseOrder stores an order and its items in one transaction.
// The returned order carries the generated id and the computed totals.
func (s *PurchasingService) CreatePurchaseOrder(ctx context.Context, details domain.PurchaseOrderDetails, lines []domain.PurchaseOrderLine) (*domain.PurchaseOrder, error) {
	po, err := domain.NewPurchaseOrder(details, lines)
	if err != nil {
		return nil, err
	}

	err = s.store.Transact(ctx, func(tx repository.Store) error {
		for _, item := range po.Items {
			if _, err := tx.FindProductByID(ctx, item.ProductID); err != nil {
				return err
			}
		}
		return tx.CreatePurchaseOrder(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Purchase order created",
		zap.String("purchase_order_id", po.ID.String()),
		zap.String("po_number", po.PONumber),
		zap.String("supplier_id", po.SupplierID),
		zap.Int("items", len(po.Items)),
		zap.String("total_amount", po.TotalAmount.String()),
	)
	return po, nil
}

// GetPurchaseOrder returns an order with its items
func (s *PurchasingService) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	return s.store.FindPurchaseOrderByID(ctx, id)
}

// ListPurchaseOrders returns orders newest first, optionally only those in status
func (s *PurchasingService) ListPurchaseOrders(ctx context.Context, status *domain.PurchaseOrderStatus) ([]domain.PurchaseOrder, error) {
	return s.store.ListPurchaseOrders(ctx, status)
}
