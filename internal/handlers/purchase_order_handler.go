package handlers

import (
	"net/http"

	"github.com/kpcrmv4/manusdentalos/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PurchaseOrderHandler struct {
	orders PurchaseOrderService
	logger *zap.Logger
}

func NewPurchaseOrderHandler(orders PurchaseOrderService, logger *zap.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orders: orders,
		logger: logger,
	}
}

// CreatePurchaseOrder handles POST /api/v1/purchase-orders
// @Summary      Create a purchase order
// @Description  Records a supplier order. Item totals are unit price times quantity rounded to 2 places; the order total is their sum.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string                      false  "Request ID for idempotent retries"
// @Param        request       body      CreatePurchaseOrderRequest  true   "Purchase order"
// @Success      201           {object}  domain.PurchaseOrder
// @Failure      400           {object}  errors.StandardError
// @Failure      404           {object}  errors.StandardError  "Unknown product"
// @Failure      409           {object}  errors.StandardError  "Duplicate PO number"
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) CreatePurchaseOrder(c *gin.Context) {
	var req CreatePurchaseOrderRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	lines := make([]domain.PurchaseOrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		productID, ok := parseUUID(c, "product_id", item.ProductID)
		if !ok {
			return
		}
		lines = append(lines, domain.PurchaseOrderLine{
			ProductID:  productID,
			OrderedQty: item.OrderedQty,
			UnitPrice:  item.UnitPrice,
		})
	}

	po, err := h.orders.CreatePurchaseOrder(c.Request.Context(), domain.PurchaseOrderDetails{
		PONumber:             req.PONumber,
		SupplierID:           req.SupplierID,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Notes:                req.Notes,
		CreatedBy:            actor(c),
	}, lines)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, po)
}

// ListPurchaseOrders handles GET /api/v1/purchase-orders
// @Summary      List purchase orders
// @Description  Newest order date first. Items are not included.
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "pending, partially_received, completed or cancelled"
// @Success      200     {object}  ListResponse
// @Failure      400     {object}  errors.StandardError
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) ListPurchaseOrders(c *gin.Context) {
	var status *domain.PurchaseOrderStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := domain.ParsePurchaseOrderStatus(raw)
		if err != nil {
			fail(c, err)
			return
		}
		status = &parsed
	}

	orders, err := h.orders.ListPurchaseOrders(c.Request.Context(), status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list(orders, len(orders)))
}

// GetPurchaseOrder handles GET /api/v1/purchase-orders/:id
// @Summary      Get a purchase order with its items
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Purchase order ID"
// @Success      200  {object}  domain.PurchaseOrder
// @Failure      400  {object}  errors.StandardError
// @Failure      404  {object}  errors.StandardError
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetPurchaseOrder(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	po, err := h.orders.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}
