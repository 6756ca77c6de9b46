package handlers

import (
	"net/http"

	"github.com/kpcrmv4/manusdentalos/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	inventory    InventoryService
	reservations ReservationService
	logger       *zap.Logger
}

func NewInventoryHandler(inventory InventoryService, reservations ReservationService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventory:    inventory,
		reservations: reservations,
		logger:       logger,
	}
}

// CreateProduct handles POST /api/v1/products
// @Summary      Create a product
// @Description  Adds a catalogue entry. Product codes are unique.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string                false  "Request ID for idempotent retries"
// @Param        request       body      CreateProductRequest  true   "Product"
// @Success      201           {object}  domain.Product
// @Failure      400           {object}  errors.StandardError
// @Failure      409           {object}  errors.StandardError  "Duplicate product code"
// @Router       /products [post]
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	product, err := h.inventory.CreateProduct(c.Request.Context(), req.Code, req.Name, req.Unit, req.MinStockLevel)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// ListProducts handles GET /api/v1/products
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ListResponse
// @Router       /products [get]
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	products, err := h.inventory.ListProducts(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list(products, len(products)))
}

// GetProduct handles GET /api/v1/products/:id
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID (UUID)"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  errors.StandardError
// @Router       /products/{id} [get]
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	product, err := h.inventory.GetProduct(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListProductLots handles GET /api/v1/products/:id/lots
// @Summary      List the lots of a product
// @Description  Every lot of the product, earliest expiry first, lots without expiry last.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID (UUID)"
// @Success      200  {object}  ListResponse
// @Failure      404  {object}  errors.StandardError
// @Router       /products/{id}/lots [get]
func (h *InventoryHandler) ListProductLots(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	lots, err := h.inventory.ListLotsByProduct(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list(lots, len(lots)))
}

// AvailableLotsFEFO handles GET /api/v1/products/:id/fefo
// @Summary      Reservable lots in FEFO order
// @Description  Lots with available stock, first-expiry-first-out. With required_qty the response also carries the allocation that a reservation would make. Nothing is reserved.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id            path      string  true   "Product ID (UUID)"
// @Param        required_qty  query     number  false  "Quantity to plan for"
// @Success      200           {object}  FEFOResponse
// @Failure      400           {object}  errors.StandardError
// @Failure      404           {object}  errors.StandardError
// @Router       /products/{id}/fefo [get]
func (h *InventoryHandler) AvailableLotsFEFO(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	required, ok := decimalQuery(c, "required_qty")
	if !ok {
		return
	}

	lots, err := h.inventory.AvailableLotsFEFO(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	resp := FEFOResponse{ProductID: id.String(), Lots: lots}
	if required != nil {
		plan, err := h.reservations.PlanFEFO(c.Request.Context(), id, *required)
		if err != nil {
			fail(c, err)
			return
		}
		resp.Plan = &plan
	}
	c.JSON(http.StatusOK, resp)
}

// LowStockProducts handles GET /api/v1/products/low-stock
// @Summary      Products below their minimum stock level
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ListResponse
// @Router       /products/low-stock [get]
func (h *InventoryHandler) LowStockProducts(c *gin.Context) {
	levels, err := h.inventory.LowStockProducts(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list(levels, len(levels)))
}

// ReceiveLot handles POST /api/v1/lots
// @Summary      Receive a lot
// @Description  Records a goods receipt. The whole physical quantity starts available.
// @Tags         lots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string             false  "Request ID for idempotent retries"
// @Param        request       body      ReceiveLotRequest  true   "Lot"
// @Success      201           {object}  domain.InventoryLot
// @Failure      400           {object}  errors.StandardError
// @Failure      404           {object}  errors.StandardError  "Unknown product"
// @Router       /lots [post]
func (h *InventoryHandler) ReceiveLot(c *gin.Context) {
	var req ReceiveLotRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	productID, ok := parseUUID(c, "product_id", req.ProductID)
	if !ok {
		return
	}

	lot, err := h.inventory.ReceiveLot(c.Request.Context(), domain.LotReceipt{
		ProductID:   productID,
		LotNumber:   req.LotNumber,
		ExpiryDate:  req.ExpiryDate,
		PhysicalQty: req.PhysicalQty,
		CostPrice:   req.CostPrice,
		SupplierID:  req.SupplierID,
		InvoiceNo:   req.InvoiceNo,
		RefCode:     req.RefCode,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, lot)
}

// ExpiringLots handles GET /api/v1/lots/expiring
// @Summary      Lots expiring soon
// @Description  Lots with stock left that expire within the window. days defaults to the server setting.
// @Tags         lots
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Window in days"
// @Success      200   {object}  ListResponse
// @Failure      400   {object}  errors.StandardError
// @Router       /lots/expiring [get]
func (h *InventoryHandler) ExpiringLots(c *gin.Context) {
	days, ok := intQuery(c, "days")
	if !ok {
		return
	}
	lots, err := h.inventory.ExpiringSoonLots(c.Request.Context(), days)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list(lots, len(lots)))
}

// LotUsage handles GET /api/v1/lots/:id/usage
// @Summary      Usage history of a lot
// @Tags         lots
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lot ID (UUID)"
// @Success      200  {object}  ListResponse
// @Failure      404  {object}  errors.StandardError
// @Router       /lots/{id}/usage [get]
func (h *InventoryHandler) LotUsage(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	logs, err := h.inventory.UsageByLot(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list(logs, len(logs)))
}
