package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	reservations ReservationService
	logger       *zap.Logger
}

func NewReservationHandler(reservations ReservationService, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		reservations: reservations,
		logger:       logger,
	}
}

// CreateLotReservation handles POST /api/v1/reservations
// @Summary      Reserve stock from one lot
// @Description  Moves the quantity from available to reserved on the given lot. Fails with InsufficientStock when the lot cannot cover it.
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string                       false  "Request ID for idempotent retries"
// @Param        request       body      CreateLotReservationRequest  true   "Reservation"
// @Success      201           {object}  domain.Reservation
// @Failure      400           {object}  errors.StandardError  "Invalid request or insufficient stock"
// @Failure      404           {object}  errors.StandardError  "Unknown lot"
// @Router       /reservations [post]
func (h *ReservationHandler) CreateLotReservation(c *gin.Context) {
	var req CreateLotReservationRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	lotID, ok := parseUUID(c, "lot_id", req.LotID)
	if !ok {
		return
	}

	reservation, err := h.reservations.CreateLotReservation(c.Request.Context(), lotID, req.ReservedQty, req.toDomain(actor(c)))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// CreateFEFOReservation handles POST /api/v1/reservations/fefo
// @Summary      Reserve a product across lots, first expiry first
// @Description  Splits the quantity over lots in FEFO order. Either every planned lot is reserved or none is. A shortfall is reported in remaining_qty, not as an error.
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string                        false  "Request ID for idempotent retries"
// @Param        request       body      CreateFEFOReservationRequest  true   "Reservation"
// @Success      201           {object}  service.ReservationResult
// @Failure      400           {object}  errors.StandardError
// @Failure      404           {object}  errors.StandardError  "Unknown product"
// @Router       /reservations/fefo [post]
func (h *ReservationHandler) CreateFEFOReservation(c *gin.Context) {
	var req CreateFEFOReservationRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	productID, ok := parseUUID(c, "product_id", req.ProductID)
	if !ok {
		return
	}

	result, err := h.reservations.CreateReservation(c.Request.Context(), productID, req.RequiredQty, req.toDomain(actor(c)))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetReservation handles GET /api/v1/reservations/:id
// @Summary      Get a reservation
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation ID (UUID)"
// @Success      200  {object}  domain.Reservation
// @Failure      404  {object}  errors.StandardError
// @Router       /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	reservation, err := h.reservations.GetReservation(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// ListLotReservations handles GET /api/v1/lots/:id/reservations
// @Summary      Active reservations of a lot
// @Tags         lots
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lot ID (UUID)"
// @Success      200  {object}  ListResponse
// @Failure      404  {object}  errors.StandardError
// @Router       /lots/{id}/reservations [get]
func (h *ReservationHandler) ListLotReservations(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	reservations, err := h.reservations.ListActiveByLot(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list(reservations, len(reservations)))
}

// CommitReservation handles POST /api/v1/reservations/:id/commit
// @Summary      Consume a reservation
// @Description  Removes the reserved quantity from the lot and writes a usage log. Only active reservations can be committed.
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string  false  "Request ID for idempotent retries"
// @Param        id            path      string  true   "Reservation ID (UUID)"
// @Success      200           {object}  domain.Reservation
// @Failure      404           {object}  errors.StandardError
// @Failure      409           {object}  errors.StandardError  "Reservation is not active"
// @Router       /reservations/{id}/commit [post]
func (h *ReservationHandler) CommitReservation(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	reservation, err := h.reservations.CommitReservation(c.Request.Context(), id, actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// CancelReservation handles POST /api/v1/reservations/:id/cancel
// @Summary      Cancel a reservation
// @Description  Returns the reserved quantity to available stock. Only active reservations can be cancelled.
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string  false  "Request ID for idempotent retries"
// @Param        id            path      string  true   "Reservation ID (UUID)"
// @Success      200           {object}  domain.Reservation
// @Failure      404           {object}  errors.StandardError
// @Failure      409           {object}  errors.StandardError  "Reservation is not active"
// @Router       /reservations/{id}/cancel [post]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	reservation, err := h.reservations.CancelReservation(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}
