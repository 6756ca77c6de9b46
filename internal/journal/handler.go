package journal

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/kpcrmv4/manusdentalos/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultMovementLimit = 100
	maxMovementLimit     = 1000
)

// Reader is the query side served over HTTP
type Reader interface {
	Movements(ctx context.Context, lotID string, limit int) ([]Movement, error)
	Stats(ctx context.Context) (*Stats, error)
	Ping(ctx context.Context) error
}

type Handler struct {
	reader Reader
	logger *zap.Logger
}

func NewHandler(reader Reader, logger *zap.Logger) *Handler {
	return &Handler{reader: reader, logger: logger}
}

// RegisterRoutes mounts the journal endpoints on api
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/health", h.Health)
	api.GET("/journal/movements", h.Movements)
	api.GET("/journal/stats", h.Stats)
}

// Health godoc
// @Summary      Listener health
// @Tags         journal
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.reader.Ping(ctx); err != nil {
		h.logger.Error("Journal database unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "service": "stock-journal", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "stock-journal", "database": "up"})
}

// Movements godoc
// @Summary      List journaled movements
// @Description  Newest first, optionally restricted to one lot
// @Tags         journal
// @Produce      json
// @Param        lot_id  query     string  false  "Lot ID"
// @Param        limit   query     int     false  "Maximum rows (default 100, max 1000)"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  errors.StandardError
// @Router       /journal/movements [get]
func (h *Handler) Movements(c *gin.Context) {
	lotID := c.Query("lot_id")
	if lotID != "" {
		if _, err := uuid.Parse(lotID); err != nil {
			c.Error(errors.NewInvalidID("lot_id", lotID))
			c.Abort()
			return
		}
	}

	limit := defaultMovementLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.Error(errors.NewValidationError("must be a positive integer", "limit"))
			c.Abort()
			return
		}
		if n > maxMovementLimit {
			n = maxMovementLimit
		}
		limit = n
	}

	movements, err := h.reader.Movements(c.Request.Context(), lotID, limit)
	if err != nil {
		h.logger.Error("Failed to list movements", zap.Error(err))
		c.Error(errors.NewDatabaseError("list movements", err))
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": movements, "total": len(movements)})
}

// Stats godoc
// @Summary      Journal statistics
// @Tags         journal
// @Produce      json
// @Success      200  {object}  Stats
// @Failure      500  {object}  errors.StandardError
// @Router       /journal/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.reader.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get journal stats", zap.Error(err))
		c.Error(errors.NewDatabaseError("journal stats", err))
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, stats)
}
