package handlers

import "github.com/gin-gonic/gin"

// Handlers groups the API handlers mounted by RegisterRoutes
type Handlers struct {
	Health       *HealthHandler
	Inventory    *InventoryHandler
	Reservations *ReservationHandler
	Cases        *CaseHandler
	Purchasing   *PurchaseOrderHandler
}

// RegisterRoutes mounts the API on api. protected runs before every route
// except the health check.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, protected ...gin.HandlerFunc) {
	api.GET("/health", h.Health.Health)

	secured := api.Group("", protected...)

	products := secured.Group("/products")
	{
		products.POST("", h.Inventory.CreateProduct)
		products.GET("", h.Inventory.ListProducts)
		products.GET("/low-stock", h.Inventory.LowStockProducts)
		products.GET("/:id", h.Inventory.GetProduct)
		products.GET("/:id/lots", h.Inventory.ListProductLots)
		products.GET("/:id/fefo", h.Inventory.AvailableLotsFEFO)
	}

	lots := secured.Group("/lots")
	{
		lots.POST("", h.Inventory.ReceiveLot)
		lots.GET("/expiring", h.Inventory.ExpiringLots)
		lots.GET("/:id/reservations", h.Reservations.ListLotReservations)
		lots.GET("/:id/usage", h.Inventory.LotUsage)
	}

	reservations := secured.Group("/reservations")
	{
		reservations.POST("", h.Reservations.CreateLotReservation)
		reservations.POST("/fefo", h.Reservations.CreateFEFOReservation)
		reservations.GET("/:id", h.Reservations.GetReservation)
		reservations.POST("/:id/commit", h.Reservations.CommitReservation)
		reservations.POST("/:id/cancel", h.Reservations.CancelReservation)
	}

	cases := secured.Group("/surgery-cases")
	{
		cases.POST("", h.Cases.CreateCase)
		cases.GET("", h.Cases.ListCases)
		cases.POST("/materials/:materialId/consume", h.Cases.ConsumeMaterial)
		cases.GET("/:id", h.Cases.GetCase)
		cases.PATCH("/:id/status", h.Cases.UpdateCaseStatus)
		cases.POST("/:id/materials", h.Cases.AddMaterial)
		cases.POST("/:id/reserve-materials", h.Cases.ReserveMaterials)
		cases.GET("/:id/material-status", h.Cases.MaterialStatus)
	}

	orders := secured.Group("/purchase-orders")
	{
		orders.POST("", h.Purchasing.CreatePurchaseOrder)
		orders.GET("", h.Purchasing.ListPurchaseOrders)
		orders.GET("/:id", h.Purchasing.GetPurchaseOrder)
	}
}
