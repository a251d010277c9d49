package gatewayapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockhub/internal/gateway"
	"stockhub/internal/infrastructure/http/v1/middleware"
	"stockhub/pkg/logger"
)

// RouterConfig holds gateway router configuration.
type RouterConfig struct {
	// Logger for request logging.
	Logger *logger.Logger

	// Operations is the orchestration façade.
	Operations gateway.StockOperations
}

// NewRouter creates and configures the Gin router for the gateway service.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Same chain as the inventory service (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler := NewHandler(cfg.Operations)

	apiV1 := router.Group("/api/v1")
	{
		stock := apiV1.Group("/stock")
		stock.GET("/availability/:sku", handler.CheckAvailability)
		stock.GET("/search", handler.SearchStock)
		stock.POST("/reservations", handler.ReserveStock)
		stock.POST("/reservations/:id/cancel", handler.CancelReservation)
		stock.PUT("/thresholds/:sku", handler.UpdateThreshold)
		stock.POST("/bulk-update", handler.BulkStockUpdate)

		apiV1.GET("/warehouses/:code/status", handler.GetWarehouseStatus)

		products := apiV1.Group("/products")
		products.GET("/:sku", handler.FetchProductDetails)
		products.PUT("/:sku/price", handler.AdjustPrice)
		products.POST("/:sku/discontinue", handler.DiscontinueProduct)

		apiV1.POST("/damaged-returns", handler.RegisterDamagedReturn)
	}

	return router
}
