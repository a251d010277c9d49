// Package v1 provides the inventory service HTTP API.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockhub/internal/domain/catalog/product"
	"stockhub/internal/domain/catalog/warehouse"
	"stockhub/internal/domain/damaged"
	"stockhub/internal/domain/reservation"
	"stockhub/internal/domain/stock"
	gql "stockhub/internal/infrastructure/graphql"
	"stockhub/internal/infrastructure/http/v1/handlers"
	"stockhub/internal/infrastructure/http/v1/middleware"
	"stockhub/internal/infrastructure/rpc"
	"stockhub/internal/infrastructure/storage/postgres"
	"stockhub/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks).
	Pool *postgres.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// TokenValidator guards mutating endpoints.
	TokenValidator middleware.TokenValidator

	// Services
	Stocks       *stock.Service
	Reservations *reservation.Service
	Products     *product.Service
	Warehouses   *warehouse.Service
	Returns      *damaged.Service
}

// NewRouter creates and configures the Gin router for the inventory service.
// All three wire bindings (REST, GraphQL, RPC envelope) mount here so they
// share the middleware chain and error rendering.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	auth := middleware.ServiceAuth(cfg.TokenValidator)
	baseHandler := handlers.NewBaseHandler()

	// REST binding
	apiV1 := router.Group("/api/v1")
	{
		inventory := apiV1.Group("/inventory")
		handlers.NewStockHandler(baseHandler, cfg.Stocks).RegisterRoutes(inventory, auth)
		handlers.NewReservationHandler(baseHandler, cfg.Reservations).RegisterRoutes(inventory, auth)

		products := apiV1.Group("/products")
		handlers.NewProductHandler(baseHandler, cfg.Products).RegisterRoutes(products, auth)

		warehouses := apiV1.Group("/warehouses")
		handlers.NewWarehouseHandler(baseHandler, cfg.Warehouses).RegisterRoutes(warehouses)

		returns := apiV1.Group("/damaged-returns")
		handlers.NewDamagedHandler(baseHandler, cfg.Returns).RegisterRoutes(returns, auth)
	}

	// GraphQL binding
	schema, err := gql.NewSchema(cfg.Products, cfg.Returns)
	if err != nil {
		return nil, err
	}
	// The GraphQL schema carries a mutation, so the whole endpoint is guarded
	// like the other mutating routes.
	router.POST("/graphql", auth, gql.NewHandler(schema).Execute)

	// RPC envelope binding
	router.POST("/rpc", auth, rpc.NewHandler(cfg.Stocks, cfg.Warehouses).Execute)

	return router, nil
}
