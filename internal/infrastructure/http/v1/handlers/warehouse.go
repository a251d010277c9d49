package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockhub/internal/domain/catalog/warehouse"
	"stockhub/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler handles HTTP requests for the warehouse directory.
type WarehouseHandler struct {
	*BaseHandler
	service *warehouse.Service
}

// NewWarehouseHandler creates a new warehouse handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetStatus handles GET /warehouses/:code/status
func (h *WarehouseHandler) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	report, err := h.service.GetStatus(ctx, c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStatusReport(report))
}

// RegisterRoutes registers warehouse routes.
func (h *WarehouseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:code/status", h.GetStatus)
}
