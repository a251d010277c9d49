package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockhub/internal/domain/stock"
	"stockhub/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock ledger.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock ledger handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// CheckAvailability handles GET /inventory/availability/:sku
func (h *StockHandler) CheckAvailability(c *gin.Context) {
	ctx := c.Request.Context()

	availability, err := h.service.CheckAvailability(ctx, c.Param("sku"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromAvailability(availability))
}

// UpdateThreshold handles PUT /inventory/thresholds/:sku
func (h *StockHandler) UpdateThreshold(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ThresholdRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.UpdateThreshold(ctx, c.Param("sku"), req.ToThresholdUpdate())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromThresholdResult(result))
}

// BulkUpdate handles POST /inventory/bulk-update
func (h *StockHandler) BulkUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.BulkUpdateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.BulkUpdate(ctx, req.ToBulkRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromBulkResult(result))
}

// Search handles GET /inventory/search
func (h *StockHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SearchRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter := req.ToSearchFilter()
	records, total, err := h.service.Search(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockRecordResponse, len(records))
	for i, rec := range records {
		items[i] = dto.FromStockRecord(rec)
	}

	size := filter.Size
	if size <= 0 {
		size = 20
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: total,
		Page:       filter.Page,
		Size:       size,
	})
}

// RegisterRoutes registers stock ledger routes. Mutating routes carry the
// given auth middleware.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.GET("/availability/:sku", h.CheckAvailability)
	rg.GET("/search", h.Search)
	rg.PUT("/thresholds/:sku", auth, h.UpdateThreshold)
	rg.POST("/bulk-update", auth, h.BulkUpdate)
}
