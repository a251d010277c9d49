// Package gatewayapi provides the shop-facing REST surface of the gateway.
// Every endpoint delegates to the orchestration façade's canonical operations.
package gatewayapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockhub/internal/core/apperror"
	"stockhub/internal/gateway"
	"stockhub/internal/infrastructure/http/v1/dto"
)

// Handler exposes the canonical stock operations over REST.
type Handler struct {
	ops gateway.StockOperations
}

// NewHandler creates a new gateway API handler.
func NewHandler(ops gateway.StockOperations) *Handler {
	return &Handler{ops: ops}
}

// CheckAvailability handles GET /stock/availability/:sku
func (h *Handler) CheckAvailability(c *gin.Context) {
	resp, err := h.ops.CheckAvailability(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReserveStock handles POST /stock/reservations
//
// Success maps to 201, a business failure to 409; both carry the same shape.
func (h *Handler) ReserveStock(c *gin.Context) {
	var req dto.ReserveRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.ops.ReserveStock(c.Request.Context(), req)
	if err != nil {
		h.abort(c, err)
		return
	}

	if !resp.Success {
		c.JSON(http.StatusConflict, resp)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CancelReservation handles POST /stock/reservations/:id/cancel
func (h *Handler) CancelReservation(c *gin.Context) {
	resp, err := h.ops.CancelReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateThreshold handles PUT /stock/thresholds/:sku
func (h *Handler) UpdateThreshold(c *gin.Context) {
	var req dto.ThresholdRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.ops.UpdateThreshold(c.Request.Context(), c.Param("sku"), req)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BulkStockUpdate handles POST /stock/bulk-update
func (h *Handler) BulkStockUpdate(c *gin.Context) {
	var req dto.BulkUpdateRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.ops.BulkStockUpdate(c.Request.Context(), req)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetWarehouseStatus handles GET /warehouses/:code/status
func (h *Handler) GetWarehouseStatus(c *gin.Context) {
	resp, err := h.ops.GetWarehouseStatus(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FetchProductDetails handles GET /products/:sku
func (h *Handler) FetchProductDetails(c *gin.Context) {
	resp, err := h.ops.FetchProductDetails(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterDamagedReturn handles POST /damaged-returns
func (h *Handler) RegisterDamagedReturn(c *gin.Context) {
	var req dto.DamagedReturnRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.ops.RegisterDamagedReturn(c.Request.Context(), req)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdjustPrice handles PUT /products/:sku/price
func (h *Handler) AdjustPrice(c *gin.Context) {
	var req dto.PriceAdjustmentRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.ops.AdjustPrice(c.Request.Context(), c.Param("sku"), req)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DiscontinueProduct handles POST /products/:sku/discontinue
func (h *Handler) DiscontinueProduct(c *gin.Context) {
	var req dto.DiscontinueRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.ops.DiscontinueProduct(c.Request.Context(), c.Param("sku"), req)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SearchStock handles GET /stock/search
//
// The one operation where a downstream transport failure surfaces as an error
// response instead of a success=false body.
func (h *Handler) SearchStock(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.abort(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return
	}

	resp, err := h.ops.SearchStock(c.Request.Context(), req)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.abort(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

func (h *Handler) abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
