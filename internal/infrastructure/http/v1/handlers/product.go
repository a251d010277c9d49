package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockhub/internal/domain/catalog/product"
	"stockhub/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a new product catalog handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetDetails handles GET /products/:sku
func (h *ProductHandler) GetDetails(c *gin.Context) {
	ctx := c.Request.Context()

	details, err := h.service.Details(ctx, c.Param("sku"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromProductDetails(details))
}

// AdjustPrice handles PUT /products/:sku/price
func (h *ProductHandler) AdjustPrice(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PriceAdjustmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.AdjustPrice(ctx, c.Param("sku"), req.ToPriceAdjustment())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPriceAdjustment(result))
}

// Discontinue handles POST /products/:sku/discontinue
func (h *ProductHandler) Discontinue(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.DiscontinueRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Discontinue(ctx, c.Param("sku"), req.ToDiscontinuation())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDiscontinuation(result))
}

// RegisterRoutes registers product catalog routes.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.GET("/:sku", h.GetDetails)
	rg.PUT("/:sku/price", auth, h.AdjustPrice)
	rg.POST("/:sku/discontinue", auth, h.Discontinue)
}
