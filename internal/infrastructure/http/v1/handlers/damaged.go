package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockhub/internal/domain/damaged"
	"stockhub/internal/infrastructure/http/v1/dto"
)

// DamagedHandler handles HTTP requests for damaged returns.
type DamagedHandler struct {
	*BaseHandler
	service *damaged.Service
}

// NewDamagedHandler creates a new damaged returns handler.
func NewDamagedHandler(base *BaseHandler, service *damaged.Service) *DamagedHandler {
	return &DamagedHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Register handles POST /damaged-returns
func (h *DamagedHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.DamagedReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Register(ctx, req.ToRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDamagedResult(result))
}

// RegisterRoutes registers damaged return routes.
func (h *DamagedHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.POST("", auth, h.Register)
}
