package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockhub/internal/domain/reservation"
	"stockhub/internal/infrastructure/http/v1/dto"
)

// ReservationHandler handles HTTP requests for reservations.
type ReservationHandler struct {
	*BaseHandler
	service *reservation.Service
}

// NewReservationHandler creates a new reservation handler.
func NewReservationHandler(base *BaseHandler, service *reservation.Service) *ReservationHandler {
	return &ReservationHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Reserve handles POST /inventory/reservations
//
// Success yields 201 with the reservation; a business failure (insufficient or
// fragmented stock) yields 409 carrying success=false, never an error shape.
func (h *ReservationHandler) Reserve(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ReserveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Reserve(ctx, req.ToRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	if !result.Success {
		c.JSON(http.StatusConflict, dto.FromReservationResult(result))
		return
	}
	c.JSON(http.StatusCreated, dto.FromReservationResult(result))
}

// Get handles GET /inventory/reservations/:id
func (h *ReservationHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	res, err := h.service.Get(ctx, c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Cancel handles POST /inventory/reservations/:id/cancel
func (h *ReservationHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.service.Cancel(ctx, c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromReservationResult(result))
}

// RegisterRoutes registers reservation routes.
func (h *ReservationHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.POST("/reservations", auth, h.Reserve)
	rg.GET("/reservations/:id", h.Get)
	rg.POST("/reservations/:id/cancel", auth, h.Cancel)
}
