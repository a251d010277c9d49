// Package rpc provides the named-procedure envelope binding: one POST
// endpoint, `{"procedure": ..., "payload": ...}` requests, procedure dispatch
// to the inventory services.
package rpc

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockhub/internal/core/apperror"
	"stockhub/internal/domain/catalog/warehouse"
	"stockhub/internal/domain/stock"
	"stockhub/internal/infrastructure/http/v1/dto"
)

// Procedure names accepted by the endpoint.
const (
	ProcBulkStockUpdate    = "bulkStockUpdate"
	ProcGetWarehouseStatus = "getWarehouseStatus"
)

// Envelope is the wire request: a procedure name plus its payload.
type Envelope struct {
	Procedure string          `json:"procedure"`
	Payload   json.RawMessage `json:"payload"`
}

// Response is the wire reply: the procedure echoed plus its result.
type Response struct {
	Procedure string `json:"procedure"`
	Result    any    `json:"result"`
}

// warehouseStatusPayload is the getWarehouseStatus request shape.
type warehouseStatusPayload struct {
	WarehouseCode string `json:"warehouseCode"`
}

// Handler dispatches envelope procedures.
type Handler struct {
	stocks     *stock.Service
	warehouses *warehouse.Service
}

// NewHandler creates a new envelope handler.
func NewHandler(stocks *stock.Service, warehouses *warehouse.Service) *Handler {
	return &Handler{
		stocks:     stocks,
		warehouses: warehouses,
	}
}

// Execute handles POST /rpc
func (h *Handler) Execute(c *gin.Context) {
	var env Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		h.abort(c, apperror.NewValidation("invalid envelope").WithDetail("error", err.Error()))
		return
	}

	result, err := h.dispatch(c.Request.Context(), env)
	if err != nil {
		h.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Procedure: env.Procedure,
		Result:    result,
	})
}

func (h *Handler) dispatch(ctx context.Context, env Envelope) (any, error) {
	switch env.Procedure {
	case ProcBulkStockUpdate:
		var req dto.BulkUpdateRequest
		if err := unmarshalPayload(env.Payload, &req); err != nil {
			return nil, err
		}
		result, err := h.stocks.BulkUpdate(ctx, req.ToBulkRequest())
		if err != nil {
			return nil, err
		}
		return dto.FromBulkResult(result), nil

	case ProcGetWarehouseStatus:
		var req warehouseStatusPayload
		if err := unmarshalPayload(env.Payload, &req); err != nil {
			return nil, err
		}
		if req.WarehouseCode == "" {
			return nil, apperror.NewValidation("warehouseCode is required")
		}
		report, err := h.warehouses.GetStatus(ctx, req.WarehouseCode)
		if err != nil {
			return nil, err
		}
		return dto.FromStatusReport(report), nil

	default:
		return nil, apperror.NewValidation("unknown procedure").
			WithDetail("procedure", env.Procedure)
	}
}

func unmarshalPayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return apperror.NewValidation("payload is required")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return apperror.NewValidation("invalid payload").WithDetail("error", err.Error())
	}
	return nil
}

func (h *Handler) abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
