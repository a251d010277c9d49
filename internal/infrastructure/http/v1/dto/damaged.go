package dto

import (
	"time"

	"stockhub/internal/domain/damaged"
)

// DamagedReturnRequest carries a damaged return registration.
type DamagedReturnRequest struct {
	SKU               string `json:"sku" binding:"required"`
	Quantity          int    `json:"quantity" binding:"required,min=1"`
	DamageType        string `json:"damageType" binding:"required"`
	DamageDescription string `json:"damageDescription"`
	WarehouseCode     string `json:"warehouseCode"`
	ReportedBy        string `json:"reportedBy"`
	Notes             string `json:"notes"`
}

// ToRequest converts to the domain type.
func (r DamagedReturnRequest) ToRequest() damaged.Request {
	return damaged.Request{
		SKU:               r.SKU,
		Quantity:          r.Quantity,
		DamageType:        r.DamageType,
		DamageDescription: r.DamageDescription,
		WarehouseCode:     r.WarehouseCode,
		ReportedBy:        r.ReportedBy,
		Notes:             r.Notes,
	}
}

// DamagedReturnResponse reports a registration outcome.
type DamagedReturnResponse struct {
	ReturnID          string     `json:"returnId,omitempty"`
	SKU               string     `json:"sku"`
	Quantity          int        `json:"quantity,omitempty"`
	DamageType        string     `json:"damageType,omitempty"`
	DamageDescription string     `json:"damageDescription,omitempty"`
	WarehouseCode     string     `json:"warehouseCode,omitempty"`
	ReportedBy        string     `json:"reportedBy,omitempty"`
	ReportedAt        *time.Time `json:"reportedAt,omitempty"`
	Status            string     `json:"status,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	Success           bool       `json:"success"`
	Message           string     `json:"message,omitempty"`
}

// FromDamagedResult converts the domain result.
func FromDamagedResult(res damaged.Result) DamagedReturnResponse {
	return DamagedReturnResponse{
		ReturnID:          res.ReturnID,
		SKU:               res.SKU,
		Quantity:          res.Quantity,
		DamageType:        res.DamageType,
		DamageDescription: res.DamageDescription,
		WarehouseCode:     res.WarehouseCode,
		ReportedBy:        res.ReportedBy,
		ReportedAt:        res.ReportedAt,
		Status:            res.Status,
		Notes:             res.Notes,
		Success:           res.Success,
		Message:           res.Message,
	}
}
