package dto

import (
	"time"

	"stockhub/internal/domain/reservation"
)

// ReserveRequest carries a reservation attempt.
type ReserveRequest struct {
	SKU           string `json:"sku" binding:"required"`
	OrderID       string `json:"orderId" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	WarehouseCode string `json:"warehouseCode"`
	CustomerID    string `json:"customerId"`
	Notes         string `json:"notes"`
}

// ToRequest converts to the domain type.
func (r ReserveRequest) ToRequest() reservation.Request {
	return reservation.Request{
		SKU:           r.SKU,
		OrderID:       r.OrderID,
		Quantity:      r.Quantity,
		WarehouseCode: r.WarehouseCode,
		CustomerID:    r.CustomerID,
		Notes:         r.Notes,
	}
}

// ReservationResponse is the reservation outcome on the wire.
type ReservationResponse struct {
	ReservationID string     `json:"reservationId,omitempty"`
	SKU           string     `json:"sku"`
	OrderID       string     `json:"orderId,omitempty"`
	Quantity      int        `json:"quantity,omitempty"`
	WarehouseCode string     `json:"warehouseCode,omitempty"`
	CustomerID    string     `json:"customerId,omitempty"`
	Status        string     `json:"status"`
	ReservedAt    *time.Time `json:"reservedAt,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Success       bool       `json:"success"`
	Message       string     `json:"message,omitempty"`
}

// FromReservationResult converts the domain result.
func FromReservationResult(res reservation.Result) ReservationResponse {
	return ReservationResponse{
		ReservationID: res.ReservationID,
		SKU:           res.SKU,
		OrderID:       res.OrderID,
		Quantity:      res.Quantity,
		WarehouseCode: res.WarehouseCode,
		CustomerID:    res.CustomerID,
		Status:        res.Status,
		ReservedAt:    res.ReservedAt,
		ExpiresAt:     res.ExpiresAt,
		Success:       res.Success,
		Message:       res.Message,
	}
}
