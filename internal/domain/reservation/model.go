// Package reservation coordinates stock holds: availability gate, warehouse
// selection, atomic hold, and the reservation record lifecycle.
package reservation

import (
	"time"
)

// Status is a persisted reservation state. FAILED outcomes are returned to the
// caller but never persisted.
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

// HoldDuration is how long a confirmed reservation holds stock before the
// reaper releases it.
const HoldDuration = 24 * time.Hour

// Reservation is a time-bounded hold against available stock tied to an order.
// Its existence implies exactly one ledger row's reserved_quantity was
// incremented by Quantity; releasing must decrement the same row by the same
// amount.
type Reservation struct {
	ReservationID string    `db:"reservation_id" json:"reservationId"`
	SKU           string    `db:"sku" json:"sku"`
	OrderID       string    `db:"order_id" json:"orderId"`
	Quantity      int       `db:"quantity" json:"quantity"`
	WarehouseCode string    `db:"warehouse_code" json:"warehouseCode"`
	CustomerID    string    `db:"customer_id" json:"customerId,omitempty"`
	Status        Status    `db:"status" json:"status"`
	Notes         string    `db:"notes" json:"notes,omitempty"`
	ReservedAt    time.Time `db:"reserved_at" json:"reservedAt"`
	ExpiresAt     time.Time `db:"expires_at" json:"expiresAt"`
}

// Request carries a reservation attempt.
type Request struct {
	SKU           string
	OrderID       string
	Quantity      int
	WarehouseCode string // optional; restricts selection to one warehouse
	CustomerID    string
	Notes         string
}

// Result is the reservation outcome returned to callers. Business failures are
// values (Success=false), never errors.
type Result struct {
	ReservationID string
	SKU           string
	OrderID       string
	Quantity      int
	WarehouseCode string
	CustomerID    string
	Status        string // CONFIRMED or FAILED
	ReservedAt    *time.Time
	ExpiresAt     *time.Time
	Success       bool
	Message       string
}
