// Package damaged handles damaged goods returns: registering the return and
// applying the loss adjustment to the ledger outside the reservation path.
package damaged

import (
	"time"
)

// Return is a registered damaged goods return.
type Return struct {
	ReturnID          string    `db:"return_id" json:"returnId"`
	SKU               string    `db:"sku" json:"sku"`
	Quantity          int       `db:"quantity" json:"quantity"`
	DamageType        string    `db:"damage_type" json:"damageType"`
	DamageDescription string    `db:"damage_description" json:"damageDescription,omitempty"`
	WarehouseCode     string    `db:"warehouse_code" json:"warehouseCode,omitempty"`
	ReportedBy        string    `db:"reported_by" json:"reportedBy,omitempty"`
	Status            string    `db:"status" json:"status"` // PENDING, INSPECTED, DISPOSED
	Disposition       string    `db:"disposition" json:"disposition,omitempty"`
	Notes             string    `db:"notes" json:"notes,omitempty"`
	ReportedAt        time.Time `db:"reported_at" json:"reportedAt"`
}

// Request carries a damaged return registration.
type Request struct {
	SKU               string
	Quantity          int
	DamageType        string
	DamageDescription string
	WarehouseCode     string
	ReportedBy        string
	Notes             string
}

// Result is the registration outcome.
type Result struct {
	ReturnID          string
	SKU               string
	Quantity          int
	DamageType        string
	DamageDescription string
	WarehouseCode     string
	ReportedBy        string
	ReportedAt        *time.Time
	Status            string
	Notes             string
	Success           bool
	Message           string
}
