// Package stock provides the stock ledger: per-SKU, per-warehouse quantity and
// reservation accounting with derived stock status.
package stock

import (
	"strings"
	"time"
)

// Status classifies a ledger row by its available quantity.
type Status string

const (
	StatusInStock    Status = "IN_STOCK"
	StatusLowStock   Status = "LOW_STOCK"
	StatusOutOfStock Status = "OUT_OF_STOCK"
)

// Default thresholds applied when a row is created on demand by bulk updates.
const (
	DefaultMinThreshold = 10
	DefaultMaxThreshold = 1000
)

// DefaultWarehouseCode is used by bulk updates when no warehouse is given.
const DefaultWarehouseCode = "DEFAULT"

// Record is one ledger row, keyed by (sku, warehouse_code).
// Invariant: 0 <= ReservedQuantity <= Quantity.
type Record struct {
	SKU              string  `db:"sku" json:"sku"`
	WarehouseCode    string  `db:"warehouse_code" json:"warehouseCode"`
	Quantity         int     `db:"quantity" json:"quantity"`
	ReservedQuantity int     `db:"reserved_quantity" json:"reservedQuantity"`
	MinThreshold     int     `db:"min_threshold" json:"minThreshold"`
	MaxThreshold     int     `db:"max_threshold" json:"maxThreshold"`
	ReorderPoint     int     `db:"reorder_point" json:"reorderPoint"`
	ReorderQuantity  int     `db:"reorder_quantity" json:"reorderQuantity"`
	AutoReorder      bool    `db:"auto_reorder" json:"autoReorder"`
	Aisle            *string `db:"aisle" json:"aisle,omitempty"`
	Shelf            *string `db:"shelf" json:"shelf,omitempty"`
	Bin              *string `db:"bin" json:"bin,omitempty"`

	// Status is derived; recomputed on every mutation.
	Status Status `db:"stock_status" json:"stockStatus"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Available returns the sellable remainder.
func (r *Record) Available() int {
	return r.Quantity - r.ReservedQuantity
}

// RecomputeStatus refreshes the derived status from current quantities.
func (r *Record) RecomputeStatus() {
	r.Status = ComputeStatus(r.Quantity, r.ReservedQuantity, r.MinThreshold)
}

// ComputeStatus is the pure status function shared by all mutation paths.
func ComputeStatus(quantity, reserved, minThreshold int) Status {
	available := quantity - reserved
	switch {
	case available <= 0:
		return StatusOutOfStock
	case available <= minThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Operation is a bulk-update mutation mode.
type Operation string

const (
	OpSet    Operation = "SET"
	OpAdd    Operation = "ADD"
	OpRemove Operation = "REMOVE"
)

// ParseOperation normalizes a wire operation string. Unknown or empty
// operations default to SET.
func ParseOperation(s string) Operation {
	switch Operation(strings.ToUpper(s)) {
	case OpAdd:
		return OpAdd
	case OpRemove:
		return OpRemove
	default:
		return OpSet
	}
}

// Availability is the aggregated verdict for a SKU across all warehouses.
type Availability struct {
	SKU               string
	ProductName       string
	AvailableQuantity int
	ReservedQuantity  int
	WarehouseCode     string
	IsAvailable       bool
	Status            string
	LastUpdated       *time.Time
	Message           string
}

// ThresholdUpdate carries new threshold configuration for a SKU.
// A nil WarehouseCode applies the update to every row for the SKU.
type ThresholdUpdate struct {
	MinThreshold    int
	MaxThreshold    int
	ReorderPoint    int
	ReorderQuantity int
	AutoReorder     bool
	WarehouseCode   *string
}

// ThresholdResult reports the outcome of a threshold update.
type ThresholdResult struct {
	SKU     string
	Update  ThresholdUpdate
	Success bool
	Message string
}

// BulkItem is one line of a bulk stock update.
type BulkItem struct {
	SKU       string
	Quantity  int
	Operation Operation
	Reason    string
}

// BulkRequest is a batch of ledger mutations against one warehouse.
type BulkRequest struct {
	WarehouseCode string
	Items         []BulkItem
}

// BulkItemResult reports one line outcome.
type BulkItemResult struct {
	SKU              string
	Success          bool
	PreviousQuantity int
	NewQuantity      int
	Message          string
}

// BulkResult reports the batch outcome.
type BulkResult struct {
	BatchID       string
	WarehouseCode string
	TotalItems    int
	SuccessCount  int
	FailureCount  int
	Status        string // COMPLETED, PARTIAL, FAILED
	Message       string
	Results       []BulkItemResult
}

// SearchFilter narrows ledger searches.
type SearchFilter struct {
	SKU           string
	WarehouseCode string
	Status        string
	MinQuantity   *int
	MaxQuantity   *int
	SortBy        string
	SortDesc      bool
	Page          int
	Size          int
}

// WarehouseCounts aggregates row counts for a warehouse.
type WarehouseCounts struct {
	TotalSKUs  int
	LowStock   int
	OutOfStock int
}
