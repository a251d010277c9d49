package stock

import (
	"context"
)

// Repository defines persistence operations for the stock ledger.
//
// Writes to the same (sku, warehouse_code) key must be mutually exclusive;
// Hold additionally enforces the no-oversell post-condition atomically.
type Repository interface {
	// GetBySKU returns all rows for the SKU ordered by warehouse code ascending.
	GetBySKU(ctx context.Context, sku string) ([]Record, error)

	// GetBySKUAndWarehouse returns a single row or a NotFound error.
	GetBySKUAndWarehouse(ctx context.Context, sku, warehouseCode string) (Record, error)

	// GetForUpdate returns a single row locked for the duration of the
	// enclosing transaction, or a NotFound error. Callers must run inside a
	// transaction; outside one the lock is released immediately.
	GetForUpdate(ctx context.Context, sku, warehouseCode string) (Record, error)

	// Upsert creates or replaces a row, recomputing its status. On an
	// existing row reserved_quantity is never overwritten; holds taken by
	// concurrent writers survive the upsert. Only the bulk-update path may
	// create rows on demand.
	Upsert(ctx context.Context, rec Record) (Record, error)

	// Hold atomically increments reserved_quantity by qty, failing with an
	// INSUFFICIENT_STOCK error when reserved_quantity+qty would exceed
	// quantity, and with NotFound when the row does not exist.
	Hold(ctx context.Context, sku, warehouseCode string, qty int) (Record, error)

	// Release atomically decrements reserved_quantity by qty, floored at 0.
	Release(ctx context.Context, sku, warehouseCode string, qty int) (Record, error)

	// RemoveQuantity decrements quantity by qty, floored at 0, leaving
	// reserved_quantity untouched. The row must exist.
	RemoveQuantity(ctx context.Context, sku, warehouseCode string, qty int) (Record, error)

	// UpdateThresholds applies threshold configuration to every row for the
	// SKU, or to the single matching row when a warehouse code is given.
	// Returns the number of rows updated.
	UpdateThresholds(ctx context.Context, sku string, upd ThresholdUpdate) (int, error)

	// Search returns a page of rows plus the total match count.
	Search(ctx context.Context, filter SearchFilter) ([]Record, int64, error)

	// CountByWarehouse aggregates SKU counts for warehouse status reporting.
	CountByWarehouse(ctx context.Context, warehouseCode string) (WarehouseCounts, error)
}

// ProductReader is the ledger's view of the product catalog.
type ProductReader interface {
	// Lookup returns the product name and active flag, or nil when absent.
	Lookup(ctx context.Context, sku string) (*ProductInfo, error)
}

// ProductInfo is the minimal product projection the ledger needs.
type ProductInfo struct {
	Name   string
	Active bool
}

// EventRecorder captures stock-level transitions for asynchronous delivery.
// Implementations must be cheap; delivery happens out of band (outbox relay).
type EventRecorder interface {
	RecordStatusChange(ctx context.Context, rec Record, previous Status) error
}

// NopEventRecorder discards all events.
type NopEventRecorder struct{}

func (NopEventRecorder) RecordStatusChange(context.Context, Record, Status) error { return nil }
