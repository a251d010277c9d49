// Package warehouse provides the warehouse directory, read-only from the
// inventory core's perspective.
package warehouse

import (
	"time"
)

// Warehouse is one physical storage location.
type Warehouse struct {
	Code               string     `db:"warehouse_code" json:"warehouseCode"`
	Name               string     `db:"warehouse_name" json:"warehouseName"`
	Location           string     `db:"location" json:"location,omitempty"`
	Region             string     `db:"region" json:"region,omitempty"`
	Status             string     `db:"status" json:"status,omitempty"`
	TotalCapacity      int        `db:"total_capacity" json:"totalCapacity"`
	UsedCapacity       int        `db:"used_capacity" json:"usedCapacity"`
	ContactPerson      string     `db:"contact_person" json:"contactPerson,omitempty"`
	ContactEmail       string     `db:"contact_email" json:"contactEmail,omitempty"`
	ContactPhone       string     `db:"contact_phone" json:"contactPhone,omitempty"`
	IsOperational      bool       `db:"is_operational" json:"isOperational"`
	LastInventoryCheck *time.Time `db:"last_inventory_check" json:"lastInventoryCheck,omitempty"`
}

// StatusReport aggregates warehouse capacity and stock health.
type StatusReport struct {
	WarehouseCode         string
	WarehouseName         string
	Location              string
	Region                string
	Status                string
	TotalCapacity         int
	UsedCapacity          int
	AvailableCapacity     int
	UtilizationPercentage float64
	TotalSKUs             int
	LowStockSKUs          int
	OutOfStockSKUs        int
	LastInventoryCheck    *time.Time
	LastUpdated           *time.Time
	ContactPerson         string
	ContactEmail          string
	ContactPhone          string
	IsOperational         bool
	Message               string
}
