package dto

import (
	"time"

	"stockhub/internal/domain/catalog/warehouse"
)

// WarehouseStatusResponse aggregates warehouse capacity and stock health.
type WarehouseStatusResponse struct {
	WarehouseCode         string     `json:"warehouseCode"`
	WarehouseName         string     `json:"warehouseName,omitempty"`
	Location              string     `json:"location,omitempty"`
	Region                string     `json:"region,omitempty"`
	Status                string     `json:"status,omitempty"`
	TotalCapacity         int        `json:"totalCapacity"`
	UsedCapacity          int        `json:"usedCapacity"`
	AvailableCapacity     int        `json:"availableCapacity"`
	UtilizationPercentage float64    `json:"utilizationPercentage"`
	TotalSKUs             int        `json:"totalSkus"`
	LowStockSKUs          int        `json:"lowStockSkus"`
	OutOfStockSKUs        int        `json:"outOfStockSkus"`
	LastInventoryCheck    *time.Time `json:"lastInventoryCheck,omitempty"`
	LastUpdated           *time.Time `json:"lastUpdated,omitempty"`
	ContactPerson         string     `json:"contactPerson,omitempty"`
	ContactEmail          string     `json:"contactEmail,omitempty"`
	ContactPhone          string     `json:"contactPhone,omitempty"`
	IsOperational         bool       `json:"isOperational"`
	Message               string     `json:"message,omitempty"`
}

// FromStatusReport converts the domain report.
func FromStatusReport(rep warehouse.StatusReport) WarehouseStatusResponse {
	return WarehouseStatusResponse{
		WarehouseCode:         rep.WarehouseCode,
		WarehouseName:         rep.WarehouseName,
		Location:              rep.Location,
		Region:                rep.Region,
		Status:                rep.Status,
		TotalCapacity:         rep.TotalCapacity,
		UsedCapacity:          rep.UsedCapacity,
		AvailableCapacity:     rep.AvailableCapacity,
		UtilizationPercentage: rep.UtilizationPercentage,
		TotalSKUs:             rep.TotalSKUs,
		LowStockSKUs:          rep.LowStockSKUs,
		OutOfStockSKUs:        rep.OutOfStockSKUs,
		LastInventoryCheck:    rep.LastInventoryCheck,
		LastUpdated:           rep.LastUpdated,
		ContactPerson:         rep.ContactPerson,
		ContactEmail:          rep.ContactEmail,
		ContactPhone:          rep.ContactPhone,
		IsOperational:         rep.IsOperational,
		Message:               rep.Message,
	}
}
