package dto

import (
	"time"

	"stockhub/internal/domain/stock"
)

// --- Availability ---

// AvailabilityResponse is the canonical availability verdict.
type AvailabilityResponse struct {
	SKU               string     `json:"sku"`
	ProductName       string     `json:"productName,omitempty"`
	AvailableQuantity int        `json:"availableQuantity"`
	ReservedQuantity  int        `json:"reservedQuantity"`
	WarehouseCode     string     `json:"warehouseCode,omitempty"`
	IsAvailable       bool       `json:"isAvailable"`
	Status            string     `json:"status"`
	LastUpdated       *time.Time `json:"lastUpdated,omitempty"`
	Message           string     `json:"message,omitempty"`
}

// FromAvailability converts the domain verdict.
func FromAvailability(a stock.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		SKU:               a.SKU,
		ProductName:       a.ProductName,
		AvailableQuantity: a.AvailableQuantity,
		ReservedQuantity:  a.ReservedQuantity,
		WarehouseCode:     a.WarehouseCode,
		IsAvailable:       a.IsAvailable,
		Status:            a.Status,
		LastUpdated:       a.LastUpdated,
		Message:           a.Message,
	}
}

// --- Thresholds ---

// ThresholdRequest carries threshold configuration for a SKU.
type ThresholdRequest struct {
	MinThreshold    int     `json:"minThreshold" binding:"min=0"`
	MaxThreshold    int     `json:"maxThreshold" binding:"min=0"`
	ReorderPoint    int     `json:"reorderPoint"`
	ReorderQuantity int     `json:"reorderQuantity"`
	AutoReorder     bool    `json:"autoReorder"`
	WarehouseCode   *string `json:"warehouseCode,omitempty"`
}

// ToThresholdUpdate converts to the domain type.
func (r ThresholdRequest) ToThresholdUpdate() stock.ThresholdUpdate {
	return stock.ThresholdUpdate{
		MinThreshold:    r.MinThreshold,
		MaxThreshold:    r.MaxThreshold,
		ReorderPoint:    r.ReorderPoint,
		ReorderQuantity: r.ReorderQuantity,
		AutoReorder:     r.AutoReorder,
		WarehouseCode:   r.WarehouseCode,
	}
}

// ThresholdResponse reports a threshold update outcome.
type ThresholdResponse struct {
	SKU             string  `json:"sku"`
	MinThreshold    int     `json:"minThreshold"`
	MaxThreshold    int     `json:"maxThreshold"`
	ReorderPoint    int     `json:"reorderPoint"`
	ReorderQuantity int     `json:"reorderQuantity"`
	AutoReorder     bool    `json:"autoReorder"`
	WarehouseCode   *string `json:"warehouseCode,omitempty"`
	Success         bool    `json:"success"`
	Message         string  `json:"message,omitempty"`
}

// FromThresholdResult converts the domain result.
func FromThresholdResult(res stock.ThresholdResult) ThresholdResponse {
	return ThresholdResponse{
		SKU:             res.SKU,
		MinThreshold:    res.Update.MinThreshold,
		MaxThreshold:    res.Update.MaxThreshold,
		ReorderPoint:    res.Update.ReorderPoint,
		ReorderQuantity: res.Update.ReorderQuantity,
		AutoReorder:     res.Update.AutoReorder,
		WarehouseCode:   res.Update.WarehouseCode,
		Success:         res.Success,
		Message:         res.Message,
	}
}

// --- Bulk updates ---

// BulkItemRequest is one line of a bulk stock update.
type BulkItemRequest struct {
	SKU       string `json:"sku" binding:"required"`
	Quantity  int    `json:"quantity"`
	Operation string `json:"operation"`
	Reason    string `json:"reason"`
}

// BulkUpdateRequest is a batch of ledger mutations.
type BulkUpdateRequest struct {
	WarehouseCode string            `json:"warehouseCode"`
	Items         []BulkItemRequest `json:"items"`
}

// ToBulkRequest converts to the domain type.
func (r BulkUpdateRequest) ToBulkRequest() stock.BulkRequest {
	items := make([]stock.BulkItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = stock.BulkItem{
			SKU:       it.SKU,
			Quantity:  it.Quantity,
			Operation: stock.ParseOperation(it.Operation),
			Reason:    it.Reason,
		}
	}
	return stock.BulkRequest{
		WarehouseCode: r.WarehouseCode,
		Items:         items,
	}
}

// BulkItemResponse reports one line outcome.
type BulkItemResponse struct {
	SKU              string `json:"sku"`
	Success          bool   `json:"success"`
	PreviousQuantity int    `json:"previousQuantity"`
	NewQuantity      int    `json:"newQuantity"`
	Message          string `json:"message,omitempty"`
}

// BulkUpdateResponse reports the batch outcome.
type BulkUpdateResponse struct {
	BatchID       string             `json:"batchId"`
	WarehouseCode string             `json:"warehouseCode,omitempty"`
	TotalItems    int                `json:"totalItems"`
	SuccessCount  int                `json:"successCount"`
	FailureCount  int                `json:"failureCount"`
	Status        string             `json:"status"`
	Message       string             `json:"message,omitempty"`
	Results       []BulkItemResponse `json:"results"`
}

// FromBulkResult converts the domain result.
func FromBulkResult(res stock.BulkResult) BulkUpdateResponse {
	results := make([]BulkItemResponse, len(res.Results))
	for i, r := range res.Results {
		results[i] = BulkItemResponse{
			SKU:              r.SKU,
			Success:          r.Success,
			PreviousQuantity: r.PreviousQuantity,
			NewQuantity:      r.NewQuantity,
			Message:          r.Message,
		}
	}
	return BulkUpdateResponse{
		BatchID:       res.BatchID,
		WarehouseCode: res.WarehouseCode,
		TotalItems:    res.TotalItems,
		SuccessCount:  res.SuccessCount,
		FailureCount:  res.FailureCount,
		Status:        res.Status,
		Message:       res.Message,
		Results:       results,
	}
}

// --- Search ---

// SearchRequest narrows ledger searches via query parameters.
type SearchRequest struct {
	SKU           string `form:"sku"`
	WarehouseCode string `form:"warehouseCode"`
	Status        string `form:"status"`
	MinQuantity   *int   `form:"minQuantity"`
	MaxQuantity   *int   `form:"maxQuantity"`
	SortBy        string `form:"sortBy"`
	SortDesc      bool   `form:"sortDesc"`
	Page          int    `form:"page"`
	Size          int    `form:"size"`
}

// ToSearchFilter converts to the domain filter.
func (r SearchRequest) ToSearchFilter() stock.SearchFilter {
	return stock.SearchFilter{
		SKU:           r.SKU,
		WarehouseCode: r.WarehouseCode,
		Status:        r.Status,
		MinQuantity:   r.MinQuantity,
		MaxQuantity:   r.MaxQuantity,
		SortBy:        r.SortBy,
		SortDesc:      r.SortDesc,
		Page:          r.Page,
		Size:          r.Size,
	}
}

// StockRecordResponse is one ledger row on the wire.
type StockRecordResponse struct {
	SKU               string    `json:"sku"`
	WarehouseCode     string    `json:"warehouseCode"`
	Quantity          int       `json:"quantity"`
	ReservedQuantity  int       `json:"reservedQuantity"`
	AvailableQuantity int       `json:"availableQuantity"`
	MinThreshold      int       `json:"minThreshold"`
	MaxThreshold      int       `json:"maxThreshold"`
	StockStatus       string    `json:"stockStatus"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// FromStockRecord converts a ledger row.
func FromStockRecord(rec stock.Record) StockRecordResponse {
	return StockRecordResponse{
		SKU:               rec.SKU,
		WarehouseCode:     rec.WarehouseCode,
		Quantity:          rec.Quantity,
		ReservedQuantity:  rec.ReservedQuantity,
		AvailableQuantity: rec.Available(),
		MinThreshold:      rec.MinThreshold,
		MaxThreshold:      rec.MaxThreshold,
		StockStatus:       string(rec.Status),
		UpdatedAt:         rec.UpdatedAt,
	}
}
