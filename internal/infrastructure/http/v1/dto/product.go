package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stockhub/internal/domain/catalog/product"
)

// ProductDetailsResponse is the merged product + stock + location view.
type ProductDetailsResponse struct {
	SKU               string           `json:"sku"`
	ProductName       string           `json:"productName,omitempty"`
	Description       string           `json:"description,omitempty"`
	Category          string           `json:"category,omitempty"`
	Brand             string           `json:"brand,omitempty"`
	UnitPrice         *decimal.Decimal `json:"unitPrice,omitempty"`
	Currency          string           `json:"currency,omitempty"`
	UnitOfMeasure     string           `json:"unitOfMeasure,omitempty"`
	Weight            *float64         `json:"weight,omitempty"`
	Dimensions        string           `json:"dimensions,omitempty"`
	StockCount        int              `json:"stockCount"`
	ReservedCount     int              `json:"reservedCount"`
	AvailableCount    int              `json:"availableCount"`
	StockStatus       string           `json:"stockStatus,omitempty"`
	WarehouseCode     string           `json:"warehouseCode,omitempty"`
	WarehouseName     string           `json:"warehouseName,omitempty"`
	WarehouseLocation string           `json:"warehouseLocation,omitempty"`
	WarehouseRegion   string           `json:"warehouseRegion,omitempty"`
	Aisle             string           `json:"aisle,omitempty"`
	Shelf             string           `json:"shelf,omitempty"`
	Bin               string           `json:"bin,omitempty"`
	LastStockUpdate   *time.Time       `json:"lastStockUpdate,omitempty"`
	LastPriceUpdate   *time.Time       `json:"lastPriceUpdate,omitempty"`
	IsActive          bool             `json:"isActive"`
	Found             bool             `json:"found"`
	Message           string           `json:"message,omitempty"`
}

// FromProductDetails converts the domain view.
func FromProductDetails(d product.Details) ProductDetailsResponse {
	resp := ProductDetailsResponse{
		SKU:               d.SKU,
		ProductName:       d.ProductName,
		Description:       d.Description,
		Category:          d.Category,
		Brand:             d.Brand,
		Currency:          d.Currency,
		UnitOfMeasure:     d.UnitOfMeasure,
		Weight:            d.Weight,
		Dimensions:        d.Dimensions,
		StockCount:        d.StockCount,
		ReservedCount:     d.ReservedCount,
		AvailableCount:    d.AvailableCount,
		StockStatus:       d.StockStatus,
		WarehouseCode:     d.WarehouseCode,
		WarehouseName:     d.WarehouseName,
		WarehouseLocation: d.WarehouseLocation,
		WarehouseRegion:   d.WarehouseRegion,
		Aisle:             d.Aisle,
		Shelf:             d.Shelf,
		Bin:               d.Bin,
		LastStockUpdate:   d.LastStockUpdate,
		LastPriceUpdate:   d.LastPriceUpdate,
		IsActive:          d.IsActive,
		Found:             d.Found,
		Message:           d.Message,
	}
	if d.Found {
		price := d.UnitPrice
		resp.UnitPrice = &price
	}
	return resp
}

// PriceAdjustmentRequest carries a price change.
type PriceAdjustmentRequest struct {
	NewPrice           decimal.Decimal `json:"newPrice" binding:"required"`
	DiscountPercentage *float64        `json:"discountPercentage"`
	AdjustmentReason   string          `json:"adjustmentReason"`
	AdjustedBy         string          `json:"adjustedBy"`
}

// ToPriceAdjustment converts to the domain type.
func (r PriceAdjustmentRequest) ToPriceAdjustment() product.PriceAdjustment {
	return product.PriceAdjustment{
		NewPrice:           r.NewPrice,
		DiscountPercentage: r.DiscountPercentage,
		AdjustmentReason:   r.AdjustmentReason,
		AdjustedBy:         r.AdjustedBy,
	}
}

// PriceAdjustmentResponse reports a price change outcome.
type PriceAdjustmentResponse struct {
	SKU                string           `json:"sku"`
	CurrentPrice       *decimal.Decimal `json:"currentPrice,omitempty"`
	NewPrice           *decimal.Decimal `json:"newPrice,omitempty"`
	DiscountPercentage *float64         `json:"discountPercentage,omitempty"`
	AdjustmentReason   string           `json:"adjustmentReason,omitempty"`
	AdjustedBy         string           `json:"adjustedBy,omitempty"`
	Success            bool             `json:"success"`
	Message            string           `json:"message,omitempty"`
}

// FromPriceAdjustment converts the domain result.
func FromPriceAdjustment(adj product.PriceAdjustment) PriceAdjustmentResponse {
	resp := PriceAdjustmentResponse{
		SKU:                adj.SKU,
		DiscountPercentage: adj.DiscountPercentage,
		AdjustmentReason:   adj.AdjustmentReason,
		AdjustedBy:         adj.AdjustedBy,
		Success:            adj.Success,
		Message:            adj.Message,
	}
	if adj.Success {
		current, next := adj.CurrentPrice, adj.NewPrice
		resp.CurrentPrice = &current
		resp.NewPrice = &next
	}
	return resp
}

// DiscontinueRequest carries a product discontinuation.
type DiscontinueRequest struct {
	Reason           string `json:"reason"`
	DiscontinuedBy   string `json:"discontinuedBy"`
	StockDisposition string `json:"stockDisposition"`
}

// ToDiscontinuation converts to the domain type.
func (r DiscontinueRequest) ToDiscontinuation() product.Discontinuation {
	return product.Discontinuation{
		Reason:           r.Reason,
		DiscontinuedBy:   r.DiscontinuedBy,
		StockDisposition: r.StockDisposition,
	}
}

// DiscontinueResponse reports a discontinuation outcome.
type DiscontinueResponse struct {
	SKU               string `json:"sku"`
	Reason            string `json:"reason,omitempty"`
	DiscontinuedBy    string `json:"discontinuedBy,omitempty"`
	EffectiveDate     string `json:"effectiveDate,omitempty"`
	StockDisposition  string `json:"stockDisposition,omitempty"`
	RemainingQuantity int    `json:"remainingQuantity"`
	Success           bool   `json:"success"`
	Message           string `json:"message,omitempty"`
}

// FromDiscontinuation converts the domain result.
func FromDiscontinuation(d product.Discontinuation) DiscontinueResponse {
	return DiscontinueResponse{
		SKU:               d.SKU,
		Reason:            d.Reason,
		DiscontinuedBy:    d.DiscontinuedBy,
		EffectiveDate:     d.EffectiveDate,
		StockDisposition:  d.StockDisposition,
		RemainingQuantity: d.RemainingQuantity,
		Success:           d.Success,
		Message:           d.Message,
	}
}
