// Package product provides the product catalog: master data, price
// adjustments, discontinuation, and the merged product details view.
package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is catalog master data for one SKU.
type Product struct {
	SKU                string          `db:"sku" json:"sku"`
	Name               string          `db:"product_name" json:"productName"`
	Description        string          `db:"description" json:"description,omitempty"`
	Category           string          `db:"category" json:"category,omitempty"`
	Brand              string          `db:"brand" json:"brand,omitempty"`
	UnitPrice          decimal.Decimal `db:"unit_price" json:"unitPrice"`
	Currency           string          `db:"currency" json:"currency,omitempty"`
	UnitOfMeasure      string          `db:"unit_of_measure" json:"unitOfMeasure,omitempty"`
	Weight             *float64        `db:"weight" json:"weight,omitempty"`
	Dimensions         string          `db:"dimensions" json:"dimensions,omitempty"`
	IsActive           bool            `db:"is_active" json:"isActive"`
	DiscontinuedAt     *time.Time      `db:"discontinued_at" json:"discontinuedAt,omitempty"`
	DiscontinuedReason string          `db:"discontinued_reason" json:"discontinuedReason,omitempty"`
	CreatedAt          time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updatedAt"`
}

// Details is the merged product + aggregated stock + primary warehouse view.
type Details struct {
	SKU               string
	ProductName       string
	Description       string
	Category          string
	Brand             string
	UnitPrice         decimal.Decimal
	Currency          string
	UnitOfMeasure     string
	Weight            *float64
	Dimensions        string
	StockCount        int
	ReservedCount     int
	AvailableCount    int
	StockStatus       string
	WarehouseCode     string
	WarehouseName     string
	WarehouseLocation string
	WarehouseRegion   string
	Aisle             string
	Shelf             string
	Bin               string
	LastStockUpdate   *time.Time
	LastPriceUpdate   *time.Time
	IsActive          bool
	Found             bool
	Message           string
}

// PriceAdjustment carries a price change request and its outcome.
type PriceAdjustment struct {
	SKU                string
	CurrentPrice       decimal.Decimal
	NewPrice           decimal.Decimal
	DiscountPercentage *float64
	AdjustmentReason   string
	AdjustedBy         string
	Success            bool
	Message            string
}

// Discontinuation carries a product discontinuation request and its outcome.
type Discontinuation struct {
	SKU               string
	Reason            string
	DiscontinuedBy    string
	EffectiveDate     string
	StockDisposition  string
	RemainingQuantity int
	Success           bool
	Message           string
}
