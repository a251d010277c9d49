package product

import (
	"context"
	"fmt"
	"time"

	"stockhub/internal/core/apperror"
	"stockhub/internal/domain/stock"
	"stockhub/pkg/logger"
)

// WarehouseReader is the catalog's view of the warehouse directory.
type WarehouseReader interface {
	// LookupLocation returns name, location and region for a warehouse code;
	// empty strings when the warehouse is unknown.
	LookupLocation(ctx context.Context, code string) (name, location, region string, err error)
}

// Service provides catalog operations and the merged product details view.
type Service struct {
	repo       Repository
	stocks     stock.Repository
	warehouses WarehouseReader
	now        func() time.Time
}

// NewService creates a new product catalog service.
func NewService(repo Repository, stocks stock.Repository, warehouses WarehouseReader) *Service {
	return &Service{
		repo:       repo,
		stocks:     stocks,
		warehouses: warehouses,
		now:        time.Now,
	}
}

// Lookup implements stock.ProductReader for the availability calculator.
func (s *Service) Lookup(ctx context.Context, sku string) (*stock.ProductInfo, error) {
	p, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &stock.ProductInfo{Name: p.Name, Active: p.IsActive}, nil
}

// Details merges product master data with aggregated stock and the primary
// warehouse location. A missing product yields a soft not-found result.
func (s *Service) Details(ctx context.Context, sku string) (Details, error) {
	logger.Debug(ctx, "fetching product details", "sku", sku)

	p, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		if apperror.IsNotFound(err) {
			return Details{SKU: sku, Message: "Product not found"}, nil
		}
		return Details{}, fmt.Errorf("get product: %w", err)
	}

	rows, err := s.stocks.GetBySKU(ctx, sku)
	if err != nil {
		return Details{}, fmt.Errorf("get ledger rows: %w", err)
	}

	d := Details{
		SKU:           p.SKU,
		ProductName:   p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Brand:         p.Brand,
		UnitPrice:     p.UnitPrice,
		Currency:      p.Currency,
		UnitOfMeasure: p.UnitOfMeasure,
		Weight:        p.Weight,
		Dimensions:    p.Dimensions,
		IsActive:      p.IsActive,
		Found:         true,
		Message:       "Product details retrieved successfully",
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		d.LastPriceUpdate = &updated
	}

	var totalQuantity, totalReserved int
	for _, r := range rows {
		totalQuantity += r.Quantity
		totalReserved += r.ReservedQuantity
	}
	d.StockCount = totalQuantity
	d.ReservedCount = totalReserved
	d.AvailableCount = totalQuantity - totalReserved
	d.StockStatus = "UNKNOWN"

	if len(rows) > 0 {
		primary := rows[0]
		d.StockStatus = string(primary.Status)
		d.WarehouseCode = primary.WarehouseCode
		if primary.Aisle != nil {
			d.Aisle = *primary.Aisle
		}
		if primary.Shelf != nil {
			d.Shelf = *primary.Shelf
		}
		if primary.Bin != nil {
			d.Bin = *primary.Bin
		}
		if !primary.UpdatedAt.IsZero() {
			updated := primary.UpdatedAt
			d.LastStockUpdate = &updated
		}

		name, location, region, err := s.warehouses.LookupLocation(ctx, primary.WarehouseCode)
		if err != nil {
			return Details{}, fmt.Errorf("lookup warehouse: %w", err)
		}
		d.WarehouseName = name
		d.WarehouseLocation = location
		d.WarehouseRegion = region
	}

	return d, nil
}

// AdjustPrice replaces a product's unit price. A missing product yields a
// soft failure result.
func (s *Service) AdjustPrice(ctx context.Context, sku string, adj PriceAdjustment) (PriceAdjustment, error) {
	logger.Info(ctx, "adjusting price", "sku", sku)

	p, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		if apperror.IsNotFound(err) {
			return PriceAdjustment{SKU: sku, Success: false, Message: "Product not found"}, nil
		}
		return PriceAdjustment{}, fmt.Errorf("get product: %w", err)
	}

	currentPrice := p.UnitPrice
	p.UnitPrice = adj.NewPrice
	if err := s.repo.Save(ctx, p); err != nil {
		return PriceAdjustment{}, fmt.Errorf("save product: %w", err)
	}

	return PriceAdjustment{
		SKU:                sku,
		CurrentPrice:       currentPrice,
		NewPrice:           adj.NewPrice,
		DiscountPercentage: adj.DiscountPercentage,
		AdjustmentReason:   adj.AdjustmentReason,
		AdjustedBy:         adj.AdjustedBy,
		Success:            true,
		Message:            "Price adjusted successfully",
	}, nil
}

// Discontinue marks a product inactive and records discontinuation metadata.
func (s *Service) Discontinue(ctx context.Context, sku string, req Discontinuation) (Discontinuation, error) {
	logger.Info(ctx, "discontinuing product", "sku", sku)

	p, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		if apperror.IsNotFound(err) {
			return Discontinuation{SKU: sku, Success: false, Message: "Product not found"}, nil
		}
		return Discontinuation{}, fmt.Errorf("get product: %w", err)
	}

	rows, err := s.stocks.GetBySKU(ctx, sku)
	if err != nil {
		return Discontinuation{}, fmt.Errorf("get ledger rows: %w", err)
	}
	remaining := 0
	for _, r := range rows {
		remaining += r.Quantity
	}

	now := s.now()
	p.IsActive = false
	p.DiscontinuedAt = &now
	p.DiscontinuedReason = req.Reason
	if err := s.repo.Save(ctx, p); err != nil {
		return Discontinuation{}, fmt.Errorf("save product: %w", err)
	}

	return Discontinuation{
		SKU:               sku,
		Reason:            req.Reason,
		DiscontinuedBy:    req.DiscontinuedBy,
		EffectiveDate:     now.Format(time.RFC3339),
		StockDisposition:  req.StockDisposition,
		RemainingQuantity: remaining,
		Success:           true,
		Message:           "Product discontinued successfully",
	}, nil
}
