package warehouse

import (
	"context"
	"fmt"
	"time"

	"stockhub/internal/core/apperror"
	"stockhub/internal/domain/stock"
	"stockhub/pkg/logger"
)

// Repository defines persistence for the warehouse directory.
type Repository interface {
	// GetByCode returns a warehouse or a NotFound error.
	GetByCode(ctx context.Context, code string) (Warehouse, error)
}

// StockCounter aggregates ledger counts per warehouse.
type StockCounter interface {
	CountByWarehouse(ctx context.Context, warehouseCode string) (stock.WarehouseCounts, error)
}

// Service reports warehouse status.
type Service struct {
	repo   Repository
	counts StockCounter
	now    func() time.Time
}

// NewService creates a new warehouse service.
func NewService(repo Repository, counts StockCounter) *Service {
	return &Service{
		repo:   repo,
		counts: counts,
		now:    time.Now,
	}
}

// LookupLocation implements product.WarehouseReader.
func (s *Service) LookupLocation(ctx context.Context, code string) (string, string, string, error) {
	wh, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return "", "", "", nil
		}
		return "", "", "", err
	}
	return wh.Name, wh.Location, wh.Region, nil
}

// GetStatus reports capacity, utilization and stock health for a warehouse.
// An unknown warehouse yields a soft not-operational result.
func (s *Service) GetStatus(ctx context.Context, code string) (StatusReport, error) {
	logger.Debug(ctx, "getting warehouse status", "warehouse", code)

	wh, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return StatusReport{
				WarehouseCode: code,
				IsOperational: false,
				Message:       "Warehouse not found",
			}, nil
		}
		return StatusReport{}, fmt.Errorf("get warehouse: %w", err)
	}

	counts, err := s.counts.CountByWarehouse(ctx, code)
	if err != nil {
		return StatusReport{}, fmt.Errorf("count stock: %w", err)
	}

	availableCapacity := wh.TotalCapacity - wh.UsedCapacity
	if availableCapacity < 0 {
		availableCapacity = 0
	}
	utilization := 0.0
	if wh.TotalCapacity > 0 {
		utilization = float64(wh.UsedCapacity) * 100.0 / float64(wh.TotalCapacity)
	}

	now := s.now()
	return StatusReport{
		WarehouseCode:         wh.Code,
		WarehouseName:         wh.Name,
		Location:              wh.Location,
		Region:                wh.Region,
		Status:                wh.Status,
		TotalCapacity:         wh.TotalCapacity,
		UsedCapacity:          wh.UsedCapacity,
		AvailableCapacity:     availableCapacity,
		UtilizationPercentage: utilization,
		TotalSKUs:             counts.TotalSKUs,
		LowStockSKUs:          counts.LowStock,
		OutOfStockSKUs:        counts.OutOfStock,
		LastInventoryCheck:    wh.LastInventoryCheck,
		LastUpdated:           &now,
		ContactPerson:         wh.ContactPerson,
		ContactEmail:          wh.ContactEmail,
		ContactPhone:          wh.ContactPhone,
		IsOperational:         wh.IsOperational,
		Message:               "Status retrieved successfully",
	}, nil
}
