package damaged

import (
	"context"
	"fmt"
	"time"

	"stockhub/internal/core/apperror"
	"stockhub/internal/core/refid"
	"stockhub/internal/domain/stock"
	"stockhub/pkg/logger"
)

// Repository defines persistence for damaged returns.
type Repository interface {
	Create(ctx context.Context, ret Return) error
	GetByID(ctx context.Context, returnID string) (Return, error)
}

// StockAdjuster applies the damaged-quantity loss to the ledger. The stock
// ledger service satisfies it and records any status transition.
type StockAdjuster interface {
	RemoveQuantity(ctx context.Context, sku, warehouseCode string, qty int) (stock.Record, error)
}

// Service registers damaged returns and applies the loss to the ledger.
type Service struct {
	repo   Repository
	stocks StockAdjuster
	now    func() time.Time
}

// NewService creates a new damaged return service.
func NewService(repo Repository, stocks StockAdjuster) *Service {
	return &Service{
		repo:   repo,
		stocks: stocks,
		now:    time.Now,
	}
}

// Register persists a damaged return and, when a warehouse is given, removes
// the damaged quantity from that warehouse's ledger row (floored at zero,
// reserved quantity untouched). A missing ledger row skips the adjustment, it
// does not fail the registration.
func (s *Service) Register(ctx context.Context, req Request) (Result, error) {
	logger.Info(ctx, "registering damaged return",
		"sku", req.SKU,
		"quantity", req.Quantity,
	)

	if req.SKU == "" {
		return Result{}, apperror.NewValidation("sku is required")
	}
	if req.Quantity <= 0 {
		return Result{}, apperror.NewValidation("quantity must be positive")
	}
	if req.DamageType == "" {
		return Result{}, apperror.NewValidation("damageType is required")
	}

	ret := Return{
		ReturnID:          refid.New("RET"),
		SKU:               req.SKU,
		Quantity:          req.Quantity,
		DamageType:        req.DamageType,
		DamageDescription: req.DamageDescription,
		WarehouseCode:     req.WarehouseCode,
		ReportedBy:        req.ReportedBy,
		Status:            "PENDING",
		Notes:             req.Notes,
		ReportedAt:        s.now(),
	}
	if err := s.repo.Create(ctx, ret); err != nil {
		return Result{}, fmt.Errorf("create damaged return: %w", err)
	}

	if req.WarehouseCode != "" {
		_, err := s.stocks.RemoveQuantity(ctx, req.SKU, req.WarehouseCode, req.Quantity)
		if err != nil && !apperror.IsNotFound(err) {
			return Result{}, fmt.Errorf("adjust stock: %w", err)
		}
		if apperror.IsNotFound(err) {
			logger.Warn(ctx, "no ledger row for damaged return adjustment",
				"sku", req.SKU,
				"warehouse", req.WarehouseCode,
			)
		}
	}

	return Result{
		ReturnID:          ret.ReturnID,
		SKU:               ret.SKU,
		Quantity:          ret.Quantity,
		DamageType:        ret.DamageType,
		DamageDescription: ret.DamageDescription,
		WarehouseCode:     ret.WarehouseCode,
		ReportedBy:        ret.ReportedBy,
		ReportedAt:        &ret.ReportedAt,
		Status:            ret.Status,
		Notes:             ret.Notes,
		Success:           true,
		Message:           "Damaged return registered successfully",
	}, nil
}
