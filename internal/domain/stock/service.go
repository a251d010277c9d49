package stock

import (
	"context"
	"fmt"

	"stockhub/internal/core/apperror"
	"stockhub/internal/core/refid"
	"stockhub/pkg/logger"
)

// TxRunner executes fn atomically against the ledger store. Repository calls
// made with the context fn receives share one transaction.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// passthroughTx runs fn directly, without a transaction.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Service provides business operations over the stock ledger: availability
// aggregation, threshold policy, hold accounting, and bulk mutations.
type Service struct {
	repo     Repository
	products ProductReader
	events   EventRecorder
	tx       TxRunner
}

// NewService creates a new stock ledger service.
func NewService(repo Repository, products ProductReader, events EventRecorder, tx TxRunner) *Service {
	if events == nil {
		events = NopEventRecorder{}
	}
	if tx == nil {
		tx = passthroughTx{}
	}
	return &Service{
		repo:     repo,
		products: products,
		events:   events,
		tx:       tx,
	}
}

// CheckAvailability aggregates ledger rows for a SKU into an availability
// verdict. Missing or inactive products short-circuit to NOT_FOUND without
// touching the ledger.
func (s *Service) CheckAvailability(ctx context.Context, sku string) (Availability, error) {
	logger.Debug(ctx, "checking availability", "sku", sku)

	info, err := s.products.Lookup(ctx, sku)
	if err != nil {
		return Availability{}, fmt.Errorf("lookup product: %w", err)
	}
	if info == nil || !info.Active {
		return Availability{
			SKU:         sku,
			IsAvailable: false,
			Status:      "NOT_FOUND",
			Message:     "Product not found or inactive",
		}, nil
	}

	rows, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		return Availability{}, fmt.Errorf("get ledger rows: %w", err)
	}

	var totalQuantity, totalReserved int
	for _, r := range rows {
		totalQuantity += r.Quantity
		totalReserved += r.ReservedQuantity
	}
	available := totalQuantity - totalReserved

	result := Availability{
		SKU:               sku,
		ProductName:       info.Name,
		AvailableQuantity: available,
		ReservedQuantity:  totalReserved,
		IsAvailable:       available > 0,
		Message:           "Availability check successful",
	}
	if available > 0 {
		result.Status = string(StatusInStock)
	} else {
		result.Status = string(StatusOutOfStock)
	}

	// Primary warehouse is the first row in warehouse-code order.
	if len(rows) > 0 {
		result.WarehouseCode = rows[0].WarehouseCode
		updated := rows[0].UpdatedAt
		if !updated.IsZero() {
			result.LastUpdated = &updated
		}
	}

	return result, nil
}

// UpdateThreshold applies threshold configuration to all rows for the SKU, or
// to the single matching row when a warehouse code is given. Missing rows
// produce a failure result, not an error.
func (s *Service) UpdateThreshold(ctx context.Context, sku string, upd ThresholdUpdate) (ThresholdResult, error) {
	logger.Info(ctx, "updating threshold", "sku", sku)

	if upd.MinThreshold < 0 || upd.MaxThreshold < upd.MinThreshold {
		return ThresholdResult{}, apperror.NewValidation("minThreshold must be >= 0 and <= maxThreshold")
	}

	updated, err := s.repo.UpdateThresholds(ctx, sku, upd)
	if err != nil {
		return ThresholdResult{}, fmt.Errorf("update thresholds: %w", err)
	}
	if updated == 0 {
		return ThresholdResult{
			SKU:     sku,
			Update:  upd,
			Success: false,
			Message: "No stock found for SKU: " + sku,
		}, nil
	}

	return ThresholdResult{
		SKU:     sku,
		Update:  upd,
		Success: true,
		Message: "Threshold updated successfully",
	}, nil
}

// BulkUpdate applies a batch of SET/ADD/REMOVE mutations, creating rows on
// demand with default thresholds. Per-item failures do not abort the batch.
func (s *Service) BulkUpdate(ctx context.Context, req BulkRequest) (BulkResult, error) {
	batchID := refid.New("BATCH")
	logger.Info(ctx, "processing bulk stock update",
		"batch_id", batchID,
		"items", len(req.Items),
	)

	if len(req.Items) == 0 {
		return BulkResult{
			BatchID: batchID,
			Status:  "FAILED",
			Message: "No items to update",
		}, nil
	}

	warehouseCode := req.WarehouseCode
	if warehouseCode == "" {
		warehouseCode = DefaultWarehouseCode
	}

	result := BulkResult{
		BatchID:       batchID,
		WarehouseCode: req.WarehouseCode,
		TotalItems:    len(req.Items),
		Results:       make([]BulkItemResult, 0, len(req.Items)),
	}

	for _, item := range req.Items {
		itemResult, err := s.applyBulkItem(ctx, warehouseCode, item)
		if err != nil {
			result.Results = append(result.Results, BulkItemResult{
				SKU:     item.SKU,
				Success: false,
				Message: "Update failed: " + err.Error(),
			})
			result.FailureCount++
			continue
		}
		result.Results = append(result.Results, itemResult)
		result.SuccessCount++
	}

	if result.FailureCount == 0 {
		result.Status = "COMPLETED"
	} else {
		result.Status = "PARTIAL"
	}
	result.Message = fmt.Sprintf("Bulk update completed. Success: %d, Failed: %d",
		result.SuccessCount, result.FailureCount)

	return result, nil
}

// applyBulkItem mutates one row inside its own transaction. The row is read
// with a row lock so a concurrent hold cannot land between the read and the
// write; the status-change event joins the same transaction.
func (s *Service) applyBulkItem(ctx context.Context, warehouseCode string, item BulkItem) (BulkItemResult, error) {
	if item.SKU == "" {
		return BulkItemResult{}, apperror.NewValidation("sku is required")
	}
	if item.Quantity < 0 {
		return BulkItemResult{}, apperror.NewValidation("quantity must not be negative")
	}

	var result BulkItemResult
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetForUpdate(ctx, item.SKU, warehouseCode)
		if err != nil {
			if !apperror.IsNotFound(err) {
				return err
			}
			// Create-on-demand with default thresholds; bulk path only.
			rec = Record{
				SKU:           item.SKU,
				WarehouseCode: warehouseCode,
				MinThreshold:  DefaultMinThreshold,
				MaxThreshold:  DefaultMaxThreshold,
			}
		}

		previous := rec.Quantity
		previousStatus := ComputeStatus(rec.Quantity, rec.ReservedQuantity, rec.MinThreshold)

		switch item.Operation {
		case OpAdd:
			rec.Quantity = previous + item.Quantity
		case OpRemove:
			rec.Quantity = previous - item.Quantity
			if rec.Quantity < 0 {
				rec.Quantity = 0
			}
		default: // SET
			rec.Quantity = item.Quantity
		}
		rec.RecomputeStatus()

		saved, err := s.repo.Upsert(ctx, rec)
		if err != nil {
			return err
		}

		if err := s.recordTransition(ctx, saved, previousStatus); err != nil {
			return err
		}

		result = BulkItemResult{
			SKU:              item.SKU,
			Success:          true,
			PreviousQuantity: previous,
			NewQuantity:      saved.Quantity,
			Message:          "Updated successfully",
		}
		return nil
	})
	if err != nil {
		return BulkItemResult{}, err
	}
	return result, nil
}

// Hold reserves qty on one row, guarded by the no-oversell post-condition,
// and records the status transition in the same transaction.
func (s *Service) Hold(ctx context.Context, sku, warehouseCode string, qty int) (Record, error) {
	var held Record
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		prev, err := s.repo.GetForUpdate(ctx, sku, warehouseCode)
		if err != nil {
			return err
		}
		held, err = s.repo.Hold(ctx, sku, warehouseCode, qty)
		if err != nil {
			return err
		}
		return s.recordTransition(ctx, held, prev.Status)
	})
	if err != nil {
		return Record{}, err
	}
	return held, nil
}

// Release returns qty of a row's reserved quantity, floored at zero, and
// records the status transition in the same transaction.
func (s *Service) Release(ctx context.Context, sku, warehouseCode string, qty int) (Record, error) {
	var released Record
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		prev, err := s.repo.GetForUpdate(ctx, sku, warehouseCode)
		if err != nil {
			return err
		}
		released, err = s.repo.Release(ctx, sku, warehouseCode, qty)
		if err != nil {
			return err
		}
		return s.recordTransition(ctx, released, prev.Status)
	})
	if err != nil {
		return Record{}, err
	}
	return released, nil
}

// RemoveQuantity removes qty from a row's on-hand quantity, floored at zero,
// leaving reservations untouched. Status transitions are recorded in the same
// transaction.
func (s *Service) RemoveQuantity(ctx context.Context, sku, warehouseCode string, qty int) (Record, error) {
	var removed Record
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		prev, err := s.repo.GetForUpdate(ctx, sku, warehouseCode)
		if err != nil {
			return err
		}
		removed, err = s.repo.RemoveQuantity(ctx, sku, warehouseCode, qty)
		if err != nil {
			return err
		}
		return s.recordTransition(ctx, removed, prev.Status)
	})
	if err != nil {
		return Record{}, err
	}
	return removed, nil
}

// recordTransition hands a status change to the event recorder. A recorder
// failure propagates so the enclosing transaction rolls back with it.
func (s *Service) recordTransition(ctx context.Context, rec Record, previous Status) error {
	if rec.Status == previous {
		return nil
	}
	if err := s.events.RecordStatusChange(ctx, rec, previous); err != nil {
		return fmt.Errorf("record stock event: %w", err)
	}
	return nil
}

// Search returns a page of ledger rows matching the filter.
func (s *Service) Search(ctx context.Context, filter SearchFilter) ([]Record, int64, error) {
	if filter.Size <= 0 {
		filter.Size = 20
	}
	if filter.Page < 0 {
		filter.Page = 0
	}
	if filter.SortBy == "" {
		filter.SortBy = "sku"
	}
	return s.repo.Search(ctx, filter)
}

// Rows returns all ledger rows for a SKU in warehouse-code order.
func (s *Service) Rows(ctx context.Context, sku string) ([]Record, error) {
	return s.repo.GetBySKU(ctx, sku)
}
