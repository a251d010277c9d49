package reservation

import (
	"context"
	"fmt"
	"time"

	"stockhub/internal/core/apperror"
	"stockhub/internal/core/refid"
	"stockhub/internal/domain/stock"
	"stockhub/pkg/logger"
)

// selectionAttempts bounds the scan-then-hold loop. A failed hold means a
// concurrent writer consumed the row's headroom; rescanning lets the attempt
// move to another warehouse instead of failing spuriously.
const selectionAttempts = 3

// Service orchestrates reservation attempts against the stock ledger. All
// hold and release traffic goes through the ledger service so status
// transitions are recorded on every path.
type Service struct {
	ledger *stock.Service
	repo   Repository
	now    func() time.Time
}

// NewService creates a new reservation coordinator.
func NewService(ledger *stock.Service, repo Repository) *Service {
	return &Service{
		ledger: ledger,
		repo:   repo,
		now:    time.Now,
	}
}

// Reserve attempts to hold stock for an order.
//
// Flow: availability gate, deterministic warehouse selection (ascending
// warehouse code), atomic hold with post-condition check, reservation record.
// Business failures come back as Result values with Success=false; only
// infrastructure problems surface as errors.
func (s *Service) Reserve(ctx context.Context, req Request) (Result, error) {
	logger.Info(ctx, "reserving stock",
		"sku", req.SKU,
		"order_id", req.OrderID,
		"quantity", req.Quantity,
	)

	if req.SKU == "" || req.OrderID == "" {
		return Result{}, apperror.NewValidation("sku and orderId are required")
	}
	if req.Quantity <= 0 {
		return Result{}, apperror.NewValidation("quantity must be positive")
	}

	availability, err := s.ledger.CheckAvailability(ctx, req.SKU)
	if err != nil {
		return Result{}, fmt.Errorf("check availability: %w", err)
	}
	if !availability.IsAvailable || availability.AvailableQuantity < req.Quantity {
		return s.failure(req, fmt.Sprintf(
			"Insufficient stock available. Requested: %d, Available: %d",
			req.Quantity, availability.AvailableQuantity,
		)), nil
	}

	held, err := s.holdStock(ctx, req)
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && apperror.IsBusinessRule(err) {
			return s.failure(req, appErr.Message), nil
		}
		return Result{}, err
	}

	now := s.now()
	res := Reservation{
		ReservationID: refid.New("RES"),
		SKU:           req.SKU,
		OrderID:       req.OrderID,
		Quantity:      req.Quantity,
		WarehouseCode: held.WarehouseCode,
		CustomerID:    req.CustomerID,
		Status:        StatusConfirmed,
		Notes:         req.Notes,
		ReservedAt:    now,
		ExpiresAt:     now.Add(HoldDuration),
	}
	if err := s.repo.Create(ctx, res); err != nil {
		// Roll the hold back so the ledger is not left with an orphan hold.
		if _, relErr := s.ledger.Release(ctx, req.SKU, held.WarehouseCode, req.Quantity); relErr != nil {
			logger.Error(ctx, "failed to roll back hold after create failure",
				"sku", req.SKU,
				"warehouse", held.WarehouseCode,
				"error", relErr,
			)
		}
		return Result{}, fmt.Errorf("create reservation: %w", err)
	}

	logger.Info(ctx, "stock reserved",
		"reservation_id", res.ReservationID,
		"warehouse", res.WarehouseCode,
	)

	return Result{
		ReservationID: res.ReservationID,
		SKU:           res.SKU,
		OrderID:       res.OrderID,
		Quantity:      res.Quantity,
		WarehouseCode: res.WarehouseCode,
		CustomerID:    res.CustomerID,
		Status:        string(StatusConfirmed),
		ReservedAt:    &res.ReservedAt,
		ExpiresAt:     &res.ExpiresAt,
		Success:       true,
		Message:       "Stock reserved successfully",
	}, nil
}

// holdStock scans candidate warehouses in warehouse-code order and applies an
// atomic hold to the first one with enough free quantity. When no single
// warehouse can satisfy the full quantity it fails with NO_SINGLE_WAREHOUSE.
func (s *Service) holdStock(ctx context.Context, req Request) (*stock.Record, error) {
	for attempt := 0; attempt < selectionAttempts; attempt++ {
		rows, err := s.ledger.Rows(ctx, req.SKU)
		if err != nil {
			return nil, fmt.Errorf("get ledger rows: %w", err)
		}

		var candidate *stock.Record
		for i := range rows {
			if req.WarehouseCode != "" && rows[i].WarehouseCode != req.WarehouseCode {
				continue
			}
			if rows[i].Available() >= req.Quantity {
				candidate = &rows[i]
				break
			}
		}
		if candidate == nil {
			return nil, apperror.NewNoSingleWarehouse(req.SKU, req.Quantity)
		}

		held, err := s.ledger.Hold(ctx, req.SKU, candidate.WarehouseCode, req.Quantity)
		if err != nil {
			if apperror.IsBusinessRule(err) {
				// Lost the race on this row; rescan.
				continue
			}
			return nil, fmt.Errorf("hold stock: %w", err)
		}
		return &held, nil
	}

	return nil, apperror.NewNoSingleWarehouse(req.SKU, req.Quantity)
}

func (s *Service) failure(req Request, message string) Result {
	return Result{
		SKU:      req.SKU,
		OrderID:  req.OrderID,
		Quantity: req.Quantity,
		Status:   "FAILED",
		Success:  false,
		Message:  message,
	}
}

// Cancel releases a confirmed reservation's hold and marks it CANCELLED.
// Cancelling an already-terminal reservation is a no-op failure result.
func (s *Service) Cancel(ctx context.Context, reservationID string) (Result, error) {
	res, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return Result{}, err
	}

	// Claim the transition first so a racing expiry sweep cannot release the
	// same hold twice.
	claimed, err := s.repo.TransitionStatus(ctx, reservationID, StatusConfirmed, StatusCancelled)
	if err != nil {
		return Result{}, fmt.Errorf("transition reservation: %w", err)
	}
	if !claimed {
		return Result{
			ReservationID: res.ReservationID,
			SKU:           res.SKU,
			OrderID:       res.OrderID,
			Quantity:      res.Quantity,
			WarehouseCode: res.WarehouseCode,
			Status:        string(res.Status),
			Success:       false,
			Message:       "Reservation is not active",
		}, nil
	}

	if _, err := s.ledger.Release(ctx, res.SKU, res.WarehouseCode, res.Quantity); err != nil {
		return Result{}, fmt.Errorf("release hold: %w", err)
	}

	logger.Info(ctx, "reservation cancelled", "reservation_id", reservationID)

	return Result{
		ReservationID: res.ReservationID,
		SKU:           res.SKU,
		OrderID:       res.OrderID,
		Quantity:      res.Quantity,
		WarehouseCode: res.WarehouseCode,
		Status:        string(StatusCancelled),
		Success:       true,
		Message:       "Reservation cancelled",
	}, nil
}

// ExpireDue releases holds for reservations past their expiry and marks them
// EXPIRED. Each reservation is claimed atomically, so a racing cancellation
// wins or loses cleanly but never double-releases. Returns the number expired.
func (s *Service) ExpireDue(ctx context.Context, now time.Time, limit int) (int, error) {
	due, err := s.repo.ListExpired(ctx, now, limit)
	if err != nil {
		return 0, fmt.Errorf("list expired: %w", err)
	}

	expired := 0
	for _, res := range due {
		claimed, err := s.repo.TransitionStatus(ctx, res.ReservationID, StatusConfirmed, StatusExpired)
		if err != nil {
			logger.Error(ctx, "failed to expire reservation",
				"reservation_id", res.ReservationID,
				"error", err,
			)
			continue
		}
		if !claimed {
			continue
		}
		if _, err := s.ledger.Release(ctx, res.SKU, res.WarehouseCode, res.Quantity); err != nil {
			logger.Error(ctx, "failed to release expired hold",
				"reservation_id", res.ReservationID,
				"error", err,
			)
			continue
		}
		expired++
	}

	if expired > 0 {
		logger.Info(ctx, "expired reservations released", "count", expired)
	}
	return expired, nil
}

// Get returns a reservation by its public ID.
func (s *Service) Get(ctx context.Context, reservationID string) (Reservation, error) {
	return s.repo.GetByID(ctx, reservationID)
}
