// Package reservation_repo provides the PostgreSQL implementation of the
// reservation repository.
package reservation_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"stockhub/internal/core/apperror"
	"stockhub/internal/domain/reservation"
	"stockhub/internal/infrastructure/storage/postgres"
)

const reservationTable = "stock_reservations"

const reservationColumns = `reservation_id, sku, order_id, quantity,
	warehouse_code, customer_id, status, notes, reserved_at, expires_at`

// Repo implements reservation.Repository.
type Repo struct {
	txManager *postgres.TxManager
}

// NewRepo creates a new reservation repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

// Create persists a new reservation.
func (r *Repo) Create(ctx context.Context, res reservation.Reservation) error {
	sql := `INSERT INTO ` + reservationTable + ` (
			reservation_id, sku, order_id, quantity,
			warehouse_code, customer_id, status, notes, reserved_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	querier := r.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		res.ReservationID, res.SKU, res.OrderID, res.Quantity,
		res.WarehouseCode, res.CustomerID, res.Status, res.Notes,
		res.ReservedAt, res.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// GetByID returns a reservation or a NotFound error.
func (r *Repo) GetByID(ctx context.Context, reservationID string) (reservation.Reservation, error) {
	sql := `SELECT ` + reservationColumns + `
		FROM ` + reservationTable + `
		WHERE reservation_id = $1`

	var res reservation.Reservation
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &res, sql, reservationID); err != nil {
		if pgxscan.NotFound(err) {
			return reservation.Reservation{}, apperror.NewNotFound("reservation", reservationID)
		}
		return reservation.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// TransitionStatus atomically moves a reservation between statuses. The status
// guard in the WHERE clause makes the transition a claim: of two racing
// callers, exactly one sees true.
func (r *Repo) TransitionStatus(ctx context.Context, reservationID string, from, to reservation.Status) (bool, error) {
	sql := `UPDATE ` + reservationTable + `
		SET status = $3
		WHERE reservation_id = $1 AND status = $2`

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, reservationID, from, to)
	if err != nil {
		return false, fmt.Errorf("transition reservation status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListExpired returns confirmed reservations whose expiry has passed, oldest
// first.
func (r *Repo) ListExpired(ctx context.Context, now time.Time, limit int) ([]reservation.Reservation, error) {
	sql := `SELECT ` + reservationColumns + `
		FROM ` + reservationTable + `
		WHERE status = $1 AND expires_at <= $2
		ORDER BY expires_at
		LIMIT $3`

	var expired []reservation.Reservation
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &expired, sql, reservation.StatusConfirmed, now, limit); err != nil {
		return nil, fmt.Errorf("list expired reservations: %w", err)
	}
	return expired, nil
}
