package reservation

import (
	"context"
	"time"
)

// Repository defines persistence for reservation records.
type Repository interface {
	// Create persists a new reservation.
	Create(ctx context.Context, res Reservation) error

	// GetByID returns a reservation or a NotFound error.
	GetByID(ctx context.Context, reservationID string) (Reservation, error)

	// TransitionStatus atomically moves a reservation from one status to
	// another. Returns false when the reservation was not in the expected
	// status (already transitioned by a racing caller).
	TransitionStatus(ctx context.Context, reservationID string, from, to Status) (bool, error)

	// ListExpired returns CONFIRMED reservations whose expiry has passed.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]Reservation, error)
}
