package reservation

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockhub/internal/core/apperror"
	"stockhub/internal/domain/stock"
)

// fakeLedger is a mutex-guarded in-memory stock.Repository. Hold enforces the
// same post-condition the Postgres implementation checks atomically.
type fakeLedger struct {
	mu   sync.Mutex
	rows map[string]*stock.Record
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: make(map[string]*stock.Record)}
}

func key(sku, wh string) string { return sku + "|" + wh }

func (f *fakeLedger) put(rec stock.Record) {
	rec.RecomputeStatus()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[key(rec.SKU, rec.WarehouseCode)] = &rec
}

func (f *fakeLedger) get(sku, wh string) stock.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.rows[key(sku, wh)]
}

func (f *fakeLedger) GetBySKU(_ context.Context, sku string) ([]stock.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []stock.Record
	for _, r := range f.rows {
		if r.SKU == sku {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseCode < out[j].WarehouseCode })
	return out, nil
}

func (f *fakeLedger) GetBySKUAndWarehouse(_ context.Context, sku, wh string) (stock.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.rows[key(sku, wh)]; ok {
		return *r, nil
	}
	return stock.Record{}, apperror.NewNotFound("stock record", sku+"/"+wh)
}

func (f *fakeLedger) GetForUpdate(ctx context.Context, sku, wh string) (stock.Record, error) {
	return f.GetBySKUAndWarehouse(ctx, sku, wh)
}

func (f *fakeLedger) Upsert(_ context.Context, rec stock.Record) (stock.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Mirrors the SQL upsert: an existing row keeps its reserved_quantity.
	if existing, ok := f.rows[key(rec.SKU, rec.WarehouseCode)]; ok {
		rec.ReservedQuantity = existing.ReservedQuantity
	}
	rec.RecomputeStatus()
	stored := rec
	f.rows[key(rec.SKU, rec.WarehouseCode)] = &stored
	return rec, nil
}

func (f *fakeLedger) Hold(_ context.Context, sku, wh string, qty int) (stock.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[key(sku, wh)]
	if !ok {
		return stock.Record{}, apperror.NewNotFound("stock record", sku+"/"+wh)
	}
	if r.ReservedQuantity+qty > r.Quantity {
		return stock.Record{}, apperror.NewInsufficientStock(sku, qty, r.Available())
	}
	r.ReservedQuantity += qty
	r.RecomputeStatus()
	return *r, nil
}

func (f *fakeLedger) Release(_ context.Context, sku, wh string, qty int) (stock.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[key(sku, wh)]
	if !ok {
		return stock.Record{}, apperror.NewNotFound("stock record", sku+"/"+wh)
	}
	r.ReservedQuantity -= qty
	if r.ReservedQuantity < 0 {
		r.ReservedQuantity = 0
	}
	r.RecomputeStatus()
	return *r, nil
}

func (f *fakeLedger) RemoveQuantity(_ context.Context, sku, wh string, qty int) (stock.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[key(sku, wh)]
	if !ok {
		return stock.Record{}, apperror.NewNotFound("stock record", sku+"/"+wh)
	}
	r.Quantity -= qty
	if r.Quantity < 0 {
		r.Quantity = 0
	}
	r.RecomputeStatus()
	return *r, nil
}

func (f *fakeLedger) UpdateThresholds(_ context.Context, _ string, _ stock.ThresholdUpdate) (int, error) {
	return 0, nil
}

func (f *fakeLedger) Search(_ context.Context, _ stock.SearchFilter) ([]stock.Record, int64, error) {
	return nil, 0, nil
}

func (f *fakeLedger) CountByWarehouse(_ context.Context, _ string) (stock.WarehouseCounts, error) {
	return stock.WarehouseCounts{}, nil
}

// fakeReservations is an in-memory reservation.Repository with atomic
// status transitions.
type fakeReservations struct {
	mu   sync.Mutex
	rows map[string]*Reservation

	createErr error
}

func newFakeReservations() *fakeReservations {
	return &fakeReservations{rows: make(map[string]*Reservation)}
}

func (f *fakeReservations) Create(_ context.Context, res Reservation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := res
	f.rows[res.ReservationID] = &stored
	return nil
}

func (f *fakeReservations) GetByID(_ context.Context, id string) (Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.rows[id]; ok {
		return *r, nil
	}
	return Reservation{}, apperror.NewNotFound("reservation", id)
}

func (f *fakeReservations) TransitionStatus(_ context.Context, id string, from, to Status) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	return true, nil
}

func (f *fakeReservations) ListExpired(_ context.Context, now time.Time, limit int) ([]Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Reservation
	for _, r := range f.rows {
		if r.Status == StatusConfirmed && !r.ExpiresAt.After(now) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type activeProducts struct{}

func (activeProducts) Lookup(_ context.Context, sku string) (*stock.ProductInfo, error) {
	return &stock.ProductInfo{Name: "Widget", Active: true}, nil
}

func newTestService(ledger *fakeLedger, repo *fakeReservations) *Service {
	return NewService(stock.NewService(ledger, activeProducts{}, nil, nil), repo)
}

func TestReserve_Success(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 100, ReservedQuantity: 20, MinThreshold: 10})
	repo := newFakeReservations()
	svc := newTestService(ledger, repo)

	result, err := svc.Reserve(context.Background(), Request{
		SKU:      "SKU-1",
		OrderID:  "ORD-1",
		Quantity: 50,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, string(StatusConfirmed), result.Status)
	assert.Equal(t, "Stock reserved successfully", result.Message)
	assert.Equal(t, "WH-A", result.WarehouseCode)
	assert.True(t, strings.HasPrefix(result.ReservationID, "RES-"))
	require.NotNil(t, result.ReservedAt)
	require.NotNil(t, result.ExpiresAt)
	assert.Equal(t, result.ReservedAt.Add(HoldDuration), *result.ExpiresAt)

	rec := ledger.get("SKU-1", "WH-A")
	assert.Equal(t, 70, rec.ReservedQuantity)
	assert.Equal(t, 100, rec.Quantity)

	stored, err := repo.GetByID(context.Background(), result.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, stored.Status)
}

func TestReserve_InsufficientAggregate(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 30, ReservedQuantity: 10, MinThreshold: 10})
	svc := newTestService(ledger, newFakeReservations())

	result, err := svc.Reserve(context.Background(), Request{
		SKU:      "SKU-1",
		OrderID:  "ORD-1",
		Quantity: 50,
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "FAILED", result.Status)
	assert.Equal(t, "Insufficient stock available. Requested: 50, Available: 20", result.Message)

	// Failed attempts never mutate the ledger.
	rec := ledger.get("SKU-1", "WH-A")
	assert.Equal(t, 10, rec.ReservedQuantity)
}

func TestReserve_FragmentedStock(t *testing.T) {
	// Aggregate availability suffices but no single warehouse holds enough.
	ledger := newFakeLedger()
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 30, MinThreshold: 10})
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-B", Quantity: 30, MinThreshold: 10})
	svc := newTestService(ledger, newFakeReservations())

	result, err := svc.Reserve(context.Background(), Request{
		SKU:      "SKU-1",
		OrderID:  "ORD-1",
		Quantity: 50,
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "No warehouse has sufficient stock", result.Message)
}

func TestHoldStock_FragmentedStockCarriesCode(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 30, MinThreshold: 10})
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-B", Quantity: 30, MinThreshold: 10})
	svc := newTestService(ledger, newFakeReservations())

	_, err := svc.holdStock(context.Background(), Request{
		SKU:      "SKU-1",
		OrderID:  "ORD-1",
		Quantity: 50,
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNoSingleWarehouse, appErr.Code)
	assert.Equal(t, "No warehouse has sufficient stock", appErr.Message)
	assert.True(t, apperror.IsBusinessRule(err))
}

func TestReserve_PicksFirstWarehouseWithCapacity(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 10, MinThreshold: 5})
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-B", Quantity: 80, MinThreshold: 5})
	svc := newTestService(ledger, newFakeReservations())

	result, err := svc.Reserve(context.Background(), Request{
		SKU:      "SKU-1",
		OrderID:  "ORD-1",
		Quantity: 50,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "WH-B", result.WarehouseCode)
	assert.Equal(t, 0, ledger.get("SKU-1", "WH-A").ReservedQuantity)
	assert.Equal(t, 50, ledger.get("SKU-1", "WH-B").ReservedQuantity)
}

func TestReserve_RestrictedToWarehouse(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 100, MinThreshold: 5})
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-B", Quantity: 10, MinThreshold: 5})
	svc := newTestService(ledger, newFakeReservations())

	result, err := svc.Reserve(context.Background(), Request{
		SKU:           "SKU-1",
		OrderID:       "ORD-1",
		Quantity:      50,
		WarehouseCode: "WH-B",
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "No warehouse has sufficient stock", result.Message)
	assert.Equal(t, 0, ledger.get("SKU-1", "WH-A").ReservedQuantity)
}

func TestReserve_Validation(t *testing.T) {
	svc := newTestService(newFakeLedger(), newFakeReservations())

	_, err := svc.Reserve(context.Background(), Request{SKU: "SKU-1", OrderID: "ORD-1"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	_, err = svc.Reserve(context.Background(), Request{OrderID: "ORD-1", Quantity: 5})
	require.Error(t, err)
}

func TestReserve_ConcurrentNeverOversells(t *testing.T) {
	// Two racing reservations together exceed available stock: exactly one
	// must win.
	ledger := newFakeLedger()
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 100, MinThreshold: 10})
	repo := newFakeReservations()
	svc := newTestService(ledger, repo)

	results := make([]Result, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := svc.Reserve(context.Background(), Request{
				SKU:      "SKU-1",
				OrderID:  "ORD-" + string(rune('A'+i)),
				Quantity: 60,
			})
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, r := range results {
		if r.Success {
			successes++
		}
	}
	assert.Equal(t, 1, successes)

	rec := ledger.get("SKU-1", "WH-A")
	assert.Equal(t, 60, rec.ReservedQuantity)
	assert.LessOrEqual(t, rec.ReservedQuantity, rec.Quantity)
}

func TestReserve_RollsBackHoldWhenCreateFails(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 100, MinThreshold: 10})
	repo := newFakeReservations()
	repo.createErr = apperror.NewInternal(assert.AnError)
	svc := newTestService(ledger, repo)

	_, err := svc.Reserve(context.Background(), Request{
		SKU:      "SKU-1",
		OrderID:  "ORD-1",
		Quantity: 40,
	})
	require.Error(t, err)

	assert.Equal(t, 0, ledger.get("SKU-1", "WH-A").ReservedQuantity)
}

func TestCancel_ReleasesHold(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 100, MinThreshold: 10})
	repo := newFakeReservations()
	svc := newTestService(ledger, repo)

	reserved, err := svc.Reserve(context.Background(), Request{
		SKU:      "SKU-1",
		OrderID:  "ORD-1",
		Quantity: 30,
	})
	require.NoError(t, err)
	require.True(t, reserved.Success)

	cancelled, err := svc.Cancel(context.Background(), reserved.ReservationID)
	require.NoError(t, err)

	assert.True(t, cancelled.Success)
	assert.Equal(t, string(StatusCancelled), cancelled.Status)
	assert.Equal(t, 0, ledger.get("SKU-1", "WH-A").ReservedQuantity)
}

func TestCancel_SecondCancelFails(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 100, MinThreshold: 10})
	svc := newTestService(ledger, newFakeReservations())

	reserved, err := svc.Reserve(context.Background(), Request{
		SKU:      "SKU-1",
		OrderID:  "ORD-1",
		Quantity: 30,
	})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), reserved.ReservationID)
	require.NoError(t, err)

	again, err := svc.Cancel(context.Background(), reserved.ReservationID)
	require.NoError(t, err)

	assert.False(t, again.Success)
	assert.Equal(t, "Reservation is not active", again.Message)
	// The hold was released exactly once.
	assert.Equal(t, 0, ledger.get("SKU-1", "WH-A").ReservedQuantity)
}

func TestCancel_NotFound(t *testing.T) {
	svc := newTestService(newFakeLedger(), newFakeReservations())

	_, err := svc.Cancel(context.Background(), "RES-MISSING")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestExpireDue_ReleasesOnlyPastDeadline(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 100, MinThreshold: 10})
	repo := newFakeReservations()
	svc := newTestService(ledger, repo)

	now := time.Now()
	svc.now = func() time.Time { return now.Add(-2 * HoldDuration) }
	stale, err := svc.Reserve(context.Background(), Request{SKU: "SKU-1", OrderID: "ORD-1", Quantity: 20})
	require.NoError(t, err)

	svc.now = func() time.Time { return now }
	fresh, err := svc.Reserve(context.Background(), Request{SKU: "SKU-1", OrderID: "ORD-2", Quantity: 30})
	require.NoError(t, err)

	expired, err := svc.ExpireDue(context.Background(), now, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	staleRes, _ := repo.GetByID(context.Background(), stale.ReservationID)
	freshRes, _ := repo.GetByID(context.Background(), fresh.ReservationID)
	assert.Equal(t, StatusExpired, staleRes.Status)
	assert.Equal(t, StatusConfirmed, freshRes.Status)

	// Only the stale hold of 20 was released; the fresh 30 remains.
	assert.Equal(t, 30, ledger.get("SKU-1", "WH-A").ReservedQuantity)
}

func TestExpireDue_CancelRaceNeverDoubleReleases(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(stock.Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 100, MinThreshold: 10})
	repo := newFakeReservations()
	svc := newTestService(ledger, repo)

	now := time.Now()
	svc.now = func() time.Time { return now.Add(-2 * HoldDuration) }
	reserved, err := svc.Reserve(context.Background(), Request{SKU: "SKU-1", OrderID: "ORD-1", Quantity: 25})
	require.NoError(t, err)

	// Cancel first, then run the sweep over the same (now terminal) record.
	_, err = svc.Cancel(context.Background(), reserved.ReservationID)
	require.NoError(t, err)

	expired, err := svc.ExpireDue(context.Background(), now, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)

	assert.Equal(t, 0, ledger.get("SKU-1", "WH-A").ReservedQuantity)
}
