package stock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockhub/internal/core/apperror"
)

// fakeLedger is an in-memory stock.Repository with the same atomicity
// guarantees the Postgres implementation provides. onGetForUpdate, when set,
// fires once after the next locked read so tests can interleave a concurrent
// write between a read and the following upsert.
type fakeLedger struct {
	mu   sync.Mutex
	rows map[string]*Record

	onGetForUpdate func()
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: make(map[string]*Record)}
}

func key(sku, wh string) string { return sku + "|" + wh }

func (f *fakeLedger) put(rec Record) {
	rec.RecomputeStatus()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[key(rec.SKU, rec.WarehouseCode)] = &rec
}

func (f *fakeLedger) GetBySKU(_ context.Context, sku string) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Record
	for _, r := range f.rows {
		if r.SKU == sku {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseCode < out[j].WarehouseCode })
	return out, nil
}

func (f *fakeLedger) GetBySKUAndWarehouse(_ context.Context, sku, wh string) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.rows[key(sku, wh)]; ok {
		return *r, nil
	}
	return Record{}, apperror.NewNotFound("stock record", sku+"/"+wh)
}

func (f *fakeLedger) GetForUpdate(ctx context.Context, sku, wh string) (Record, error) {
	rec, err := f.GetBySKUAndWarehouse(ctx, sku, wh)
	if f.onGetForUpdate != nil {
		hook := f.onGetForUpdate
		f.onGetForUpdate = nil
		hook()
	}
	return rec, err
}

func (f *fakeLedger) Upsert(_ context.Context, rec Record) (Record, error) {
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

func (f *fakeLedger) Hold(_ context.Context, sku, wh string, qty int) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[key(sku, wh)]
	if !ok {
		return Record{}, apperror.NewNotFound("stock record", sku+"/"+wh)
	}
	if r.ReservedQuantity+qty > r.Quantity {
		return Record{}, apperror.NewInsufficientStock(sku, qty, r.Available())
	}
	r.ReservedQuantity += qty
	r.RecomputeStatus()
	return *r, nil
}

func (f *fakeLedger) Release(_ context.Context, sku, wh string, qty int) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[key(sku, wh)]
	if !ok {
		return Record{}, apperror.NewNotFound("stock record", sku+"/"+wh)
	}
	r.ReservedQuantity -= qty
	if r.ReservedQuantity < 0 {
		r.ReservedQuantity = 0
	}
	r.RecomputeStatus()
	return *r, nil
}

func (f *fakeLedger) RemoveQuantity(_ context.Context, sku, wh string, qty int) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[key(sku, wh)]
	if !ok {
		return Record{}, apperror.NewNotFound("stock record", sku+"/"+wh)
	}
	r.Quantity -= qty
	if r.Quantity < 0 {
		r.Quantity = 0
	}
	r.RecomputeStatus()
	return *r, nil
}

func (f *fakeLedger) UpdateThresholds(_ context.Context, sku string, upd ThresholdUpdate) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	updated := 0
	for _, r := range f.rows {
		if r.SKU != sku {
			continue
		}
		if upd.WarehouseCode != nil && r.WarehouseCode != *upd.WarehouseCode {
			continue
		}
		r.MinThreshold = upd.MinThreshold
		r.MaxThreshold = upd.MaxThreshold
		r.ReorderPoint = upd.ReorderPoint
		r.ReorderQuantity = upd.ReorderQuantity
		r.AutoReorder = upd.AutoReorder
		r.RecomputeStatus()
		updated++
	}
	return updated, nil
}

func (f *fakeLedger) Search(_ context.Context, filter SearchFilter) ([]Record, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Record
	for _, r := range f.rows {
		if filter.SKU != "" && !strings.HasPrefix(r.SKU, filter.SKU) {
			continue
		}
		if filter.WarehouseCode != "" && r.WarehouseCode != filter.WarehouseCode {
			continue
		}
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, int64(len(out)), nil
}

func (f *fakeLedger) CountByWarehouse(_ context.Context, wh string) (WarehouseCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var counts WarehouseCounts
	for _, r := range f.rows {
		if r.WarehouseCode != wh {
			continue
		}
		counts.TotalSKUs++
		switch r.Status {
		case StatusLowStock:
			counts.LowStock++
		case StatusOutOfStock:
			counts.OutOfStock++
		}
	}
	return counts, nil
}

// fakeProducts returns fixed product projections.
type fakeProducts struct {
	products map[string]ProductInfo
}

func (f *fakeProducts) Lookup(_ context.Context, sku string) (*ProductInfo, error) {
	if p, ok := f.products[sku]; ok {
		return &p, nil
	}
	return nil, nil
}

// recordingEvents captures status change notifications.
type recordingEvents struct {
	changes []string
}

func (r *recordingEvents) RecordStatusChange(_ context.Context, rec Record, previous Status) error {
	r.changes = append(r.changes, rec.SKU+":"+string(previous)+"->"+string(rec.Status))
	return nil
}

// failingEvents rejects every notification.
type failingEvents struct{}

func (failingEvents) RecordStatusChange(context.Context, Record, Status) error {
	return assert.AnError
}

// countingTx tracks how many transactions the service opens.
type countingTx struct {
	calls int
}

func (c *countingTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	c.calls++
	return fn(ctx)
}

func newTestService(ledger *fakeLedger, products map[string]ProductInfo) *Service {
	return NewService(ledger, &fakeProducts{products: products}, nil, nil)
}

func TestComputeStatus(t *testing.T) {
	assert.Equal(t, StatusOutOfStock, ComputeStatus(10, 10, 5))
	assert.Equal(t, StatusOutOfStock, ComputeStatus(0, 0, 5))
	assert.Equal(t, StatusLowStock, ComputeStatus(10, 5, 5))
	assert.Equal(t, StatusLowStock, ComputeStatus(10, 9, 5))
	assert.Equal(t, StatusInStock, ComputeStatus(10, 4, 5))
}

func TestCheckAvailability_NotFound(t *testing.T) {
	svc := newTestService(newFakeLedger(), nil)

	result, err := svc.CheckAvailability(context.Background(), "MISSING")
	require.NoError(t, err)

	assert.False(t, result.IsAvailable)
	assert.Equal(t, "NOT_FOUND", result.Status)
	assert.Equal(t, "Product not found or inactive", result.Message)
}

func TestCheckAvailability_InactiveProduct(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 100, MinThreshold: 10})
	svc := newTestService(ledger, map[string]ProductInfo{
		"SKU-1": {Name: "Widget", Active: false},
	})

	result, err := svc.CheckAvailability(context.Background(), "SKU-1")
	require.NoError(t, err)

	assert.False(t, result.IsAvailable)
	assert.Equal(t, "NOT_FOUND", result.Status)
}

func TestCheckAvailability_Aggregates(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-B", Quantity: 40, ReservedQuantity: 10, MinThreshold: 10})
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 60, ReservedQuantity: 20, MinThreshold: 10})
	svc := newTestService(ledger, map[string]ProductInfo{
		"SKU-1": {Name: "Widget", Active: true},
	})

	result, err := svc.CheckAvailability(context.Background(), "SKU-1")
	require.NoError(t, err)

	assert.True(t, result.IsAvailable)
	assert.Equal(t, 70, result.AvailableQuantity)
	assert.Equal(t, 30, result.ReservedQuantity)
	assert.Equal(t, string(StatusInStock), result.Status)
	// Primary warehouse is the first in warehouse-code order.
	assert.Equal(t, "WH-A", result.WarehouseCode)
	assert.Equal(t, "Widget", result.ProductName)
}

func TestCheckAvailability_FullyReserved(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 50, ReservedQuantity: 50, MinThreshold: 10})
	svc := newTestService(ledger, map[string]ProductInfo{
		"SKU-1": {Name: "Widget", Active: true},
	})

	result, err := svc.CheckAvailability(context.Background(), "SKU-1")
	require.NoError(t, err)

	assert.False(t, result.IsAvailable)
	assert.Equal(t, 0, result.AvailableQuantity)
	assert.Equal(t, string(StatusOutOfStock), result.Status)
}

func TestUpdateThreshold_AllWarehouses(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 100, MinThreshold: 10, MaxThreshold: 1000})
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-B", Quantity: 50, MinThreshold: 10, MaxThreshold: 1000})
	svc := newTestService(ledger, nil)

	result, err := svc.UpdateThreshold(context.Background(), "SKU-1", ThresholdUpdate{
		MinThreshold: 25,
		MaxThreshold: 500,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	for _, wh := range []string{"WH-A", "WH-B"} {
		rec, err := ledger.GetBySKUAndWarehouse(context.Background(), "SKU-1", wh)
		require.NoError(t, err)
		assert.Equal(t, 25, rec.MinThreshold)
		assert.Equal(t, 500, rec.MaxThreshold)
	}
}

func TestUpdateThreshold_SingleWarehouse(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 100, MinThreshold: 10, MaxThreshold: 1000})
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-B", Quantity: 50, MinThreshold: 10, MaxThreshold: 1000})
	svc := newTestService(ledger, nil)

	wh := "WH-B"
	result, err := svc.UpdateThreshold(context.Background(), "SKU-1", ThresholdUpdate{
		MinThreshold:  25,
		MaxThreshold:  500,
		WarehouseCode: &wh,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	recA, _ := ledger.GetBySKUAndWarehouse(context.Background(), "SKU-1", "WH-A")
	recB, _ := ledger.GetBySKUAndWarehouse(context.Background(), "SKU-1", "WH-B")
	assert.Equal(t, 10, recA.MinThreshold)
	assert.Equal(t, 25, recB.MinThreshold)
}

func TestUpdateThreshold_NoRows(t *testing.T) {
	svc := newTestService(newFakeLedger(), nil)

	result, err := svc.UpdateThreshold(context.Background(), "MISSING", ThresholdUpdate{
		MinThreshold: 5,
		MaxThreshold: 50,
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "No stock found for SKU: MISSING", result.Message)
}

func TestUpdateThreshold_InvalidRange(t *testing.T) {
	svc := newTestService(newFakeLedger(), nil)

	_, err := svc.UpdateThreshold(context.Background(), "SKU-1", ThresholdUpdate{
		MinThreshold: 50,
		MaxThreshold: 10,
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestBulkUpdate_AddAndRemove(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 10, MinThreshold: 10, MaxThreshold: 1000})
	ledger.put(Record{SKU: "SKU-2", WarehouseCode: "WH-A", Quantity: 10, MinThreshold: 10, MaxThreshold: 1000})
	svc := newTestService(ledger, nil)

	result, err := svc.BulkUpdate(context.Background(), BulkRequest{
		WarehouseCode: "WH-A",
		Items: []BulkItem{
			{SKU: "SKU-1", Quantity: 5, Operation: OpAdd},
			{SKU: "SKU-2", Quantity: 15, Operation: OpRemove},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "COMPLETED", result.Status)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 0, result.FailureCount)
	assert.True(t, strings.HasPrefix(result.BatchID, "BATCH-"))

	require.Len(t, result.Results, 2)
	assert.Equal(t, 10, result.Results[0].PreviousQuantity)
	assert.Equal(t, 15, result.Results[0].NewQuantity)
	// REMOVE floors at zero, never negative.
	assert.Equal(t, 10, result.Results[1].PreviousQuantity)
	assert.Equal(t, 0, result.Results[1].NewQuantity)
}

func TestBulkUpdate_CreatesRowOnDemand(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger, nil)

	result, err := svc.BulkUpdate(context.Background(), BulkRequest{
		Items: []BulkItem{
			{SKU: "NEW-SKU", Quantity: 42, Operation: OpSet},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", result.Status)

	rec, err := ledger.GetBySKUAndWarehouse(context.Background(), "NEW-SKU", DefaultWarehouseCode)
	require.NoError(t, err)
	assert.Equal(t, 42, rec.Quantity)
	assert.Equal(t, DefaultMinThreshold, rec.MinThreshold)
	assert.Equal(t, DefaultMaxThreshold, rec.MaxThreshold)
}

func TestBulkUpdate_EmptyItems(t *testing.T) {
	svc := newTestService(newFakeLedger(), nil)

	result, err := svc.BulkUpdate(context.Background(), BulkRequest{})
	require.NoError(t, err)

	assert.Equal(t, "FAILED", result.Status)
	assert.Equal(t, "No items to update", result.Message)
}

func TestBulkUpdate_PartialFailure(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger, nil)

	result, err := svc.BulkUpdate(context.Background(), BulkRequest{
		WarehouseCode: "WH-A",
		Items: []BulkItem{
			{SKU: "SKU-1", Quantity: 5, Operation: OpSet},
			{SKU: "", Quantity: 5, Operation: OpSet},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "PARTIAL", result.Status)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailureCount)
	assert.Equal(t, "Bulk update completed. Success: 1, Failed: 1", result.Message)
}

func TestBulkUpdate_RecordsStatusTransitions(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 100, MinThreshold: 10, MaxThreshold: 1000})
	events := &recordingEvents{}
	svc := NewService(ledger, &fakeProducts{}, events, nil)

	_, err := svc.BulkUpdate(context.Background(), BulkRequest{
		WarehouseCode: "WH-A",
		Items: []BulkItem{
			{SKU: "SKU-1", Quantity: 0, Operation: OpSet},
		},
	})
	require.NoError(t, err)

	require.Len(t, events.changes, 1)
	assert.Equal(t, "SKU-1:IN_STOCK->OUT_OF_STOCK", events.changes[0])
}

func TestBulkUpdate_PreservesConcurrentHold(t *testing.T) {
	// A hold landing between the bulk read and its write must survive the
	// upsert: reserved_quantity is never written back from the read value.
	ledger := newFakeLedger()
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 100, MinThreshold: 10, MaxThreshold: 1000})
	svc := newTestService(ledger, nil)

	ledger.onGetForUpdate = func() {
		_, err := ledger.Hold(context.Background(), "SKU-1", "WH-A", 60)
		require.NoError(t, err)
	}

	result, err := svc.BulkUpdate(context.Background(), BulkRequest{
		WarehouseCode: "WH-A",
		Items:         []BulkItem{{SKU: "SKU-1", Quantity: 5, Operation: OpAdd}},
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", result.Status)

	rec, err := ledger.GetBySKUAndWarehouse(context.Background(), "SKU-1", "WH-A")
	require.NoError(t, err)
	assert.Equal(t, 105, rec.Quantity)
	assert.Equal(t, 60, rec.ReservedQuantity)
	assert.Equal(t, StatusInStock, rec.Status)
}

func TestBulkUpdate_EachItemInOwnTransaction(t *testing.T) {
	ledger := newFakeLedger()
	tx := &countingTx{}
	svc := NewService(ledger, &fakeProducts{}, nil, tx)

	_, err := svc.BulkUpdate(context.Background(), BulkRequest{
		WarehouseCode: "WH-A",
		Items: []BulkItem{
			{SKU: "SKU-1", Quantity: 10, Operation: OpSet},
			{SKU: "SKU-2", Quantity: 20, Operation: OpSet},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, tx.calls)
}

func TestBulkUpdate_EventFailureFailsItem(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 100, MinThreshold: 10, MaxThreshold: 1000})
	svc := NewService(ledger, &fakeProducts{}, failingEvents{}, nil)

	result, err := svc.BulkUpdate(context.Background(), BulkRequest{
		WarehouseCode: "WH-A",
		Items:         []BulkItem{{SKU: "SKU-1", Quantity: 0, Operation: OpSet}},
	})
	require.NoError(t, err)

	assert.Equal(t, "PARTIAL", result.Status)
	require.Len(t, result.Results, 1)
	assert.False(t, result.Results[0].Success)
}

func TestHold_RecordsStatusTransition(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 10, MinThreshold: 5})
	events := &recordingEvents{}
	svc := NewService(ledger, &fakeProducts{}, events, nil)

	rec, err := svc.Hold(context.Background(), "SKU-1", "WH-A", 10)
	require.NoError(t, err)

	assert.Equal(t, StatusOutOfStock, rec.Status)
	require.Len(t, events.changes, 1)
	assert.Equal(t, "SKU-1:IN_STOCK->OUT_OF_STOCK", events.changes[0])
}

func TestHold_InsufficientLeavesNoEvent(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 10, ReservedQuantity: 5, MinThreshold: 5})
	events := &recordingEvents{}
	svc := NewService(ledger, &fakeProducts{}, events, nil)

	_, err := svc.Hold(context.Background(), "SKU-1", "WH-A", 10)
	require.Error(t, err)
	assert.True(t, apperror.IsBusinessRule(err))

	assert.Empty(t, events.changes)
	rec, _ := ledger.GetBySKUAndWarehouse(context.Background(), "SKU-1", "WH-A")
	assert.Equal(t, 5, rec.ReservedQuantity)
}

func TestRelease_RecordsStatusTransition(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 10, ReservedQuantity: 10, MinThreshold: 5})
	events := &recordingEvents{}
	svc := NewService(ledger, &fakeProducts{}, events, nil)

	rec, err := svc.Release(context.Background(), "SKU-1", "WH-A", 10)
	require.NoError(t, err)

	assert.Equal(t, StatusInStock, rec.Status)
	require.Len(t, events.changes, 1)
	assert.Equal(t, "SKU-1:OUT_OF_STOCK->IN_STOCK", events.changes[0])
}

func TestRemoveQuantity_RecordsStatusTransition(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 20, MinThreshold: 10})
	events := &recordingEvents{}
	svc := NewService(ledger, &fakeProducts{}, events, nil)

	rec, err := svc.RemoveQuantity(context.Background(), "SKU-1", "WH-A", 15)
	require.NoError(t, err)

	assert.Equal(t, 5, rec.Quantity)
	assert.Equal(t, StatusLowStock, rec.Status)
	require.Len(t, events.changes, 1)
	assert.Equal(t, "SKU-1:IN_STOCK->LOW_STOCK", events.changes[0])
}

func TestParseOperation(t *testing.T) {
	assert.Equal(t, OpAdd, ParseOperation("add"))
	assert.Equal(t, OpRemove, ParseOperation("REMOVE"))
	assert.Equal(t, OpSet, ParseOperation("SET"))
	assert.Equal(t, OpSet, ParseOperation(""))
	assert.Equal(t, OpSet, ParseOperation("bogus"))
}

func TestLedgerInvariantAfterOperations(t *testing.T) {
	ledger := newFakeLedger()
	ledger.put(Record{SKU: "SKU-1", WarehouseCode: "WH-A", Quantity: 50, ReservedQuantity: 10, MinThreshold: 10})
	svc := newTestService(ledger, map[string]ProductInfo{"SKU-1": {Name: "Widget", Active: true}})

	_, _ = svc.BulkUpdate(context.Background(), BulkRequest{
		WarehouseCode: "WH-A",
		Items:         []BulkItem{{SKU: "SKU-1", Quantity: 20, Operation: OpAdd}},
	})
	_, _ = ledger.Hold(context.Background(), "SKU-1", "WH-A", 30)
	_, _ = ledger.Release(context.Background(), "SKU-1", "WH-A", 15)

	rows, err := ledger.GetBySKU(context.Background(), "SKU-1")
	require.NoError(t, err)
	for _, r := range rows {
		assert.GreaterOrEqual(t, r.ReservedQuantity, 0)
		assert.LessOrEqual(t, r.ReservedQuantity, r.Quantity)
	}
}
