package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockhub/internal/core/apperror"
	"stockhub/internal/infrastructure/http/v1/dto"
)

func transportErr() error {
	return apperror.NewTransport("inventory call", assert.AnError)
}

// fakeREST counts calls and fails each operation err-many times before
// succeeding (errs nil means always succeed).
type fakeREST struct {
	calls map[string]int
	errs  map[string]error

	availability dto.AvailabilityResponse
	reservation  dto.ReservationResponse
	list         dto.ListResponse
}

func newFakeREST() *fakeREST {
	return &fakeREST{calls: make(map[string]int), errs: make(map[string]error)}
}

func (f *fakeREST) fail(op string, err error) { f.errs[op] = err }

func (f *fakeREST) step(op string) error {
	f.calls[op]++
	return f.errs[op]
}

func (f *fakeREST) CheckAvailability(_ context.Context, sku string) (dto.AvailabilityResponse, error) {
	if err := f.step("availability"); err != nil {
		return dto.AvailabilityResponse{}, err
	}
	return f.availability, nil
}

func (f *fakeREST) ReserveStock(_ context.Context, _ dto.ReserveRequest) (dto.ReservationResponse, error) {
	if err := f.step("reserve"); err != nil {
		return dto.ReservationResponse{}, err
	}
	return f.reservation, nil
}

func (f *fakeREST) CancelReservation(_ context.Context, _ string) (dto.ReservationResponse, error) {
	if err := f.step("cancel"); err != nil {
		return dto.ReservationResponse{}, err
	}
	return f.reservation, nil
}

func (f *fakeREST) UpdateThreshold(_ context.Context, sku string, _ dto.ThresholdRequest) (dto.ThresholdResponse, error) {
	if err := f.step("threshold"); err != nil {
		return dto.ThresholdResponse{}, err
	}
	return dto.ThresholdResponse{SKU: sku, Success: true}, nil
}

func (f *fakeREST) AdjustPrice(_ context.Context, sku string, _ dto.PriceAdjustmentRequest) (dto.PriceAdjustmentResponse, error) {
	if err := f.step("price"); err != nil {
		return dto.PriceAdjustmentResponse{}, err
	}
	return dto.PriceAdjustmentResponse{SKU: sku, Success: true}, nil
}

func (f *fakeREST) DiscontinueProduct(_ context.Context, sku string, _ dto.DiscontinueRequest) (dto.DiscontinueResponse, error) {
	if err := f.step("discontinue"); err != nil {
		return dto.DiscontinueResponse{}, err
	}
	return dto.DiscontinueResponse{SKU: sku, Success: true}, nil
}

func (f *fakeREST) SearchStock(_ context.Context, _ dto.SearchRequest) (dto.ListResponse, error) {
	if err := f.step("search"); err != nil {
		return dto.ListResponse{}, err
	}
	return f.list, nil
}

type fakeGraphQL struct {
	calls map[string]int
	errs  map[string]error
}

func newFakeGraphQL() *fakeGraphQL {
	return &fakeGraphQL{calls: make(map[string]int), errs: make(map[string]error)}
}

func (f *fakeGraphQL) FetchProductDetails(_ context.Context, sku string) (dto.ProductDetailsResponse, error) {
	f.calls["details"]++
	if err := f.errs["details"]; err != nil {
		return dto.ProductDetailsResponse{}, err
	}
	return dto.ProductDetailsResponse{SKU: sku, Found: true}, nil
}

func (f *fakeGraphQL) RegisterDamagedReturn(_ context.Context, req dto.DamagedReturnRequest) (dto.DamagedReturnResponse, error) {
	f.calls["damaged"]++
	if err := f.errs["damaged"]; err != nil {
		return dto.DamagedReturnResponse{}, err
	}
	return dto.DamagedReturnResponse{SKU: req.SKU, Success: true}, nil
}

type fakeRPC struct {
	calls map[string]int
	errs  map[string]error
}

func newFakeRPC() *fakeRPC {
	return &fakeRPC{calls: make(map[string]int), errs: make(map[string]error)}
}

func (f *fakeRPC) BulkStockUpdate(_ context.Context, req dto.BulkUpdateRequest) (dto.BulkUpdateResponse, error) {
	f.calls["bulk"]++
	if err := f.errs["bulk"]; err != nil {
		return dto.BulkUpdateResponse{}, err
	}
	return dto.BulkUpdateResponse{WarehouseCode: req.WarehouseCode, Status: "COMPLETED"}, nil
}

func (f *fakeRPC) GetWarehouseStatus(_ context.Context, code string) (dto.WarehouseStatusResponse, error) {
	f.calls["status"]++
	if err := f.errs["status"]; err != nil {
		return dto.WarehouseStatusResponse{}, err
	}
	return dto.WarehouseStatusResponse{WarehouseCode: code, IsOperational: true}, nil
}

func newTestOrchestrator(rest *fakeREST, gql *fakeGraphQL, rpc *fakeRPC) *Orchestrator {
	return &Orchestrator{rest: rest, graphql: gql, rpc: rpc}
}

func TestCheckAvailability_NoRetryOnSuccess(t *testing.T) {
	rest := newFakeREST()
	rest.availability = dto.AvailabilityResponse{SKU: "SKU-1", IsAvailable: true, Status: "IN_STOCK"}
	o := newTestOrchestrator(rest, newFakeGraphQL(), newFakeRPC())

	resp, err := o.CheckAvailability(context.Background(), "SKU-1")
	require.NoError(t, err)

	assert.True(t, resp.IsAvailable)
	assert.Equal(t, 1, rest.calls["availability"])
}

func TestCheckAvailability_RetriesThenNormalizes(t *testing.T) {
	rest := newFakeREST()
	rest.fail("availability", transportErr())
	o := newTestOrchestrator(rest, newFakeGraphQL(), newFakeRPC())

	resp, err := o.CheckAvailability(context.Background(), "SKU-1")
	require.NoError(t, err)

	// One initial attempt plus availabilityRetries retries.
	assert.Equal(t, 1+availabilityRetries, rest.calls["availability"])
	assert.False(t, resp.IsAvailable)
	assert.Equal(t, "ERROR", resp.Status)
	assert.Equal(t, "SKU-1", resp.SKU)
	assert.Contains(t, resp.Message, "Unable to check availability")
}

func TestCheckAvailability_NonTransportErrorNotRetried(t *testing.T) {
	rest := newFakeREST()
	rest.fail("availability", apperror.NewNotFound("stock record", "SKU-1"))
	o := newTestOrchestrator(rest, newFakeGraphQL(), newFakeRPC())

	_, err := o.CheckAvailability(context.Background(), "SKU-1")
	require.Error(t, err)

	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 1, rest.calls["availability"])
}

func TestReserveStock_RetriesThenNormalizes(t *testing.T) {
	rest := newFakeREST()
	rest.fail("reserve", transportErr())
	o := newTestOrchestrator(rest, newFakeGraphQL(), newFakeRPC())

	resp, err := o.ReserveStock(context.Background(), dto.ReserveRequest{
		SKU:      "SKU-1",
		OrderID:  "ORD-1",
		Quantity: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 1+reserveRetries, rest.calls["reserve"])
	assert.False(t, resp.Success)
	assert.Equal(t, "FAILED", resp.Status)
	assert.Equal(t, "ORD-1", resp.OrderID)
	assert.Contains(t, resp.Message, "Unable to reserve stock")
}

func TestReserveStock_BusinessFailureNotRetried(t *testing.T) {
	// A 409 business outcome arrives as a normal response, not an error; the
	// orchestrator passes it through untouched.
	rest := newFakeREST()
	rest.reservation = dto.ReservationResponse{
		SKU:     "SKU-1",
		Status:  "FAILED",
		Success: false,
		Message: "Insufficient stock available. Requested: 5, Available: 2",
	}
	o := newTestOrchestrator(rest, newFakeGraphQL(), newFakeRPC())

	resp, err := o.ReserveStock(context.Background(), dto.ReserveRequest{
		SKU:      "SKU-1",
		OrderID:  "ORD-1",
		Quantity: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, rest.calls["reserve"])
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "Insufficient stock")
}

func TestSingleShotOperationsNormalizeTransportFailures(t *testing.T) {
	rest := newFakeREST()
	gql := newFakeGraphQL()
	rpc := newFakeRPC()
	for _, op := range []string{"cancel", "threshold", "price", "discontinue"} {
		rest.fail(op, transportErr())
	}
	gql.errs["details"] = transportErr()
	gql.errs["damaged"] = transportErr()
	rpc.errs["bulk"] = transportErr()
	rpc.errs["status"] = transportErr()
	o := newTestOrchestrator(rest, gql, rpc)
	ctx := context.Background()

	cancel, err := o.CancelReservation(ctx, "RES-1")
	require.NoError(t, err)
	assert.False(t, cancel.Success)
	assert.Equal(t, 1, rest.calls["cancel"])

	threshold, err := o.UpdateThreshold(ctx, "SKU-1", dto.ThresholdRequest{})
	require.NoError(t, err)
	assert.False(t, threshold.Success)
	assert.Equal(t, 1, rest.calls["threshold"])

	price, err := o.AdjustPrice(ctx, "SKU-1", dto.PriceAdjustmentRequest{})
	require.NoError(t, err)
	assert.False(t, price.Success)
	assert.Equal(t, 1, rest.calls["price"])

	discontinue, err := o.DiscontinueProduct(ctx, "SKU-1", dto.DiscontinueRequest{})
	require.NoError(t, err)
	assert.False(t, discontinue.Success)
	assert.Equal(t, 1, rest.calls["discontinue"])

	details, err := o.FetchProductDetails(ctx, "SKU-1")
	require.NoError(t, err)
	assert.False(t, details.Found)
	assert.Equal(t, 1, gql.calls["details"])

	damaged, err := o.RegisterDamagedReturn(ctx, dto.DamagedReturnRequest{SKU: "SKU-1"})
	require.NoError(t, err)
	assert.False(t, damaged.Success)
	assert.Equal(t, 1, gql.calls["damaged"])

	bulk, err := o.BulkStockUpdate(ctx, dto.BulkUpdateRequest{
		WarehouseCode: "WH-A",
		Items:         []dto.BulkItemRequest{{SKU: "SKU-1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "FAILED", bulk.Status)
	assert.Equal(t, 1, bulk.FailureCount)
	assert.Equal(t, 1, rpc.calls["bulk"])

	status, err := o.GetWarehouseStatus(ctx, "WH-A")
	require.NoError(t, err)
	assert.Equal(t, "WH-A", status.WarehouseCode)
	assert.Contains(t, status.Message, "Unable to fetch warehouse status")
	assert.Equal(t, 1, rpc.calls["status"])
}

func TestSearchStock_PropagatesTransportFailure(t *testing.T) {
	rest := newFakeREST()
	rest.fail("search", transportErr())
	o := newTestOrchestrator(rest, newFakeGraphQL(), newFakeRPC())

	_, err := o.SearchStock(context.Background(), dto.SearchRequest{SKU: "SKU"})
	require.Error(t, err)

	assert.True(t, apperror.IsTransport(err))
	assert.Equal(t, 1, rest.calls["search"])
}

func TestOperationsRouteToExpectedClients(t *testing.T) {
	rest := newFakeREST()
	gql := newFakeGraphQL()
	rpc := newFakeRPC()
	o := newTestOrchestrator(rest, gql, rpc)
	ctx := context.Background()

	details, err := o.FetchProductDetails(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, details.Found)

	bulk, err := o.BulkStockUpdate(ctx, dto.BulkUpdateRequest{WarehouseCode: "WH-A"})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", bulk.Status)

	status, err := o.GetWarehouseStatus(ctx, "WH-A")
	require.NoError(t, err)
	assert.True(t, status.IsOperational)

	assert.Empty(t, rest.calls)
	assert.Equal(t, 1, gql.calls["details"])
	assert.Equal(t, 1, rpc.calls["bulk"])
	assert.Equal(t, 1, rpc.calls["status"])
}
