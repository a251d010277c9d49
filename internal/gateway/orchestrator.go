package gateway

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"stockhub/internal/core/apperror"
	"stockhub/internal/core/servicetoken"
	"stockhub/internal/infrastructure/http/v1/dto"
	"stockhub/pkg/logger"
)

// StockOperations is the canonical operation surface exposed to shops,
// protocol-independent. One method per business capability.
type StockOperations interface {
	CheckAvailability(ctx context.Context, sku string) (dto.AvailabilityResponse, error)
	ReserveStock(ctx context.Context, req dto.ReserveRequest) (dto.ReservationResponse, error)
	CancelReservation(ctx context.Context, reservationID string) (dto.ReservationResponse, error)
	UpdateThreshold(ctx context.Context, sku string, req dto.ThresholdRequest) (dto.ThresholdResponse, error)
	BulkStockUpdate(ctx context.Context, req dto.BulkUpdateRequest) (dto.BulkUpdateResponse, error)
	GetWarehouseStatus(ctx context.Context, warehouseCode string) (dto.WarehouseStatusResponse, error)
	FetchProductDetails(ctx context.Context, sku string) (dto.ProductDetailsResponse, error)
	RegisterDamagedReturn(ctx context.Context, req dto.DamagedReturnRequest) (dto.DamagedReturnResponse, error)
	AdjustPrice(ctx context.Context, sku string, req dto.PriceAdjustmentRequest) (dto.PriceAdjustmentResponse, error)
	DiscontinueProduct(ctx context.Context, sku string, req dto.DiscontinueRequest) (dto.DiscontinueResponse, error)
	SearchStock(ctx context.Context, req dto.SearchRequest) (dto.ListResponse, error)
}

// Downstream client surfaces, satisfied by the protocol clients and by test
// fakes.
type restOperations interface {
	CheckAvailability(ctx context.Context, sku string) (dto.AvailabilityResponse, error)
	ReserveStock(ctx context.Context, req dto.ReserveRequest) (dto.ReservationResponse, error)
	CancelReservation(ctx context.Context, reservationID string) (dto.ReservationResponse, error)
	UpdateThreshold(ctx context.Context, sku string, req dto.ThresholdRequest) (dto.ThresholdResponse, error)
	AdjustPrice(ctx context.Context, sku string, req dto.PriceAdjustmentRequest) (dto.PriceAdjustmentResponse, error)
	DiscontinueProduct(ctx context.Context, sku string, req dto.DiscontinueRequest) (dto.DiscontinueResponse, error)
	SearchStock(ctx context.Context, req dto.SearchRequest) (dto.ListResponse, error)
}

type graphqlOperations interface {
	FetchProductDetails(ctx context.Context, sku string) (dto.ProductDetailsResponse, error)
	RegisterDamagedReturn(ctx context.Context, req dto.DamagedReturnRequest) (dto.DamagedReturnResponse, error)
}

type rpcOperations interface {
	BulkStockUpdate(ctx context.Context, req dto.BulkUpdateRequest) (dto.BulkUpdateResponse, error)
	GetWarehouseStatus(ctx context.Context, warehouseCode string) (dto.WarehouseStatusResponse, error)
}

// Retry policy per operation class. Retries count attempts after the first.
const (
	availabilityRetries       = 3
	availabilityRetryInterval = time.Second

	reserveRetries       = 2
	reserveRetryInterval = 500 * time.Millisecond
)

// Orchestrator implements StockOperations over the three protocol clients.
//
// Availability reads retry with exponential backoff; reservation writes retry
// with a short fixed backoff; everything else goes downstream once. Transport
// failures normalize to success=false result values for every operation
// except SearchStock, which raises them so pagination errors stay visible.
type Orchestrator struct {
	rest    restOperations
	graphql graphqlOperations
	rpc     rpcOperations
}

// Config holds gateway orchestrator configuration.
type Config struct {
	// InventoryBaseURL is the inventory service address.
	InventoryBaseURL string

	// TokenIssuer signs service tokens for downstream calls.
	TokenIssuer *servicetoken.Issuer
}

// NewOrchestrator wires the three protocol clients against one inventory
// service address.
func NewOrchestrator(cfg Config) *Orchestrator {
	return &Orchestrator{
		rest:    newRESTClient(cfg.InventoryBaseURL, cfg.TokenIssuer),
		graphql: newGraphQLClient(cfg.InventoryBaseURL, cfg.TokenIssuer),
		rpc:     newRPCClient(cfg.InventoryBaseURL, cfg.TokenIssuer),
	}
}

// retryTransport runs op, retrying only transport failures per the given
// backoff. Any other error aborts immediately.
func retryTransport[T any](ctx context.Context, policy backoff.BackOff, op func() (T, error)) (T, error) {
	return backoff.RetryWithData(func() (T, error) {
		result, err := op()
		if err != nil && !apperror.IsTransport(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}, backoff.WithContext(policy, ctx))
}

func availabilityBackoff() backoff.BackOff {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = availabilityRetryInterval
	return backoff.WithMaxRetries(expo, availabilityRetries)
}

func reserveBackoff() backoff.BackOff {
	return backoff.WithMaxRetries(
		backoff.NewConstantBackOff(reserveRetryInterval), reserveRetries)
}

// CheckAvailability retries transport failures up to 3 times with exponential
// backoff, then normalizes.
func (o *Orchestrator) CheckAvailability(ctx context.Context, sku string) (dto.AvailabilityResponse, error) {
	resp, err := retryTransport(ctx, availabilityBackoff(), func() (dto.AvailabilityResponse, error) {
		return o.rest.CheckAvailability(ctx, sku)
	})
	if err != nil {
		if apperror.IsTransport(err) {
			logger.Warn(ctx, "availability check failed downstream", "sku", sku, "error", err)
			return dto.AvailabilityResponse{
				SKU:         sku,
				IsAvailable: false,
				Status:      "ERROR",
				Message:     "Unable to check availability: " + err.Error(),
			}, nil
		}
		return dto.AvailabilityResponse{}, err
	}
	return resp, nil
}

// ReserveStock retries transport failures up to 2 times with a fixed 500ms
// backoff, then normalizes.
func (o *Orchestrator) ReserveStock(ctx context.Context, req dto.ReserveRequest) (dto.ReservationResponse, error) {
	resp, err := retryTransport(ctx, reserveBackoff(), func() (dto.ReservationResponse, error) {
		return o.rest.ReserveStock(ctx, req)
	})
	if err != nil {
		if apperror.IsTransport(err) {
			logger.Warn(ctx, "reservation failed downstream", "sku", req.SKU, "error", err)
			return dto.ReservationResponse{
				SKU:     req.SKU,
				OrderID: req.OrderID,
				Status:  "FAILED",
				Success: false,
				Message: "Unable to reserve stock: " + err.Error(),
			}, nil
		}
		return dto.ReservationResponse{}, err
	}
	return resp, nil
}

// CancelReservation goes downstream once; transport failures normalize.
func (o *Orchestrator) CancelReservation(ctx context.Context, reservationID string) (dto.ReservationResponse, error) {
	resp, err := o.rest.CancelReservation(ctx, reservationID)
	if err != nil {
		if apperror.IsTransport(err) {
			return dto.ReservationResponse{
				ReservationID: reservationID,
				Status:        "FAILED",
				Success:       false,
				Message:       "Unable to cancel reservation: " + err.Error(),
			}, nil
		}
		return dto.ReservationResponse{}, err
	}
	return resp, nil
}

// UpdateThreshold goes downstream once; transport failures normalize.
func (o *Orchestrator) UpdateThreshold(ctx context.Context, sku string, req dto.ThresholdRequest) (dto.ThresholdResponse, error) {
	resp, err := o.rest.UpdateThreshold(ctx, sku, req)
	if err != nil {
		if apperror.IsTransport(err) {
			return dto.ThresholdResponse{
				SKU:     sku,
				Success: false,
				Message: "Unable to update threshold: " + err.Error(),
			}, nil
		}
		return dto.ThresholdResponse{}, err
	}
	return resp, nil
}

// BulkStockUpdate goes downstream once over the envelope binding; transport
// failures normalize.
func (o *Orchestrator) BulkStockUpdate(ctx context.Context, req dto.BulkUpdateRequest) (dto.BulkUpdateResponse, error) {
	resp, err := o.rpc.BulkStockUpdate(ctx, req)
	if err != nil {
		if apperror.IsTransport(err) {
			return dto.BulkUpdateResponse{
				WarehouseCode: req.WarehouseCode,
				TotalItems:    len(req.Items),
				FailureCount:  len(req.Items),
				Status:        "FAILED",
				Message:       "Unable to process bulk update: " + err.Error(),
			}, nil
		}
		return dto.BulkUpdateResponse{}, err
	}
	return resp, nil
}

// GetWarehouseStatus goes downstream once over the envelope binding; transport
// failures normalize.
func (o *Orchestrator) GetWarehouseStatus(ctx context.Context, warehouseCode string) (dto.WarehouseStatusResponse, error) {
	resp, err := o.rpc.GetWarehouseStatus(ctx, warehouseCode)
	if err != nil {
		if apperror.IsTransport(err) {
			return dto.WarehouseStatusResponse{
				WarehouseCode: warehouseCode,
				Message:       "Unable to fetch warehouse status: " + err.Error(),
			}, nil
		}
		return dto.WarehouseStatusResponse{}, err
	}
	return resp, nil
}

// FetchProductDetails goes downstream once over the document binding;
// transport failures normalize.
func (o *Orchestrator) FetchProductDetails(ctx context.Context, sku string) (dto.ProductDetailsResponse, error) {
	resp, err := o.graphql.FetchProductDetails(ctx, sku)
	if err != nil {
		if apperror.IsTransport(err) {
			return dto.ProductDetailsResponse{
				SKU:     sku,
				Found:   false,
				Message: "Unable to fetch product details: " + err.Error(),
			}, nil
		}
		return dto.ProductDetailsResponse{}, err
	}
	return resp, nil
}

// RegisterDamagedReturn goes downstream once over the document binding;
// transport failures normalize.
func (o *Orchestrator) RegisterDamagedReturn(ctx context.Context, req dto.DamagedReturnRequest) (dto.DamagedReturnResponse, error) {
	resp, err := o.graphql.RegisterDamagedReturn(ctx, req)
	if err != nil {
		if apperror.IsTransport(err) {
			return dto.DamagedReturnResponse{
				SKU:     req.SKU,
				Success: false,
				Message: "Unable to register damaged return: " + err.Error(),
			}, nil
		}
		return dto.DamagedReturnResponse{}, err
	}
	return resp, nil
}

// AdjustPrice goes downstream once; transport failures normalize.
func (o *Orchestrator) AdjustPrice(ctx context.Context, sku string, req dto.PriceAdjustmentRequest) (dto.PriceAdjustmentResponse, error) {
	resp, err := o.rest.AdjustPrice(ctx, sku, req)
	if err != nil {
		if apperror.IsTransport(err) {
			return dto.PriceAdjustmentResponse{
				SKU:     sku,
				Success: false,
				Message: "Unable to adjust price: " + err.Error(),
			}, nil
		}
		return dto.PriceAdjustmentResponse{}, err
	}
	return resp, nil
}

// DiscontinueProduct goes downstream once; transport failures normalize.
func (o *Orchestrator) DiscontinueProduct(ctx context.Context, sku string, req dto.DiscontinueRequest) (dto.DiscontinueResponse, error) {
	resp, err := o.rest.DiscontinueProduct(ctx, sku, req)
	if err != nil {
		if apperror.IsTransport(err) {
			return dto.DiscontinueResponse{
				SKU:     sku,
				Success: false,
				Message: "Unable to discontinue product: " + err.Error(),
			}, nil
		}
		return dto.DiscontinueResponse{}, err
	}
	return resp, nil
}

// SearchStock is the one operation whose transport failures propagate to the
// caller instead of normalizing, so pagination errors stay visible.
func (o *Orchestrator) SearchStock(ctx context.Context, req dto.SearchRequest) (dto.ListResponse, error) {
	return o.rest.SearchStock(ctx, req)
}
