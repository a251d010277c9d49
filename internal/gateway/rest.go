package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"stockhub/internal/core/servicetoken"
	"stockhub/internal/infrastructure/http/v1/dto"
)

// restClient speaks the flat-object REST binding of the inventory service.
type restClient struct {
	http *httpClient
}

func newRESTClient(baseURL string, issuer *servicetoken.Issuer) *restClient {
	return &restClient{http: newHTTPClient(baseURL, issuer)}
}

func (c *restClient) CheckAvailability(ctx context.Context, sku string) (dto.AvailabilityResponse, error) {
	var resp dto.AvailabilityResponse
	err := c.http.doJSON(ctx, http.MethodGet, "/api/v1/inventory/availability/"+url.PathEscape(sku), nil, &resp)
	return resp, err
}

func (c *restClient) ReserveStock(ctx context.Context, req dto.ReserveRequest) (dto.ReservationResponse, error) {
	var resp dto.ReservationResponse
	// Business failures arrive as 409 with the same response shape.
	err := c.http.doJSON(ctx, http.MethodPost, "/api/v1/inventory/reservations", req, &resp,
		http.StatusCreated, http.StatusConflict)
	return resp, err
}

func (c *restClient) CancelReservation(ctx context.Context, reservationID string) (dto.ReservationResponse, error) {
	var resp dto.ReservationResponse
	err := c.http.doJSON(ctx, http.MethodPost,
		"/api/v1/inventory/reservations/"+url.PathEscape(reservationID)+"/cancel", nil, &resp)
	return resp, err
}

func (c *restClient) UpdateThreshold(ctx context.Context, sku string, req dto.ThresholdRequest) (dto.ThresholdResponse, error) {
	var resp dto.ThresholdResponse
	err := c.http.doJSON(ctx, http.MethodPut, "/api/v1/inventory/thresholds/"+url.PathEscape(sku), req, &resp)
	return resp, err
}

func (c *restClient) AdjustPrice(ctx context.Context, sku string, req dto.PriceAdjustmentRequest) (dto.PriceAdjustmentResponse, error) {
	var resp dto.PriceAdjustmentResponse
	err := c.http.doJSON(ctx, http.MethodPut, "/api/v1/products/"+url.PathEscape(sku)+"/price", req, &resp)
	return resp, err
}

func (c *restClient) DiscontinueProduct(ctx context.Context, sku string, req dto.DiscontinueRequest) (dto.DiscontinueResponse, error) {
	var resp dto.DiscontinueResponse
	err := c.http.doJSON(ctx, http.MethodPost, "/api/v1/products/"+url.PathEscape(sku)+"/discontinue", req, &resp)
	return resp, err
}

func (c *restClient) SearchStock(ctx context.Context, req dto.SearchRequest) (dto.ListResponse, error) {
	q := url.Values{}
	if req.SKU != "" {
		q.Set("sku", req.SKU)
	}
	if req.WarehouseCode != "" {
		q.Set("warehouseCode", req.WarehouseCode)
	}
	if req.Status != "" {
		q.Set("status", req.Status)
	}
	if req.MinQuantity != nil {
		q.Set("minQuantity", strconv.Itoa(*req.MinQuantity))
	}
	if req.MaxQuantity != nil {
		q.Set("maxQuantity", strconv.Itoa(*req.MaxQuantity))
	}
	if req.SortBy != "" {
		q.Set("sortBy", req.SortBy)
	}
	if req.SortDesc {
		q.Set("sortDesc", "true")
	}
	q.Set("page", strconv.Itoa(req.Page))
	q.Set("size", strconv.Itoa(req.Size))

	var resp dto.ListResponse
	err := c.http.doJSON(ctx, http.MethodGet, "/api/v1/inventory/search?"+q.Encode(), nil, &resp)
	return resp, err
}
