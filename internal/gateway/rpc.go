package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"stockhub/internal/core/apperror"
	"stockhub/internal/core/servicetoken"
	"stockhub/internal/infrastructure/http/v1/dto"
	"stockhub/internal/infrastructure/rpc"
)

// rpcClient speaks the named-procedure envelope binding.
type rpcClient struct {
	http *httpClient
}

func newRPCClient(baseURL string, issuer *servicetoken.Issuer) *rpcClient {
	return &rpcClient{http: newHTTPClient(baseURL, issuer)}
}

// call wraps a payload in an envelope and unwraps the result into out.
func (c *rpcClient) call(ctx context.Context, procedure string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return apperror.NewTransport(procedure, err)
	}

	var resp struct {
		Procedure string          `json:"procedure"`
		Result    json.RawMessage `json:"result"`
	}
	err = c.http.doJSON(ctx, http.MethodPost, "/rpc",
		rpc.Envelope{Procedure: procedure, Payload: raw}, &resp)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Result, out); err != nil {
		return apperror.NewTransport(procedure, fmt.Errorf("decode result: %w", err))
	}
	return nil
}

func (c *rpcClient) BulkStockUpdate(ctx context.Context, req dto.BulkUpdateRequest) (dto.BulkUpdateResponse, error) {
	var resp dto.BulkUpdateResponse
	err := c.call(ctx, rpc.ProcBulkStockUpdate, req, &resp)
	return resp, err
}

func (c *rpcClient) GetWarehouseStatus(ctx context.Context, warehouseCode string) (dto.WarehouseStatusResponse, error) {
	var resp dto.WarehouseStatusResponse
	err := c.call(ctx, rpc.ProcGetWarehouseStatus,
		map[string]string{"warehouseCode": warehouseCode}, &resp)
	return resp, err
}
