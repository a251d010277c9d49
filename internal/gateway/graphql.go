package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"stockhub/internal/core/apperror"
	"stockhub/internal/core/servicetoken"
	"stockhub/internal/infrastructure/http/v1/dto"
)

// graphqlClient speaks the typed query/mutation document binding.
type graphqlClient struct {
	http *httpClient
}

func newGraphQLClient(baseURL string, issuer *servicetoken.Issuer) *graphqlClient {
	return &graphqlClient{http: newHTTPClient(baseURL, issuer)}
}

// graphqlRequest is the standard GraphQL POST body.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlResponse is the standard GraphQL reply envelope.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

const productDetailsQuery = `query ProductDetails($sku: String!) {
  productDetails(sku: $sku) {
    sku productName description category brand unitPrice currency
    unitOfMeasure weight dimensions stockCount reservedCount availableCount
    stockStatus warehouseCode warehouseName warehouseLocation warehouseRegion
    aisle shelf bin lastStockUpdate lastPriceUpdate isActive found message
  }
}`

const registerDamagedReturnMutation = `mutation RegisterDamagedReturn(
  $sku: String!, $quantity: Int!, $damageType: String!,
  $damageDescription: String, $warehouseCode: String,
  $reportedBy: String, $notes: String
) {
  registerDamagedReturn(
    sku: $sku, quantity: $quantity, damageType: $damageType,
    damageDescription: $damageDescription, warehouseCode: $warehouseCode,
    reportedBy: $reportedBy, notes: $notes
  ) {
    returnId sku quantity damageType damageDescription warehouseCode
    reportedBy reportedAt status notes success message
  }
}`

// execute posts a document and unwraps the data field named by key into out.
func (c *graphqlClient) execute(ctx context.Context, operation, query string, variables map[string]any, key string, out any) error {
	var resp graphqlResponse
	err := c.http.doJSON(ctx, http.MethodPost, "/graphql",
		graphqlRequest{Query: query, Variables: variables}, &resp)
	if err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return apperror.NewTransport(operation, fmt.Errorf("graphql error: %s", resp.Errors[0].Message))
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return apperror.NewTransport(operation, fmt.Errorf("decode data: %w", err))
	}
	raw, ok := data[key]
	if !ok || string(raw) == "null" {
		return apperror.NewTransport(operation, fmt.Errorf("missing %s in response", key))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperror.NewTransport(operation, fmt.Errorf("decode %s: %w", key, err))
	}
	return nil
}

func (c *graphqlClient) FetchProductDetails(ctx context.Context, sku string) (dto.ProductDetailsResponse, error) {
	var resp dto.ProductDetailsResponse
	err := c.execute(ctx, "fetchProductDetails", productDetailsQuery,
		map[string]any{"sku": sku}, "productDetails", &resp)
	return resp, err
}

func (c *graphqlClient) RegisterDamagedReturn(ctx context.Context, req dto.DamagedReturnRequest) (dto.DamagedReturnResponse, error) {
	variables := map[string]any{
		"sku":               req.SKU,
		"quantity":          req.Quantity,
		"damageType":        req.DamageType,
		"damageDescription": req.DamageDescription,
		"warehouseCode":     req.WarehouseCode,
		"reportedBy":        req.ReportedBy,
		"notes":             req.Notes,
	}
	var resp dto.DamagedReturnResponse
	err := c.execute(ctx, "registerDamagedReturn", registerDamagedReturnMutation,
		variables, "registerDamagedReturn", &resp)
	return resp, err
}
