// Package graphql provides the typed query/mutation document binding for the
// inventory service.
package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"stockhub/internal/domain/catalog/product"
	"stockhub/internal/domain/damaged"
	"stockhub/internal/infrastructure/http/v1/dto"
)

// productDetailsType mirrors dto.ProductDetailsResponse.
var productDetailsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductDetails",
	Fields: graphql.Fields{
		"sku":               {Type: graphql.NewNonNull(graphql.String)},
		"productName":       {Type: graphql.String},
		"description":       {Type: graphql.String},
		"category":          {Type: graphql.String},
		"brand":             {Type: graphql.String},
		"unitPrice":         {Type: graphql.String},
		"currency":          {Type: graphql.String},
		"unitOfMeasure":     {Type: graphql.String},
		"weight":            {Type: graphql.Float},
		"dimensions":        {Type: graphql.String},
		"stockCount":        {Type: graphql.Int},
		"reservedCount":     {Type: graphql.Int},
		"availableCount":    {Type: graphql.Int},
		"stockStatus":       {Type: graphql.String},
		"warehouseCode":     {Type: graphql.String},
		"warehouseName":     {Type: graphql.String},
		"warehouseLocation": {Type: graphql.String},
		"warehouseRegion":   {Type: graphql.String},
		"aisle":             {Type: graphql.String},
		"shelf":             {Type: graphql.String},
		"bin":               {Type: graphql.String},
		"lastStockUpdate":   {Type: graphql.DateTime},
		"lastPriceUpdate":   {Type: graphql.DateTime},
		"isActive":          {Type: graphql.Boolean},
		"found":             {Type: graphql.Boolean},
		"message":           {Type: graphql.String},
	},
})

// damagedReturnType mirrors dto.DamagedReturnResponse.
var damagedReturnType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DamagedReturn",
	Fields: graphql.Fields{
		"returnId":          {Type: graphql.String},
		"sku":               {Type: graphql.NewNonNull(graphql.String)},
		"quantity":          {Type: graphql.Int},
		"damageType":        {Type: graphql.String},
		"damageDescription": {Type: graphql.String},
		"warehouseCode":     {Type: graphql.String},
		"reportedBy":        {Type: graphql.String},
		"reportedAt":        {Type: graphql.DateTime},
		"status":            {Type: graphql.String},
		"notes":             {Type: graphql.String},
		"success":           {Type: graphql.NewNonNull(graphql.Boolean)},
		"message":           {Type: graphql.String},
	},
})

// NewSchema builds the inventory GraphQL schema over the given services.
func NewSchema(products *product.Service, returns *damaged.Service) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"productDetails": &graphql.Field{
				Type: productDetailsType,
				Args: graphql.FieldConfigArgument{
					"sku": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					sku, _ := p.Args["sku"].(string)
					details, err := products.Details(p.Context, sku)
					if err != nil {
						return nil, err
					}
					return dto.FromProductDetails(details), nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"registerDamagedReturn": &graphql.Field{
				Type: damagedReturnType,
				Args: graphql.FieldConfigArgument{
					"sku":               &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"quantity":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"damageType":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"damageDescription": &graphql.ArgumentConfig{Type: graphql.String},
					"warehouseCode":     &graphql.ArgumentConfig{Type: graphql.String},
					"reportedBy":        &graphql.ArgumentConfig{Type: graphql.String},
					"notes":             &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					req := damaged.Request{
						SKU:               stringArg(p, "sku"),
						Quantity:          intArg(p, "quantity"),
						DamageType:        stringArg(p, "damageType"),
						DamageDescription: stringArg(p, "damageDescription"),
						WarehouseCode:     stringArg(p, "warehouseCode"),
						ReportedBy:        stringArg(p, "reportedBy"),
						Notes:             stringArg(p, "notes"),
					}
					result, err := returns.Register(p.Context, req)
					if err != nil {
						return nil, err
					}
					return dto.FromDamagedResult(result), nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("build graphql schema: %w", err)
	}
	return schema, nil
}

func stringArg(p graphql.ResolveParams, key string) string {
	if v, ok := p.Args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(p graphql.ResolveParams, key string) int {
	if v, ok := p.Args[key].(int); ok {
		return v
	}
	return 0
}
