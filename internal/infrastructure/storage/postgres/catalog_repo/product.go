// Package catalog_repo provides PostgreSQL implementations of the product and
// warehouse catalog repositories.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"stockhub/internal/core/apperror"
	"stockhub/internal/domain/catalog/product"
	"stockhub/internal/infrastructure/storage/postgres"
)

const productTable = "products"

const productColumns = `sku, product_name, description, category, brand,
	unit_price, currency, unit_of_measure, weight, dimensions,
	is_active, discontinued_at, discontinued_reason, created_at, updated_at`

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txManager *postgres.TxManager
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{txManager: txManager}
}

// GetBySKU returns a product or a NotFound error.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (product.Product, error) {
	sql := `SELECT ` + productColumns + `
		FROM ` + productTable + `
		WHERE sku = $1`

	var p product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, sku); err != nil {
		if pgxscan.NotFound(err) {
			return product.Product{}, apperror.NewNotFound("product", sku)
		}
		return product.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Save updates an existing product.
func (r *ProductRepo) Save(ctx context.Context, p product.Product) error {
	sql := `UPDATE ` + productTable + `
		SET product_name = $2,
		    description = $3,
		    category = $4,
		    brand = $5,
		    unit_price = $6,
		    currency = $7,
		    unit_of_measure = $8,
		    weight = $9,
		    dimensions = $10,
		    is_active = $11,
		    discontinued_at = $12,
		    discontinued_reason = $13,
		    updated_at = NOW()
		WHERE sku = $1`

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql,
		p.SKU, p.Name, p.Description, p.Category, p.Brand,
		p.UnitPrice, p.Currency, p.UnitOfMeasure, p.Weight, p.Dimensions,
		p.IsActive, p.DiscontinuedAt, p.DiscontinuedReason,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.SKU)
	}
	return nil
}
