package product

import (
	"context"
)

// Repository defines persistence for the product catalog.
type Repository interface {
	// GetBySKU returns a product or a NotFound error.
	GetBySKU(ctx context.Context, sku string) (Product, error)

	// Save updates an existing product.
	Save(ctx context.Context, p Product) error
}
