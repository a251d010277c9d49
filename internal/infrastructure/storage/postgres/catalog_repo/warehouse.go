package catalog_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"stockhub/internal/core/apperror"
	"stockhub/internal/domain/catalog/warehouse"
	"stockhub/internal/infrastructure/storage/postgres"
)

const warehouseTable = "warehouses"

const warehouseColumns = `warehouse_code, warehouse_name, location, region,
	status, total_capacity, used_capacity, contact_person, contact_email,
	contact_phone, is_operational, last_inventory_check`

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	txManager *postgres.TxManager
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txManager *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{txManager: txManager}
}

// GetByCode returns a warehouse or a NotFound error.
func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (warehouse.Warehouse, error) {
	sql := `SELECT ` + warehouseColumns + `
		FROM ` + warehouseTable + `
		WHERE warehouse_code = $1`

	var wh warehouse.Warehouse
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &wh, sql, code); err != nil {
		if pgxscan.NotFound(err) {
			return warehouse.Warehouse{}, apperror.NewNotFound("warehouse", code)
		}
		return warehouse.Warehouse{}, fmt.Errorf("get warehouse: %w", err)
	}
	return wh, nil
}
