// Package stock_repo provides the PostgreSQL implementation of the stock
// ledger repository.
package stock_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockhub/internal/core/apperror"
	"stockhub/internal/domain/stock"
	"stockhub/internal/infrastructure/storage/postgres"
)

const stockTable = "stock_records"

const stockColumns = `sku, warehouse_code, quantity, reserved_quantity,
	min_threshold, max_threshold, reorder_point, reorder_quantity, auto_reorder,
	aisle, shelf, bin, stock_status, created_at, updated_at`

// Repo implements stock.Repository.
type Repo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewRepo creates a new stock ledger repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetBySKU returns all rows for the SKU ordered by warehouse code.
func (r *Repo) GetBySKU(ctx context.Context, sku string) ([]stock.Record, error) {
	sql := `SELECT ` + stockColumns + `
		FROM ` + stockTable + `
		WHERE sku = $1
		ORDER BY warehouse_code`

	var records []stock.Record
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &records, sql, sku); err != nil {
		return nil, fmt.Errorf("select stock records: %w", err)
	}
	return records, nil
}

// GetBySKUAndWarehouse returns a single row or a NotFound error.
func (r *Repo) GetBySKUAndWarehouse(ctx context.Context, sku, warehouseCode string) (stock.Record, error) {
	sql := `SELECT ` + stockColumns + `
		FROM ` + stockTable + `
		WHERE sku = $1 AND warehouse_code = $2`

	var rec stock.Record
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, sku, warehouseCode); err != nil {
		if pgxscan.NotFound(err) {
			return stock.Record{}, apperror.NewNotFound("stock record", sku+"/"+warehouseCode)
		}
		return stock.Record{}, fmt.Errorf("get stock record: %w", err)
	}
	return rec, nil
}

// GetForUpdate returns a single row locked until the enclosing transaction
// ends, or a NotFound error.
func (r *Repo) GetForUpdate(ctx context.Context, sku, warehouseCode string) (stock.Record, error) {
	sql := `SELECT ` + stockColumns + `
		FROM ` + stockTable + `
		WHERE sku = $1 AND warehouse_code = $2
		FOR UPDATE`

	var rec stock.Record
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, sku, warehouseCode); err != nil {
		if pgxscan.NotFound(err) {
			return stock.Record{}, apperror.NewNotFound("stock record", sku+"/"+warehouseCode)
		}
		return stock.Record{}, fmt.Errorf("get stock record for update: %w", err)
	}
	return rec, nil
}

// Upsert creates or replaces a row. On conflict the existing reserved_quantity
// is kept and the status is recomputed against it, so holds taken by
// concurrent writers are never erased.
func (r *Repo) Upsert(ctx context.Context, rec stock.Record) (stock.Record, error) {
	sql := `INSERT INTO ` + stockTable + ` (
			sku, warehouse_code, quantity, reserved_quantity,
			min_threshold, max_threshold, reorder_point, reorder_quantity, auto_reorder,
			aisle, shelf, bin, stock_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		ON CONFLICT (sku, warehouse_code) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			min_threshold = EXCLUDED.min_threshold,
			max_threshold = EXCLUDED.max_threshold,
			reorder_point = EXCLUDED.reorder_point,
			reorder_quantity = EXCLUDED.reorder_quantity,
			auto_reorder = EXCLUDED.auto_reorder,
			stock_status = CASE
				WHEN EXCLUDED.quantity - ` + stockTable + `.reserved_quantity <= 0 THEN 'OUT_OF_STOCK'
				WHEN EXCLUDED.quantity - ` + stockTable + `.reserved_quantity <= EXCLUDED.min_threshold THEN 'LOW_STOCK'
				ELSE 'IN_STOCK'
			END,
			updated_at = NOW()
		RETURNING ` + stockColumns

	var saved stock.Record
	querier := r.txManager.GetQuerier(ctx)
	err := pgxscan.Get(ctx, querier, &saved, sql,
		rec.SKU, rec.WarehouseCode, rec.Quantity, rec.ReservedQuantity,
		rec.MinThreshold, rec.MaxThreshold, rec.ReorderPoint, rec.ReorderQuantity, rec.AutoReorder,
		rec.Aisle, rec.Shelf, rec.Bin, rec.Status,
	)
	if err != nil {
		return stock.Record{}, fmt.Errorf("upsert stock record: %w", err)
	}
	return saved, nil
}

// Hold atomically increments reserved_quantity, guarded by the no-oversell
// post-condition. The guard lives in the WHERE clause so two racing holds can
// never both succeed past the row's free quantity.
func (r *Repo) Hold(ctx context.Context, sku, warehouseCode string, qty int) (stock.Record, error) {
	sql := `UPDATE ` + stockTable + `
		SET reserved_quantity = reserved_quantity + $3,
		    stock_status = CASE
		        WHEN quantity - (reserved_quantity + $3) <= 0 THEN 'OUT_OF_STOCK'
		        WHEN quantity - (reserved_quantity + $3) <= min_threshold THEN 'LOW_STOCK'
		        ELSE 'IN_STOCK'
		    END,
		    updated_at = NOW()
		WHERE sku = $1 AND warehouse_code = $2
		  AND reserved_quantity + $3 <= quantity
		RETURNING ` + stockColumns

	var rec stock.Record
	querier := r.txManager.GetQuerier(ctx)
	err := pgxscan.Get(ctx, querier, &rec, sql, sku, warehouseCode, qty)
	if err == nil {
		return rec, nil
	}
	if !pgxscan.NotFound(err) {
		return stock.Record{}, fmt.Errorf("hold stock: %w", err)
	}

	// Distinguish a missing row from an insufficient one.
	existing, getErr := r.GetBySKUAndWarehouse(ctx, sku, warehouseCode)
	if getErr != nil {
		return stock.Record{}, getErr
	}
	return stock.Record{}, apperror.NewInsufficientStock(sku, qty, existing.Available())
}

// Release atomically decrements reserved_quantity, floored at zero.
func (r *Repo) Release(ctx context.Context, sku, warehouseCode string, qty int) (stock.Record, error) {
	sql := `UPDATE ` + stockTable + `
		SET reserved_quantity = GREATEST(0, reserved_quantity - $3),
		    stock_status = CASE
		        WHEN quantity - GREATEST(0, reserved_quantity - $3) <= 0 THEN 'OUT_OF_STOCK'
		        WHEN quantity - GREATEST(0, reserved_quantity - $3) <= min_threshold THEN 'LOW_STOCK'
		        ELSE 'IN_STOCK'
		    END,
		    updated_at = NOW()
		WHERE sku = $1 AND warehouse_code = $2
		RETURNING ` + stockColumns

	var rec stock.Record
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, sku, warehouseCode, qty); err != nil {
		if pgxscan.NotFound(err) {
			return stock.Record{}, apperror.NewNotFound("stock record", sku+"/"+warehouseCode)
		}
		return stock.Record{}, fmt.Errorf("release stock: %w", err)
	}
	return rec, nil
}

// RemoveQuantity decrements quantity, floored at zero, reserved untouched.
func (r *Repo) RemoveQuantity(ctx context.Context, sku, warehouseCode string, qty int) (stock.Record, error) {
	sql := `UPDATE ` + stockTable + `
		SET quantity = GREATEST(0, quantity - $3),
		    stock_status = CASE
		        WHEN GREATEST(0, quantity - $3) - reserved_quantity <= 0 THEN 'OUT_OF_STOCK'
		        WHEN GREATEST(0, quantity - $3) - reserved_quantity <= min_threshold THEN 'LOW_STOCK'
		        ELSE 'IN_STOCK'
		    END,
		    updated_at = NOW()
		WHERE sku = $1 AND warehouse_code = $2
		RETURNING ` + stockColumns

	var rec stock.Record
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, sku, warehouseCode, qty); err != nil {
		if pgxscan.NotFound(err) {
			return stock.Record{}, apperror.NewNotFound("stock record", sku+"/"+warehouseCode)
		}
		return stock.Record{}, fmt.Errorf("remove stock quantity: %w", err)
	}
	return rec, nil
}

// UpdateThresholds applies threshold configuration to the SKU's rows.
func (r *Repo) UpdateThresholds(ctx context.Context, sku string, upd stock.ThresholdUpdate) (int, error) {
	sql := `UPDATE ` + stockTable + `
		SET min_threshold = $2,
		    max_threshold = $3,
		    reorder_point = $4,
		    reorder_quantity = $5,
		    auto_reorder = $6,
		    stock_status = CASE
		        WHEN quantity - reserved_quantity <= 0 THEN 'OUT_OF_STOCK'
		        WHEN quantity - reserved_quantity <= $2 THEN 'LOW_STOCK'
		        ELSE 'IN_STOCK'
		    END,
		    updated_at = NOW()
		WHERE sku = $1`
	args := []any{sku, upd.MinThreshold, upd.MaxThreshold, upd.ReorderPoint, upd.ReorderQuantity, upd.AutoReorder}

	if upd.WarehouseCode != nil {
		sql += ` AND warehouse_code = $7`
		args = append(args, *upd.WarehouseCode)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("update thresholds: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Search returns a page of rows plus the total match count.
func (r *Repo) Search(ctx context.Context, filter stock.SearchFilter) ([]stock.Record, int64, error) {
	where := squirrel.And{}
	if filter.SKU != "" {
		where = append(where, squirrel.ILike{"sku": filter.SKU + "%"})
	}
	if filter.WarehouseCode != "" {
		where = append(where, squirrel.Eq{"warehouse_code": filter.WarehouseCode})
	}
	if filter.Status != "" {
		where = append(where, squirrel.Eq{"stock_status": filter.Status})
	}
	if filter.MinQuantity != nil {
		where = append(where, squirrel.GtOrEq{"quantity": *filter.MinQuantity})
	}
	if filter.MaxQuantity != nil {
		where = append(where, squirrel.LtOrEq{"quantity": *filter.MaxQuantity})
	}

	querier := r.txManager.GetQuerier(ctx)

	countQuery := r.builder.Select("COUNT(*)").From(stockTable)
	if len(where) > 0 {
		countQuery = countQuery.Where(where)
	}
	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock records: %w", err)
	}

	order := sortColumn(filter.SortBy)
	if filter.SortDesc {
		order += " DESC"
	}

	query := r.builder.Select(
		"sku", "warehouse_code", "quantity", "reserved_quantity",
		"min_threshold", "max_threshold", "reorder_point", "reorder_quantity", "auto_reorder",
		"aisle", "shelf", "bin", "stock_status", "created_at", "updated_at",
	).From(stockTable).
		OrderBy(order).
		Limit(uint64(filter.Size)).
		Offset(uint64(filter.Page * filter.Size))
	if len(where) > 0 {
		query = query.Where(where)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build search query: %w", err)
	}

	var records []stock.Record
	if err := pgxscan.Select(ctx, querier, &records, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("search stock records: %w", err)
	}
	return records, total, nil
}

// sortColumn whitelists sortable columns; anything else sorts by sku.
func sortColumn(s string) string {
	switch s {
	case "sku", "warehouse_code", "quantity", "reserved_quantity", "stock_status", "updated_at":
		return s
	default:
		return "sku"
	}
}

// CountByWarehouse aggregates SKU counts for warehouse status reporting.
func (r *Repo) CountByWarehouse(ctx context.Context, warehouseCode string) (stock.WarehouseCounts, error) {
	sql := `SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE stock_status = 'LOW_STOCK') AS low,
			COUNT(*) FILTER (WHERE stock_status = 'OUT_OF_STOCK') AS out
		FROM ` + stockTable + `
		WHERE warehouse_code = $1`

	var counts stock.WarehouseCounts
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, warehouseCode).
		Scan(&counts.TotalSKUs, &counts.LowStock, &counts.OutOfStock); err != nil {
		return stock.WarehouseCounts{}, fmt.Errorf("count stock by warehouse: %w", err)
	}
	return counts, nil
}
