// Package damaged_repo provides the PostgreSQL implementation of the damaged
// returns repository.
package damaged_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"stockhub/internal/core/apperror"
	"stockhub/internal/domain/damaged"
	"stockhub/internal/infrastructure/storage/postgres"
)

const damagedTable = "damaged_returns"

const damagedColumns = `return_id, sku, quantity, damage_type,
	damage_description, warehouse_code, reported_by, status, disposition,
	notes, reported_at`

// Repo implements damaged.Repository.
type Repo struct {
	txManager *postgres.TxManager
}

// NewRepo creates a new damaged returns repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

// Create persists a damaged return.
func (r *Repo) Create(ctx context.Context, ret damaged.Return) error {
	sql := `INSERT INTO ` + damagedTable + ` (
			return_id, sku, quantity, damage_type, damage_description,
			warehouse_code, reported_by, status, disposition, notes, reported_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	querier := r.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		ret.ReturnID, ret.SKU, ret.Quantity, ret.DamageType, ret.DamageDescription,
		ret.WarehouseCode, ret.ReportedBy, ret.Status, ret.Disposition,
		ret.Notes, ret.ReportedAt,
	)
	if err != nil {
		return fmt.Errorf("insert damaged return: %w", err)
	}
	return nil
}

// GetByID returns a damaged return or a NotFound error.
func (r *Repo) GetByID(ctx context.Context, returnID string) (damaged.Return, error) {
	sql := `SELECT ` + damagedColumns + `
		FROM ` + damagedTable + `
		WHERE return_id = $1`

	var ret damaged.Return
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &ret, sql, returnID); err != nil {
		if pgxscan.NotFound(err) {
			return damaged.Return{}, apperror.NewNotFound("damaged return", returnID)
		}
		return damaged.Return{}, fmt.Errorf("get damaged return: %w", err)
	}
	return ret, nil
}
