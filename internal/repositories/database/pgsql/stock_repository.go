package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/esmaelhussen/stock-managment-api/internal/apperrors"
	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	portsrepo "github.com/esmaelhussen/stock-managment-api/internal/core/ports/repositories"
	"github.com/esmaelhussen/stock-managment-api/internal/models"
	"github.com/esmaelhussen/stock-managment-api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const stockColumns = `
	product_id, source_id, source_type, quantity,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxStockRepository struct {
	BaseRepository
}

// NewStockRepository creates a new repository for stock snapshot reads.
// Stock decrements are owned by the sale repository's commit transaction.
func NewStockRepository(pool *pgxpool.Pool) portsrepo.StockRepositoryFacade {
	return &PgxStockRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxStockRepository implements portsrepo.StockRepositoryFacade
var _ portsrepo.StockRepositoryFacade = (*PgxStockRepository)(nil)

// GetStockLevel retrieves the available quantity for a product at a source.
func (r *PgxStockRepository) GetStockLevel(ctx context.Context, productID, sourceID string) (*domain.StockLevel, error) {
	var m models.StockLevel
	err := r.Pool.QueryRow(ctx,
		`SELECT `+stockColumns+` FROM stock_levels WHERE product_id = $1 AND source_id = $2;`,
		productID, sourceID,
	).Scan(
		&m.ProductID,
		&m.SourceID,
		&m.SourceType,
		&m.Quantity,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get stock level for product %s at source %s: %w", productID, sourceID, err)
	}

	level := mapping.ToDomainStockLevel(m)
	return &level, nil
}

// ListStockLevels retrieves the stock snapshot, optionally filtered by source.
func (r *PgxStockRepository) ListStockLevels(ctx context.Context, sourceID string) ([]domain.StockLevel, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+stockColumns+`
		FROM stock_levels
		WHERE ($1 = '' OR source_id = $1)
		ORDER BY source_id, product_id;`,
		sourceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock levels: %w", err)
	}
	defer rows.Close()

	var modelLevels []models.StockLevel
	for rows.Next() {
		var m models.StockLevel
		err := rows.Scan(
			&m.ProductID,
			&m.SourceID,
			&m.SourceType,
			&m.Quantity,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock level row: %w", err)
		}
		modelLevels = append(modelLevels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating stock level rows: %w", err)
	}

	return mapping.ToDomainStockLevelSlice(modelLevels), nil
}
