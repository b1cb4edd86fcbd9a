package repositories

import (
	"context"

	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
)

// StockReader defines read operations against the stock snapshot.
// The sale engine never writes stock through this interface; decrements
// happen inside the sale repository's commit transaction.
type StockReader interface {
	// GetStockLevel retrieves the available quantity for a product at a source.
	// Returns apperrors.ErrNotFound if the product is not stocked there.
	GetStockLevel(ctx context.Context, productID, sourceID string) (*domain.StockLevel, error)

	// ListStockLevels retrieves the stock snapshot, optionally filtered by
	// source (empty sourceID means all sources).
	ListStockLevels(ctx context.Context, sourceID string) ([]domain.StockLevel, error)
}

// StockRepositoryFacade is the full stock repository surface.
type StockRepositoryFacade interface {
	StockReader
}
