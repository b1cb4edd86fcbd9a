package services

import (
	"context"

	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
)

// StockSvcFacade exposes the stock snapshot consumed by the availability gate
// and the dashboard's all-stock view.
type StockSvcFacade interface {
	// ListStock returns the stock snapshot, optionally filtered by source.
	ListStock(ctx context.Context, sourceID string) ([]domain.StockLevel, error)
}
