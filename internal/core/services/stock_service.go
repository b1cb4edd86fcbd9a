package services

import (
	"context"
	"log/slog"

	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	portsrepo "github.com/esmaelhussen/stock-managment-api/internal/core/ports/repositories"
	portssvc "github.com/esmaelhussen/stock-managment-api/internal/core/ports/services"
	"github.com/esmaelhussen/stock-managment-api/internal/platform/cache"
)

// stockService serves the stock snapshot, fronted by the Redis cache when
// one is configured. Cache failures fall through to the database.
type stockService struct {
	BaseService
	stockRepo portsrepo.StockRepositoryFacade
	cache     *cache.StockCache
}

// NewStockService creates a new StockService. cache may be nil.
func NewStockService(stockRepo portsrepo.StockRepositoryFacade, stockCache *cache.StockCache) portssvc.StockSvcFacade {
	return &stockService{stockRepo: stockRepo, cache: stockCache}
}

// Ensure stockService implements the portssvc.StockSvcFacade interface
var _ portssvc.StockSvcFacade = (*stockService)(nil)

// ListStock returns the stock snapshot, optionally filtered by source.
func (s *stockService) ListStock(ctx context.Context, sourceID string) ([]domain.StockLevel, error) {
	if s.cache != nil {
		levels, hit, err := s.cache.Get(ctx, sourceID)
		if err != nil {
			s.LogWarn(ctx, "Stock cache read failed, falling back to database", slog.String("error", err.Error()))
		} else if hit {
			return levels, nil
		}
	}

	levels, err := s.stockRepo.ListStockLevels(ctx, sourceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list stock levels", slog.String("source_id", sourceID))
		return nil, err
	}
	if levels == nil {
		levels = []domain.StockLevel{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, sourceID, levels); err != nil {
			s.LogWarn(ctx, "Stock cache write failed", slog.String("error", err.Error()))
		}
	}
	return levels, nil
}
