package repositories

import (
	"context"

	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
)

// ProductReader defines read operations for the product catalog.
type ProductReader interface {
	// FindProductByID retrieves a product by its unique identifier.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// FindProductsByIDs retrieves multiple products keyed by ID. Missing IDs
	// are simply absent from the map; callers decide whether that is an error.
	FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error)
}

// ProductRepositoryFacade is the full product repository surface.
type ProductRepositoryFacade interface {
	ProductReader
}
