package services

import (
	"context"

	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	"github.com/esmaelhussen/stock-managment-api/internal/dto"
)

// SaleSvcFacade defines the sale transaction operations exposed to handlers.
type SaleSvcFacade interface {
	// CreateSale prices a draft sale (line items, stock gate, transaction
	// discount, credit plan) and persists it atomically.
	CreateSale(ctx context.Context, req dto.CreateSaleTransactionRequest, creatorUserID string) (*domain.SaleTransaction, error)

	// GetSaleByID retrieves a sale with items and credit state.
	GetSaleByID(ctx context.Context, saleID string) (*domain.SaleTransaction, error)

	// ListSales retrieves sales filtered by source with limit/offset paging.
	ListSales(ctx context.Context, params dto.ListSalesParams) ([]domain.SaleTransaction, error)
}
