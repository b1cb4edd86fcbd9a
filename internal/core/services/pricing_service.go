package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/esmaelhussen/stock-managment-api/internal/apperrors"
	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	portsrepo "github.com/esmaelhussen/stock-managment-api/internal/core/ports/repositories"
	"github.com/esmaelhussen/stock-managment-api/internal/dto"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInactive = errors.New("product is no longer sold")
	ErrInvalidQuantity = errors.New("item quantity must be at least 1")
	ErrEmptySale       = errors.New("sale must contain at least one item")
)

// PricingService prices the line items of a draft sale against the product
// catalog and the stock snapshot, then aggregates transaction totals. It has
// no side effects; stock is only read here. The authoritative availability
// check happens again under row lock when the sale repository commits.
type PricingService struct {
	BaseService
	productRepo portsrepo.ProductRepositoryFacade
	stockRepo   portsrepo.StockRepositoryFacade
}

// NewPricingService creates a new PricingService.
func NewPricingService(productRepo portsrepo.ProductRepositoryFacade, stockRepo portsrepo.StockRepositoryFacade) *PricingService {
	return &PricingService{
		productRepo: productRepo,
		stockRepo:   stockRepo,
	}
}

// PriceSale prices every requested line and aggregates totals. Any failing
// line rejects the whole draft; partial acceptance is not supported. The
// returned stockChanges maps productID to total units the sale will deduct,
// so lines for the same product are validated against stock in aggregate.
func (s *PricingService) PriceSale(ctx context.Context, reqItems []dto.SaleItemRequest, sourceID string, transactionDiscount domain.DiscountSpec) (items []domain.SaleItem, subtotal, finalPrice decimal.Decimal, stockChanges map[string]int64, err error) {
	if len(reqItems) == 0 {
		return nil, decimal.Zero, decimal.Zero, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrEmptySale)
	}
	if err := transactionDiscount.Validate(); err != nil {
		return nil, decimal.Zero, decimal.Zero, nil, fmt.Errorf("%w: transaction discount: %w", apperrors.ErrValidation, err)
	}

	productIDs := make([]string, 0, len(reqItems))
	for _, it := range reqItems {
		productIDs = append(productIDs, it.ProductID)
	}
	products, err := s.productRepo.FindProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, nil, fmt.Errorf("failed to load products for pricing: %w", err)
	}

	items = make([]domain.SaleItem, 0, len(reqItems))
	stockChanges = make(map[string]int64, len(reqItems))
	for _, req := range reqItems {
		item, err := s.priceItem(req, products)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, nil, err
		}
		items = append(items, item)
		stockChanges[req.ProductID] += req.Quantity
	}

	// Stock gate: aggregate requested units per product must fit the snapshot.
	for productID, requested := range stockChanges {
		if err := s.checkAvailability(ctx, productID, sourceID, requested); err != nil {
			return nil, decimal.Zero, decimal.Zero, nil, err
		}
	}

	subtotal, finalPrice = domain.AggregateTotals(items, transactionDiscount)
	return items, subtotal, finalPrice, stockChanges, nil
}

// priceItem validates one requested line and computes its derived prices.
func (s *PricingService) priceItem(req dto.SaleItemRequest, products map[string]domain.Product) (domain.SaleItem, error) {
	if req.Quantity < 1 {
		return domain.SaleItem{}, fmt.Errorf("%w: product %s: %w", apperrors.ErrValidation, req.ProductID, ErrInvalidQuantity)
	}
	discount := req.Discount()
	if err := discount.Validate(); err != nil {
		return domain.SaleItem{}, fmt.Errorf("%w: product %s: %w", apperrors.ErrValidation, req.ProductID, err)
	}
	product, ok := products[req.ProductID]
	if !ok {
		return domain.SaleItem{}, fmt.Errorf("%w: %s", ErrProductNotFound, req.ProductID)
	}
	if !product.IsActive {
		return domain.SaleItem{}, fmt.Errorf("%w: product %s: %w", apperrors.ErrValidation, req.ProductID, ErrProductInactive)
	}

	item := domain.SaleItem{
		ProductID: product.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: product.UnitPrice,
		Discount:  discount,
	}
	item.Price()
	return item, nil
}

// checkAvailability enforces requested <= available for a product at the
// sale's source. A product not stocked at the source counts as zero available.
func (s *PricingService) checkAvailability(ctx context.Context, productID, sourceID string, requested int64) error {
	level, err := s.stockRepo.GetStockLevel(ctx, productID, sourceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: product %s has 0 available at source %s", apperrors.ErrInsufficientStock, productID, sourceID)
		}
		return fmt.Errorf("failed to read stock level for product %s: %w", productID, err)
	}
	if requested > level.Quantity {
		return fmt.Errorf("%w: product %s has %d available at source %s, requested %d",
			apperrors.ErrInsufficientStock, productID, level.Quantity, sourceID, requested)
	}
	return nil
}
