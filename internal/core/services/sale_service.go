package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/esmaelhussen/stock-managment-api/internal/apperrors"
	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	portsrepo "github.com/esmaelhussen/stock-managment-api/internal/core/ports/repositories"
	portssvc "github.com/esmaelhussen/stock-managment-api/internal/core/ports/services"
	"github.com/esmaelhussen/stock-managment-api/internal/dto"
)

var (
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrPastCreditStartDate  = errors.New("credit start date cannot be before the sale date")
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// StockCacheInvalidator drops cached stock snapshots after a committed sale
// has decremented stock.
type StockCacheInvalidator interface {
	Invalidate(ctx context.Context, sourceID string) error
}

// saleService assembles, prices and persists sale transactions.
type saleService struct {
	BaseService
	saleRepo   portsrepo.SaleRepositoryWithTx
	pricing    *PricingService
	stockCache StockCacheInvalidator
}

// NewSaleService creates a new SaleService. stockCache may be nil when no
// snapshot cache is configured.
func NewSaleService(saleRepo portsrepo.SaleRepositoryWithTx, pricing *PricingService, stockCache StockCacheInvalidator) portssvc.SaleSvcFacade {
	return &saleService{
		saleRepo:   saleRepo,
		pricing:    pricing,
		stockCache: stockCache,
	}
}

// Ensure saleService implements the portssvc.SaleSvcFacade interface
var _ portssvc.SaleSvcFacade = (*saleService)(nil)

// CreateSale prices the draft, plans credit terms when the payment method is
// credit, and persists the transaction atomically with the stock decrement.
// All-or-nothing: any failing line item rejects the whole draft.
func (s *saleService) CreateSale(ctx context.Context, req dto.CreateSaleTransactionRequest, creatorUserID string) (*domain.SaleTransaction, error) {
	method := domain.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %w: %q", apperrors.ErrValidation, ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	items, subtotal, finalPrice, stockChanges, err := s.pricing.PriceSale(ctx, req.Items, req.SourceID, req.Discount())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sale := domain.SaleTransaction{
		SaleID:        uuid.NewString(),
		PaymentMethod: method,
		Discount:      req.Discount(),
		CustomerID:    req.CustomerID,
		SourceID:      req.SourceID,
		SourceType:    sourceTypeOrDefault(req.SourceType),
		TransactedBy:  creatorUserID,
		Status:        domain.StatusPaid, // non-credit sales settle at creation
		Subtotal:      subtotal,
		FinalPrice:    finalPrice,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	for i := range items {
		items[i].SaleItemID = uuid.NewString()
		items[i].SaleID = sale.SaleID
	}
	sale.Items = items

	if method.IsCredit() {
		terms, err := buildCreditTerms(req, now)
		if err != nil {
			return nil, err
		}
		sale.Credit = terms
		sale.Status = domain.StatusUnpaid
	}

	if err := s.saleRepo.SaveSale(ctx, sale, stockChanges); err != nil {
		s.LogError(ctx, err, "Failed to save sale transaction", slog.String("sale_id", sale.SaleID))
		return nil, err
	}

	if s.stockCache != nil {
		if cerr := s.stockCache.Invalidate(ctx, sale.SourceID); cerr != nil {
			// Cache staleness is bounded by the TTL; the committed sale wins.
			s.LogWarn(ctx, "Failed to invalidate stock snapshot cache", slog.String("error", cerr.Error()))
		}
	}

	s.LogInfo(ctx, "Sale transaction created",
		slog.String("sale_id", sale.SaleID),
		slog.String("payment_method", string(method)),
		slog.String("final_price", finalPrice.String()),
	)
	return &sale, nil
}

// GetSaleByID retrieves a sale with its items and credit state.
func (s *saleService) GetSaleByID(ctx context.Context, saleID string) (*domain.SaleTransaction, error) {
	sale, err := s.saleRepo.FindSaleByID(ctx, saleID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find sale", slog.String("sale_id", saleID))
		}
		return nil, err
	}
	return sale, nil
}

// ListSales retrieves sales for a source with limit/offset paging.
func (s *saleService) ListSales(ctx context.Context, params dto.ListSalesParams) ([]domain.SaleTransaction, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	} else if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	sales, err := s.saleRepo.ListSalesBySource(ctx, params.SourceID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list sales", slog.String("source_id", params.SourceID))
		return nil, err
	}
	if sales == nil {
		sales = []domain.SaleTransaction{}
	}
	return sales, nil
}

// buildCreditTerms plans the installment schedule for a credit sale from the
// wire fields. creditDuration carries the installment amount.
func buildCreditTerms(req dto.CreateSaleTransactionRequest, now time.Time) (*domain.CreditTerms, error) {
	installment := decimal.Zero
	if req.CreditDuration != nil {
		installment = *req.CreditDuration
	}
	start := now
	if req.CreditStartDate != nil {
		start = req.CreditStartDate.UTC()
	}
	if start.Before(now.Truncate(24 * time.Hour)) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPastCreditStartDate)
	}

	terms, err := domain.NewCreditTerms(req.CreditorName, installment, domain.CreditFrequency(req.CreditFrequency), start)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	return terms, nil
}

func sourceTypeOrDefault(sourceType string) domain.SourceType {
	if sourceType == "" {
		return domain.SourceShop
	}
	return domain.SourceType(sourceType)
}
