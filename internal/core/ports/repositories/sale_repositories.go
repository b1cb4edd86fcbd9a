package repositories

import (
	"context"
	"time"

	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaleReader defines read operations for sale transaction data
type SaleReader interface {
	// FindSaleByID retrieves a sale with its items and credit state.
	FindSaleByID(ctx context.Context, saleID string) (*domain.SaleTransaction, error)

	// ListSalesBySource retrieves a paginated list of sales for a source
	// location. An empty sourceID lists across all sources.
	ListSalesBySource(ctx context.Context, sourceID string, limit, offset int) ([]domain.SaleTransaction, error)

	// ListDueCreditSales retrieves unpaid credit sales whose next due date is
	// at or before asOf. Used by the overdue sweep.
	ListDueCreditSales(ctx context.Context, asOf time.Time) ([]domain.SaleTransaction, error)
}

// SaleWriter defines write operations for sale transaction data
type SaleWriter interface {
	// SaveSale persists a sale and its items and decrements stock within one
	// DB transaction. stockChanges maps productID to units to deduct at the
	// sale's source; rows are locked and re-checked so the sale fails with
	// apperrors.ErrInsufficientStock rather than oversell.
	SaveSale(ctx context.Context, sale domain.SaleTransaction, stockChanges map[string]int64) error

	// ApplyCreditPayment records a payment against a credit sale under row
	// lock (read-modify-write of the paid amount is serialized). Returns the
	// sale with updated ledger state.
	ApplyCreditPayment(ctx context.Context, saleID string, amount decimal.Decimal, updatedBy string, updatedAt time.Time) (*domain.SaleTransaction, error)

	// UpdateCreditSchedule persists a swept next due date and overdue flag.
	UpdateCreditSchedule(ctx context.Context, saleID string, nextDueDate time.Time, overdue bool, updatedAt time.Time) error
}

// SaleRepositoryFacade combines all sale-related repository interfaces
type SaleRepositoryFacade interface {
	SaleReader
	SaleWriter
}

// SaleRepositoryWithTx extends SaleRepositoryFacade with transaction capabilities
type SaleRepositoryWithTx interface {
	SaleRepositoryFacade
	TransactionManager
}
