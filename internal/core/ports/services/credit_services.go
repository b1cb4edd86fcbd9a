package services

import (
	"context"
	"time"

	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreditSvcFacade defines credit ledger operations exposed to handlers.
type CreditSvcFacade interface {
	// ApplyPayment records a payment against a credit sale and returns the
	// updated sale. Rejected payments leave the ledger unchanged.
	ApplyPayment(ctx context.Context, saleID string, amount decimal.Decimal, userID string) (*domain.SaleTransaction, error)

	// CheckOverdue sweeps unpaid credit sales whose next due date has passed,
	// advancing due dates and flagging them overdue. Returns flagged sale IDs.
	CheckOverdue(ctx context.Context, now time.Time) ([]string, error)
}
