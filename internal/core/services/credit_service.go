package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/esmaelhussen/stock-managment-api/internal/apperrors"
	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	portsrepo "github.com/esmaelhussen/stock-managment-api/internal/core/ports/repositories"
	portssvc "github.com/esmaelhussen/stock-managment-api/internal/core/ports/services"
)

// creditService manages the credit ledger of persisted sales: recording
// payments and sweeping overdue installment schedules.
type creditService struct {
	BaseService
	saleRepo portsrepo.SaleRepositoryWithTx
}

// NewCreditService creates a new CreditService.
func NewCreditService(saleRepo portsrepo.SaleRepositoryWithTx) portssvc.CreditSvcFacade {
	return &creditService{saleRepo: saleRepo}
}

// Ensure creditService implements the portssvc.CreditSvcFacade interface
var _ portssvc.CreditSvcFacade = (*creditService)(nil)

// ApplyPayment records a payment against a credit sale. The repository
// serializes the read-modify-write of the paid amount under row lock, so
// concurrent payments against the same sale cannot both see a stale balance.
// A rejected payment leaves the ledger untouched.
func (s *creditService) ApplyPayment(ctx context.Context, saleID string, amount decimal.Decimal, userID string) (*domain.SaleTransaction, error) {
	// Fail fast on obviously bad input before touching the database.
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidPaymentAmount
	}

	now := time.Now().UTC()
	sale, err := s.saleRepo.ApplyCreditPayment(ctx, saleID, amount, userID, now)
	if err != nil {
		if isPaymentRejection(err) {
			s.LogWarn(ctx, "Credit payment rejected",
				slog.String("sale_id", saleID),
				slog.String("amount", amount.String()),
				slog.String("reason", err.Error()),
			)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to apply credit payment", slog.String("sale_id", saleID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Credit payment applied",
		slog.String("sale_id", saleID),
		slog.String("amount", amount.String()),
		slog.String("paid_amount", sale.Credit.PaidAmount.String()),
		slog.String("remaining", sale.Remaining().String()),
	)
	return sale, nil
}

// CheckOverdue sweeps unpaid credit sales whose next due date has been
// reached: each schedule is advanced one frequency step at a time until the
// due date is in the future, and sales with an outstanding balance past their
// original due date are flagged overdue. Returns the flagged sale IDs.
func (s *creditService) CheckOverdue(ctx context.Context, now time.Time) ([]string, error) {
	due, err := s.saleRepo.ListDueCreditSales(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to list due credit sales")
		return nil, err
	}

	overdueIDs := make([]string, 0, len(due))
	for i := range due {
		sale := &due[i]
		if sale.Credit == nil || sale.Status == domain.StatusPaid {
			continue
		}

		overdue := sale.IsOverdue(now)
		sale.Credit.AdvanceDueDate(now)
		if err := s.saleRepo.UpdateCreditSchedule(ctx, sale.SaleID, sale.Credit.NextDueDate, overdue, now); err != nil {
			s.LogError(ctx, err, "Failed to update credit schedule", slog.String("sale_id", sale.SaleID))
			return nil, err
		}
		if overdue {
			overdueIDs = append(overdueIDs, sale.SaleID)
		}
	}

	s.LogInfo(ctx, "Overdue sweep completed",
		slog.Int("swept", len(due)),
		slog.Int("overdue", len(overdueIDs)),
	)
	return overdueIDs, nil
}

// isPaymentRejection reports whether err is a ledger-level validation
// rejection rather than an infrastructure failure.
func isPaymentRejection(err error) bool {
	return errors.Is(err, domain.ErrInvalidPaymentAmount) ||
		errors.Is(err, domain.ErrExceedsRemaining) ||
		errors.Is(err, domain.ErrAlreadySettled) ||
		errors.Is(err, domain.ErrNotCreditSale)
}
