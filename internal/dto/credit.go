package dto

import (
	"github.com/shopspring/decimal"
)

// CreditPaymentRequest is the body of POST /sales-transactions/:saleID/credit-payment.
type CreditPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreditPaymentResponse reports the ledger state after a payment.
type CreditPaymentResponse struct {
	SaleID          string          `json:"saleID"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Status          string          `json:"status"`
}

// CheckOverdueResponse reports the result of an overdue sweep.
type CheckOverdueResponse struct {
	OverdueSaleIDs []string `json:"overdueSaleIDs"`
	Count          int      `json:"count"`
}
