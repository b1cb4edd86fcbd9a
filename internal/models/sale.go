package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleTransaction is the sale_transactions table row. Credit columns are
// nullable and populated only for credit-method sales.
type SaleTransaction struct {
	SaleID          string          `json:"saleID"`
	PaymentMethod   string          `json:"paymentMethod"`
	DiscountType    string          `json:"discountType"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	CustomerID      *string         `json:"customerID"`
	SourceID        string          `json:"sourceID"`
	SourceType      string          `json:"sourceType"`
	TransactedBy    string          `json:"transactedBy"`
	Status          string          `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	FinalPrice      decimal.Decimal `json:"finalPrice"`

	// Credit plan + ledger (nullable, credit sales only)
	CreditorName      *string          `json:"creditorName"`
	InstallmentAmount *decimal.Decimal `json:"installmentAmount"`
	CreditFrequency   *string          `json:"creditFrequency"`
	CreditStartDate   *time.Time       `json:"creditStartDate"`
	NextDueDate       *time.Time       `json:"nextDueDate"`
	PaidAmount        *decimal.Decimal `json:"paidAmount"`
	Overdue           bool             `json:"overdue"`

	AuditFields
}

// SaleItem is the sale_items table row. Derived prices are stored so a
// persisted sale never needs repricing.
type SaleItem struct {
	SaleItemID      string          `json:"saleItemID"`
	SaleID          string          `json:"saleID"`
	ProductID       string          `json:"productID"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountType    string          `json:"discountType"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountValue   decimal.Decimal `json:"discountValue"` // resolved discount against the subtotal
	FinalPrice      decimal.Decimal `json:"finalPrice"`
}
