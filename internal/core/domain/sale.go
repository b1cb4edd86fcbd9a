package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidPaymentAmount indicates a non-positive credit payment.
	ErrInvalidPaymentAmount = errors.New("payment amount must be positive")
	// ErrExceedsRemaining indicates a payment larger than the remaining balance.
	ErrExceedsRemaining = errors.New("payment exceeds remaining balance")
	// ErrAlreadySettled indicates a payment attempt against a fully paid credit sale.
	ErrAlreadySettled = errors.New("credit sale already settled")
	// ErrNotCreditSale indicates a credit operation on a non-credit sale.
	ErrNotCreditSale = errors.New("sale is not a credit sale")
)

// PaymentMethod is the settlement channel for a sale.
type PaymentMethod string

const (
	PaymentTelebirr PaymentMethod = "telebirr"
	PaymentCBE      PaymentMethod = "cbe"
	PaymentAwash    PaymentMethod = "awash"
	PaymentEBirr    PaymentMethod = "e-birr"
	PaymentCredit   PaymentMethod = "credit"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentTelebirr, PaymentCBE, PaymentAwash, PaymentEBirr, PaymentCredit:
		return true
	}
	return false
}

// IsCredit reports whether the method defers payment.
func (m PaymentMethod) IsCredit() bool {
	return m == PaymentCredit
}

// SaleStatus is the payment state of a sale transaction.
// The "unpayed"/"payed" spellings are kept for wire compatibility.
type SaleStatus string

const (
	StatusUnpaid SaleStatus = "unpayed"
	StatusPaid   SaleStatus = "payed"
)

// SaleItem is one priced line of a sale. Immutable once the transaction is
// persisted; corrections require a new transaction.
type SaleItem struct {
	SaleItemID     string          `json:"saleItemID"`
	SaleID         string          `json:"saleID"`
	ProductID      string          `json:"productID"`
	Quantity       int64           `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"` // resolved from the catalog, never user-entered
	Discount       DiscountSpec    `json:"discount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalPrice     decimal.Decimal `json:"finalPrice"`
}

// Price fills in the derived monetary fields from quantity, unit price and
// the item discount. Subtotal = quantity x unitPrice; the discount resolves
// against the subtotal and is clamped so FinalPrice never goes negative.
func (it *SaleItem) Price() {
	it.Subtotal = it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
	it.DiscountAmount = it.Discount.Resolve(it.Subtotal)
	it.FinalPrice = it.Subtotal.Sub(it.DiscountAmount)
}

// AggregateTotals sums item final prices into a subtotal and applies the
// transaction-level discount. Order-independent; an empty item list yields
// zero totals (callers reject empty submissions at the validation layer).
func AggregateTotals(items []SaleItem, transactionDiscount DiscountSpec) (subtotal, finalPrice decimal.Decimal) {
	subtotal = decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.FinalPrice)
	}
	finalPrice = subtotal.Sub(transactionDiscount.Resolve(subtotal))
	return subtotal, finalPrice
}

// SaleTransaction is a committed multi-item sale. It exclusively owns its
// items and, for credit sales, its credit terms; customer, source, user and
// product references point into externally owned catalogs.
type SaleTransaction struct {
	SaleID        string          `json:"saleID"`
	Items         []SaleItem      `json:"items"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Discount      DiscountSpec    `json:"discount"`
	CustomerID    *string         `json:"customerID"` // nil for walk-in customers
	SourceID      string          `json:"sourceID"`
	SourceType    SourceType      `json:"sourceType"`
	TransactedBy  string          `json:"transactedBy"`
	Status        SaleStatus      `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	FinalPrice    decimal.Decimal `json:"finalPrice"`
	Credit        *CreditTerms    `json:"credit,omitempty"`
	AuditFields
}

// Remaining returns the unpaid balance of a credit sale, zero otherwise.
func (s *SaleTransaction) Remaining() decimal.Decimal {
	if s.Credit == nil {
		return decimal.Zero
	}
	return s.FinalPrice.Sub(s.Credit.PaidAmount)
}

// IsOverdue reports whether the next due date has passed while a balance
// remains. Pure read; it does not advance the due date.
func (s *SaleTransaction) IsOverdue(now time.Time) bool {
	if s.Credit == nil || s.Status == StatusPaid {
		return false
	}
	return now.After(s.Credit.NextDueDate) && s.Remaining().IsPositive()
}

// ApplyCreditPayment records a payment against the credit ledger. It rejects
// non-positive amounts, payments on a settled ledger, and payments exceeding
// the remaining balance (overpayment is an input error, never clamped). On
// success PaidAmount grows by amount and the sale flips to payed once the
// balance reaches zero. A rejected payment leaves the sale unchanged.
func (s *SaleTransaction) ApplyCreditPayment(amount decimal.Decimal) error {
	if s.Credit == nil {
		return ErrNotCreditSale
	}
	if s.Status == StatusPaid {
		return ErrAlreadySettled
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPaymentAmount
	}
	if amount.GreaterThan(s.Remaining()) {
		return ErrExceedsRemaining
	}
	s.Credit.PaidAmount = s.Credit.PaidAmount.Add(amount)
	if s.Credit.PaidAmount.GreaterThanOrEqual(s.FinalPrice) {
		s.Status = StatusPaid
		s.Credit.Overdue = false
	}
	return nil
}
