package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrMissingCreditorName indicates a credit sale without an identified debtor.
	ErrMissingCreditorName = errors.New("creditor name is required for credit sales")
	// ErrInvalidInstallmentAmount indicates a non-positive installment amount.
	ErrInvalidInstallmentAmount = errors.New("installment amount must be positive")
	// ErrInvalidCreditFrequency indicates an unknown installment frequency.
	ErrInvalidCreditFrequency = errors.New("invalid credit frequency")
)

// CreditFrequency is the cadence of installment due dates.
type CreditFrequency string

const (
	FrequencyWeekly  CreditFrequency = "weekly"
	FrequencyMonthly CreditFrequency = "monthly"
	FrequencyYearly  CreditFrequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f CreditFrequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Next returns t advanced by one frequency step: 7 days for weekly, one
// calendar month for monthly, one calendar year for yearly.
func (f CreditFrequency) Next(t time.Time) time.Time {
	switch f {
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return t.AddDate(0, 1, 0)
	case FrequencyYearly:
		return t.AddDate(1, 0, 0)
	}
	return t
}

// CreditTerms holds the installment plan and running ledger for a credit sale.
// Present only when the sale's payment method is credit. The source system
// called the installment amount "creditDuration"; it is a periodic payment
// amount, not a time span.
type CreditTerms struct {
	CreditorName      string          `json:"creditorName"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
	Frequency         CreditFrequency `json:"frequency"`
	StartDate         time.Time       `json:"startDate"`
	NextDueDate       time.Time       `json:"nextDueDate"`
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	Overdue           bool            `json:"overdue"`
}

// NewCreditTerms plans the installment schedule for a credit sale. The start
// date itself is the first due date; the sweep advances it afterwards.
func NewCreditTerms(creditorName string, installmentAmount decimal.Decimal, frequency CreditFrequency, startDate time.Time) (*CreditTerms, error) {
	if creditorName == "" {
		return nil, ErrMissingCreditorName
	}
	if installmentAmount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidInstallmentAmount
	}
	if !frequency.Valid() {
		return nil, ErrInvalidCreditFrequency
	}
	return &CreditTerms{
		CreditorName:      creditorName,
		InstallmentAmount: installmentAmount,
		Frequency:         frequency,
		StartDate:         startDate,
		NextDueDate:       startDate,
		PaidAmount:        decimal.Zero,
	}, nil
}

// AdvanceDueDate steps NextDueDate forward one frequency unit at a time until
// it is after now. Returns the number of steps taken. Keeps the "next due"
// pointer meaningful after missed or partial-period payments.
// An unknown frequency takes no steps: Next would return its input unchanged
// and the loop would never terminate.
func (c *CreditTerms) AdvanceDueDate(now time.Time) int {
	if !c.Frequency.Valid() {
		return 0
	}
	steps := 0
	for !c.NextDueDate.After(now) {
		c.NextDueDate = c.Frequency.Next(c.NextDueDate)
		steps++
	}
	return steps
}
