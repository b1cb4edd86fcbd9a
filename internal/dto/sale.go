package dto

import (
	"time"

	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one requested line of a draft sale. Discounts use the
// three-state encoding: discountType selects which of discountAmount /
// discountPercent is read. An omitted discountType means no discount.
type SaleItemRequest struct {
	ProductID       string          `json:"productID" binding:"required"`
	Quantity        int64           `json:"quantity" binding:"required,gt=0"`
	DiscountType    string          `json:"discountType" binding:"omitempty,oneof=none fixed percent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

// Discount converts the wire encoding to the tagged domain variant.
func (r SaleItemRequest) Discount() domain.DiscountSpec {
	return toDiscountSpec(r.DiscountType, r.DiscountAmount, r.DiscountPercent)
}

// CreateSaleTransactionRequest is the body of POST /sales-transactions.
// Credit fields are required only when paymentMethod is "credit". The
// creditDuration field name is kept from the source wire format; it carries
// the periodic installment amount, not a time span.
type CreateSaleTransactionRequest struct {
	Items           []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod   string            `json:"paymentMethod" binding:"required,oneof=telebirr cbe awash e-birr credit"`
	DiscountType    string            `json:"discountType" binding:"omitempty,oneof=none fixed percent"`
	DiscountAmount  decimal.Decimal   `json:"discountAmount"`
	DiscountPercent decimal.Decimal   `json:"discountPercent"`
	CreditorName    string            `json:"creditorName"`
	CreditDuration  *decimal.Decimal  `json:"creditDuration"` // installment amount
	CreditFrequency string            `json:"creditFrequency" binding:"omitempty,oneof=weekly monthly yearly"`
	CreditStartDate *time.Time        `json:"creditStartDate"`
	CustomerID      *string           `json:"customerID"` // nil => walk-in customer
	SourceID        string            `json:"sourceID" binding:"required"`
	SourceType      string            `json:"sourceType" binding:"omitempty,oneof=SHOP WAREHOUSE"`
}

// Discount converts the transaction-level wire encoding to the domain variant.
func (r CreateSaleTransactionRequest) Discount() domain.DiscountSpec {
	return toDiscountSpec(r.DiscountType, r.DiscountAmount, r.DiscountPercent)
}

func toDiscountSpec(discountType string, amount, percent decimal.Decimal) domain.DiscountSpec {
	switch domain.DiscountType(discountType) {
	case domain.DiscountFixed:
		return domain.DiscountSpec{Type: domain.DiscountFixed, Amount: amount}
	case domain.DiscountPercent:
		return domain.DiscountSpec{Type: domain.DiscountPercent, Percent: percent}
	default:
		return domain.NoDiscount()
	}
}

// ListSalesParams defines query parameters for listing sales.
type ListSalesParams struct {
	SourceID string `form:"sourceID"`
	Limit    int    `form:"limit,default=20"`
	Offset   int    `form:"offset,default=0"`
}

// SaleItemResponse defines the data returned for a priced line item.
type SaleItemResponse struct {
	SaleItemID      string          `json:"saleItemID"`
	ProductID       string          `json:"productID"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountType    string          `json:"discountType"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	FinalPrice      decimal.Decimal `json:"finalPrice"`
}

// CreditTermsResponse defines the credit plan and ledger state of a sale.
type CreditTermsResponse struct {
	CreditorName      string          `json:"creditorName"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
	Frequency         string          `json:"frequency"`
	StartDate         time.Time       `json:"startDate"`
	NextDueDate       time.Time       `json:"nextDueDate"`
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	RemainingAmount   decimal.Decimal `json:"remainingAmount"`
	Overdue           bool            `json:"overdue"`
}

// SaleTransactionResponse defines the data returned for a sale.
type SaleTransactionResponse struct {
	SaleID          string               `json:"saleID"`
	Items           []SaleItemResponse   `json:"items"`
	PaymentMethod   string               `json:"paymentMethod"`
	DiscountType    string               `json:"discountType"`
	DiscountAmount  decimal.Decimal      `json:"discountAmount"`
	DiscountPercent decimal.Decimal      `json:"discountPercent"`
	CustomerID      *string              `json:"customerID,omitempty"`
	SourceID        string               `json:"sourceID"`
	SourceType      string               `json:"sourceType"`
	TransactedBy    string               `json:"transactedBy"`
	Status          string               `json:"status"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	FinalPrice      decimal.Decimal      `json:"finalPrice"`
	Credit          *CreditTermsResponse `json:"credit,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// ToSaleItemResponse converts a domain.SaleItem to SaleItemResponse DTO.
func ToSaleItemResponse(it *domain.SaleItem) SaleItemResponse {
	return SaleItemResponse{
		SaleItemID:      it.SaleItemID,
		ProductID:       it.ProductID,
		Quantity:        it.Quantity,
		UnitPrice:       it.UnitPrice,
		DiscountType:    string(it.Discount.Type),
		DiscountAmount:  it.Discount.Amount,
		DiscountPercent: it.Discount.Percent,
		Subtotal:        it.Subtotal,
		FinalPrice:      it.FinalPrice,
	}
}

// ToSaleTransactionResponse converts a domain.SaleTransaction to its DTO.
func ToSaleTransactionResponse(s *domain.SaleTransaction) SaleTransactionResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = ToSaleItemResponse(&it)
	}
	resp := SaleTransactionResponse{
		SaleID:          s.SaleID,
		Items:           items,
		PaymentMethod:   string(s.PaymentMethod),
		DiscountType:    string(s.Discount.Type),
		DiscountAmount:  s.Discount.Amount,
		DiscountPercent: s.Discount.Percent,
		CustomerID:      s.CustomerID,
		SourceID:        s.SourceID,
		SourceType:      string(s.SourceType),
		TransactedBy:    s.TransactedBy,
		Status:          string(s.Status),
		Subtotal:        s.Subtotal,
		FinalPrice:      s.FinalPrice,
		CreatedAt:       s.CreatedAt,
	}
	if s.Credit != nil {
		resp.Credit = &CreditTermsResponse{
			CreditorName:      s.Credit.CreditorName,
			InstallmentAmount: s.Credit.InstallmentAmount,
			Frequency:         string(s.Credit.Frequency),
			StartDate:         s.Credit.StartDate,
			NextDueDate:       s.Credit.NextDueDate,
			PaidAmount:        s.Credit.PaidAmount,
			RemainingAmount:   s.Remaining(),
			Overdue:           s.Credit.Overdue,
		}
	}
	return resp
}

// ToListSaleTransactionResponse converts a slice of sales to DTOs.
func ToListSaleTransactionResponse(sales []domain.SaleTransaction) []SaleTransactionResponse {
	res := make([]SaleTransactionResponse, len(sales))
	for i := range sales {
		res[i] = ToSaleTransactionResponse(&sales[i])
	}
	return res
}
