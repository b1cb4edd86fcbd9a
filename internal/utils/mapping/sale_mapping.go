package mapping

import (
	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	"github.com/esmaelhussen/stock-managment-api/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelSaleTransaction converts a domain SaleTransaction to its table row.
// Credit terms flatten into the nullable credit columns.
func ToModelSaleTransaction(d domain.SaleTransaction) models.SaleTransaction {
	m := models.SaleTransaction{
		SaleID:          d.SaleID,
		PaymentMethod:   string(d.PaymentMethod),
		DiscountType:    string(d.Discount.Type),
		DiscountAmount:  d.Discount.Amount,
		DiscountPercent: d.Discount.Percent,
		CustomerID:      d.CustomerID,
		SourceID:        d.SourceID,
		SourceType:      string(d.SourceType),
		TransactedBy:    d.TransactedBy,
		Status:          string(d.Status),
		Subtotal:        d.Subtotal,
		FinalPrice:      d.FinalPrice,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
	if d.Credit != nil {
		creditorName := d.Credit.CreditorName
		installment := d.Credit.InstallmentAmount
		frequency := string(d.Credit.Frequency)
		startDate := d.Credit.StartDate
		nextDueDate := d.Credit.NextDueDate
		paidAmount := d.Credit.PaidAmount

		m.CreditorName = &creditorName
		m.InstallmentAmount = &installment
		m.CreditFrequency = &frequency
		m.CreditStartDate = &startDate
		m.NextDueDate = &nextDueDate
		m.PaidAmount = &paidAmount
		m.Overdue = d.Credit.Overdue
	}
	return m
}

// ToDomainSaleTransaction converts a table row plus its item rows back to the
// domain shape. Credit terms materialize only when the credit columns are set.
func ToDomainSaleTransaction(m models.SaleTransaction, items []models.SaleItem) domain.SaleTransaction {
	d := domain.SaleTransaction{
		SaleID:        m.SaleID,
		Items:         ToDomainSaleItemSlice(items),
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		Discount:      toDomainDiscount(m.DiscountType, m.DiscountAmount, m.DiscountPercent),
		CustomerID:    m.CustomerID,
		SourceID:      m.SourceID,
		SourceType:    domain.SourceType(m.SourceType),
		TransactedBy:  m.TransactedBy,
		Status:        domain.SaleStatus(m.Status),
		Subtotal:      m.Subtotal,
		FinalPrice:    m.FinalPrice,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.CreditorName != nil && m.InstallmentAmount != nil && m.CreditFrequency != nil &&
		m.CreditStartDate != nil && m.NextDueDate != nil {
		paid := decimal.Zero
		if m.PaidAmount != nil {
			paid = *m.PaidAmount
		}
		d.Credit = &domain.CreditTerms{
			CreditorName:      *m.CreditorName,
			InstallmentAmount: *m.InstallmentAmount,
			Frequency:         domain.CreditFrequency(*m.CreditFrequency),
			StartDate:         *m.CreditStartDate,
			NextDueDate:       *m.NextDueDate,
			PaidAmount:        paid,
			Overdue:           m.Overdue,
		}
	}
	return d
}

// ToModelSaleItem converts a domain SaleItem to its table row.
func ToModelSaleItem(d domain.SaleItem) models.SaleItem {
	return models.SaleItem{
		SaleItemID:      d.SaleItemID,
		SaleID:          d.SaleID,
		ProductID:       d.ProductID,
		Quantity:        d.Quantity,
		UnitPrice:       d.UnitPrice,
		DiscountType:    string(d.Discount.Type),
		DiscountAmount:  d.Discount.Amount,
		DiscountPercent: d.Discount.Percent,
		Subtotal:        d.Subtotal,
		DiscountValue:   d.DiscountAmount,
		FinalPrice:      d.FinalPrice,
	}
}

// ToDomainSaleItem converts a table row to a domain SaleItem.
func ToDomainSaleItem(m models.SaleItem) domain.SaleItem {
	return domain.SaleItem{
		SaleItemID:     m.SaleItemID,
		SaleID:         m.SaleID,
		ProductID:      m.ProductID,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		Discount:       toDomainDiscount(m.DiscountType, m.DiscountAmount, m.DiscountPercent),
		Subtotal:       m.Subtotal,
		DiscountAmount: m.DiscountValue,
		FinalPrice:     m.FinalPrice,
	}
}

// ToDomainSaleItemSlice converts item rows to domain SaleItems.
func ToDomainSaleItemSlice(ms []models.SaleItem) []domain.SaleItem {
	ds := make([]domain.SaleItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSaleItem(m)
	}
	return ds
}

func toDomainDiscount(discountType string, amount, percent decimal.Decimal) domain.DiscountSpec {
	switch domain.DiscountType(discountType) {
	case domain.DiscountFixed:
		return domain.DiscountSpec{Type: domain.DiscountFixed, Amount: amount}
	case domain.DiscountPercent:
		return domain.DiscountSpec{Type: domain.DiscountPercent, Percent: percent}
	default:
		return domain.NoDiscount()
	}
}
