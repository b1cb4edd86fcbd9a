package domain_test

import (
	"testing"
	"time"

	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleItem_Price(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int64
		unitPrice    string
		discount     domain.DiscountSpec
		wantSubtotal string
		wantDiscount string
		wantFinal    string
	}{
		{"no discount", 3, "10", domain.NoDiscount(), "30", "0", "30"},
		{"fixed discount", 2, "25", domain.DiscountSpec{Type: domain.DiscountFixed, Amount: dec("5")}, "50", "5", "45"},
		{"fixed discount clamped", 1, "50", domain.DiscountSpec{Type: domain.DiscountFixed, Amount: dec("100")}, "50", "50", "0"},
		{"percent discount", 4, "50", domain.DiscountSpec{Type: domain.DiscountPercent, Percent: dec("20")}, "200", "40", "160"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := domain.SaleItem{
				Quantity:  tt.quantity,
				UnitPrice: dec(tt.unitPrice),
				Discount:  tt.discount,
			}
			it.Price()
			assert.True(t, dec(tt.wantSubtotal).Equal(it.Subtotal), "subtotal: want %s, got %s", tt.wantSubtotal, it.Subtotal)
			assert.True(t, dec(tt.wantDiscount).Equal(it.DiscountAmount), "discount: want %s, got %s", tt.wantDiscount, it.DiscountAmount)
			assert.True(t, dec(tt.wantFinal).Equal(it.FinalPrice), "final: want %s, got %s", tt.wantFinal, it.FinalPrice)
		})
	}
}

func pricedItem(productID string, quantity int64, unitPrice string, discount domain.DiscountSpec) domain.SaleItem {
	it := domain.SaleItem{ProductID: productID, Quantity: quantity, UnitPrice: dec(unitPrice), Discount: discount}
	it.Price()
	return it
}

func TestAggregateTotals(t *testing.T) {
	// Two-line sale: 3 x 10 birr plus 2 x 25 birr with a 5 birr line
	// discount, then 10% off the whole transaction.
	items := []domain.SaleItem{
		pricedItem("prod-a", 3, "10", domain.NoDiscount()),
		pricedItem("prod-b", 2, "25", domain.DiscountSpec{Type: domain.DiscountFixed, Amount: dec("5")}),
	}

	subtotal, finalPrice := domain.AggregateTotals(items, domain.DiscountSpec{Type: domain.DiscountPercent, Percent: dec("10")})

	assert.True(t, dec("75").Equal(subtotal), "subtotal: want 75, got %s", subtotal)
	assert.True(t, dec("67.5").Equal(finalPrice), "final: want 67.5, got %s", finalPrice)

	t.Run("order independent", func(t *testing.T) {
		reversed := []domain.SaleItem{items[1], items[0]}
		s2, f2 := domain.AggregateTotals(reversed, domain.DiscountSpec{Type: domain.DiscountPercent, Percent: dec("10")})
		assert.True(t, subtotal.Equal(s2))
		assert.True(t, finalPrice.Equal(f2))
	})

	t.Run("empty items yield zero totals", func(t *testing.T) {
		s, f := domain.AggregateTotals(nil, domain.NoDiscount())
		assert.True(t, s.IsZero())
		assert.True(t, f.IsZero())
	})

	t.Run("transaction fixed discount clamped to subtotal", func(t *testing.T) {
		s, f := domain.AggregateTotals(items, domain.DiscountSpec{Type: domain.DiscountFixed, Amount: dec("1000")})
		assert.True(t, dec("75").Equal(s))
		assert.True(t, f.IsZero())
	})
}

func creditSale(finalPrice string) *domain.SaleTransaction {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return &domain.SaleTransaction{
		SaleID:        "sale-1",
		PaymentMethod: domain.PaymentCredit,
		Status:        domain.StatusUnpaid,
		FinalPrice:    dec(finalPrice),
		Credit: &domain.CreditTerms{
			CreditorName:      "Abebe Kebede",
			InstallmentAmount: dec("10"),
			Frequency:         domain.FrequencyWeekly,
			StartDate:         start,
			NextDueDate:       start,
			PaidAmount:        decimal.Zero,
		},
	}
}

func TestSaleTransaction_ApplyCreditPayment(t *testing.T) {
	t.Run("partial then settling payment", func(t *testing.T) {
		sale := creditSale("50")

		require.NoError(t, sale.ApplyCreditPayment(dec("30")))
		assert.Equal(t, domain.StatusUnpaid, sale.Status)
		assert.True(t, dec("20").Equal(sale.Remaining()))

		require.NoError(t, sale.ApplyCreditPayment(dec("20")))
		assert.Equal(t, domain.StatusPaid, sale.Status)
		assert.True(t, sale.Remaining().IsZero())
		assert.False(t, sale.Credit.Overdue)
	})

	t.Run("payment on settled sale rejected", func(t *testing.T) {
		sale := creditSale("50")
		require.NoError(t, sale.ApplyCreditPayment(dec("50")))
		assert.Equal(t, domain.StatusPaid, sale.Status)

		err := sale.ApplyCreditPayment(dec("1"))
		assert.ErrorIs(t, err, domain.ErrAlreadySettled)
	})

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		sale := creditSale("50")
		assert.ErrorIs(t, sale.ApplyCreditPayment(decimal.Zero), domain.ErrInvalidPaymentAmount)
		assert.ErrorIs(t, sale.ApplyCreditPayment(dec("-5")), domain.ErrInvalidPaymentAmount)
		assert.True(t, sale.Credit.PaidAmount.IsZero())
	})

	t.Run("overpayment rejected and ledger unchanged", func(t *testing.T) {
		sale := creditSale("50")
		require.NoError(t, sale.ApplyCreditPayment(dec("30")))

		err := sale.ApplyCreditPayment(dec("20.01"))
		assert.ErrorIs(t, err, domain.ErrExceedsRemaining)
		assert.True(t, dec("30").Equal(sale.Credit.PaidAmount))
		assert.Equal(t, domain.StatusUnpaid, sale.Status)
	})

	t.Run("payment on non-credit sale rejected", func(t *testing.T) {
		sale := &domain.SaleTransaction{
			SaleID:        "sale-2",
			PaymentMethod: domain.PaymentTelebirr,
			Status:        domain.StatusPaid,
			FinalPrice:    dec("50"),
		}
		err := sale.ApplyCreditPayment(dec("10"))
		assert.ErrorIs(t, err, domain.ErrNotCreditSale)
	})

	t.Run("settled overdue sale clears its flag", func(t *testing.T) {
		sale := creditSale("50")
		sale.Credit.Overdue = true
		require.NoError(t, sale.ApplyCreditPayment(dec("50")))
		assert.False(t, sale.Credit.Overdue)
	})
}

func TestSaleTransaction_IsOverdue(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("unpaid past due date", func(t *testing.T) {
		sale := creditSale("50")
		assert.True(t, sale.IsOverdue(start.Add(time.Hour)))
	})

	t.Run("not yet due", func(t *testing.T) {
		sale := creditSale("50")
		assert.False(t, sale.IsOverdue(start.Add(-time.Hour)))
	})

	t.Run("exactly at due date is not overdue", func(t *testing.T) {
		sale := creditSale("50")
		assert.False(t, sale.IsOverdue(start))
	})

	t.Run("settled sale never overdue", func(t *testing.T) {
		sale := creditSale("50")
		require.NoError(t, sale.ApplyCreditPayment(dec("50")))
		assert.False(t, sale.IsOverdue(start.AddDate(0, 1, 0)))
	})

	t.Run("non-credit sale never overdue", func(t *testing.T) {
		sale := &domain.SaleTransaction{Status: domain.StatusPaid}
		assert.False(t, sale.IsOverdue(start.AddDate(1, 0, 0)))
	})
}
