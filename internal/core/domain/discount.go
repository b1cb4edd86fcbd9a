package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountType indicates how a discount is expressed.
type DiscountType string

const (
	DiscountNone    DiscountType = "none"
	DiscountFixed   DiscountType = "fixed"
	DiscountPercent DiscountType = "percent"
)

var hundred = decimal.NewFromInt(100)

// DiscountSpec is a tagged discount variant. Exactly one of Amount or Percent
// is meaningful, selected by Type; this three-state encoding mirrors the wire
// format (discountType/discountAmount/discountPercent) and must be preserved.
type DiscountSpec struct {
	Type    DiscountType    `json:"discountType"`
	Amount  decimal.Decimal `json:"discountAmount"`  // read when Type == fixed
	Percent decimal.Decimal `json:"discountPercent"` // read when Type == percent
}

// NoDiscount returns the zero-effect discount spec.
func NoDiscount() DiscountSpec {
	return DiscountSpec{Type: DiscountNone}
}

// Validate checks the spec's static invariants: a known type, non-negative
// amount, and percent within [0, 100]. The upper percent bound is enforced as
// a hard invariant here so that a percent discount can never exceed its base.
func (d DiscountSpec) Validate() error {
	switch d.Type {
	case DiscountNone:
		return nil
	case DiscountFixed:
		if d.Amount.IsNegative() {
			return fmt.Errorf("fixed discount amount must not be negative, got %s", d.Amount)
		}
		return nil
	case DiscountPercent:
		if d.Percent.IsNegative() || d.Percent.GreaterThan(hundred) {
			return fmt.Errorf("percent discount must be between 0 and 100, got %s", d.Percent)
		}
		return nil
	default:
		return fmt.Errorf("unknown discount type %q", d.Type)
	}
}

// Resolve computes the discount amount (not the discounted total) for the
// given base. It never returns a negative value and never errors: a fixed
// discount is clamped to the base so the discounted total cannot go below
// zero, and a validated percent is <= base by construction.
func (d DiscountSpec) Resolve(base decimal.Decimal) decimal.Decimal {
	switch d.Type {
	case DiscountFixed:
		if d.Amount.GreaterThan(base) {
			return base
		}
		return d.Amount
	case DiscountPercent:
		return base.Mul(d.Percent).Div(hundred)
	default:
		return decimal.Zero
	}
}
