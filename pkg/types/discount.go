package types

import (
	"github.com/shopspring/decimal"

	"github.com/quotelane/quotelane-backend/pkg/enums"
)

// Discount pairs a non-negative value with how it is applied. A nil
// *Discount means no discount at that stage.
type Discount struct {
	Value decimal.Decimal    `json:"value"`
	Type  enums.DiscountType `json:"type"`
}

// AmountOff computes the reduction this discount takes from the given base.
func (d *Discount) AmountOff(base decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	if d.Type == enums.DiscountTypePercentage {
		return base.Mul(d.Value).Div(decimal.NewFromInt(100))
	}
	return d.Value
}

// Valid reports whether the discount carries a known type and a
// non-negative value.
func (d *Discount) Valid() bool {
	if d == nil {
		return true
	}
	return d.Type.IsValid() && !d.Value.IsNegative()
}
