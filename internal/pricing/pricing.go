package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/quotelane/quotelane-backend/pkg/db/models"
	"github.com/quotelane/quotelane-backend/pkg/types"
)

// Breakdown is the derived money view of a quote. Every amount is computed
// from the line items and discounts at call time; nothing here is stored.
type Breakdown struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	InitialAmount  decimal.Decimal `json:"initial_discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_discount_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// ComputeTotal derives subtotal and net total from the line items and up to
// two sequential discounts. The initial discount is applied against the
// subtotal, the final discount against the remainder. The total never drops
// below zero no matter how large the discounts are.
func ComputeTotal(items []models.LineItem, initial, final *types.Discount) Breakdown {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price)
	}

	running := subtotal
	initialAmount := discountAmount(running, initial)
	running = running.Sub(initialAmount)

	finalAmount := discountAmount(running, final)
	running = running.Sub(finalAmount)

	if running.IsNegative() {
		running = decimal.Zero
	}

	return Breakdown{
		Subtotal:       subtotal,
		InitialAmount:  initialAmount,
		FinalAmount:    finalAmount,
		DiscountAmount: initialAmount.Add(finalAmount),
		Total:          running,
	}
}

// ForQuote computes the breakdown using the discounts stored on the quote.
func ForQuote(quote *models.Quote) Breakdown {
	if quote == nil {
		return ComputeTotal(nil, nil, nil)
	}
	return ComputeTotal(quote.LineItems, quote.InitialDiscount(), quote.FinalDiscount())
}

func discountAmount(base decimal.Decimal, d *types.Discount) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return d.AmountOff(base)
}
