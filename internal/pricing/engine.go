package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)

	membershipServiceFeeRate = decimal.RequireFromString(domain.MembershipServiceFeeRate)
	membershipTaxRate        = decimal.RequireFromString(domain.MembershipTaxRate)
)

// Engine computes price breakdowns. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	taxRate decimal.Decimal
	factors []Factor
}

// NewEngine creates an engine with the given tax rate and factor pipeline.
// Factors are applied in the order given.
func NewEngine(taxRate decimal.Decimal, factors ...Factor) *Engine {
	return &Engine{
		taxRate: taxRate,
		factors: factors,
	}
}

// TaxRate returns the tax rate used for initial quotes
func (e *Engine) TaxRate() decimal.Decimal {
	return e.taxRate
}

// ComputePrice runs the factor pipeline and derives fee, tax and total.
// Order: subtotal, service fee on subtotal, tax on subtotal plus fee, total.
func (e *Engine) ComputePrice(ctx domain.PriceContext) (domain.PriceBreakdown, error) {
	if err := ctx.Validate(); err != nil {
		return domain.PriceBreakdown{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	amount := decimal.NewFromFloat(ctx.BasePrice).Add(decimal.NewFromFloat(ctx.AddonsTotal))
	for _, f := range e.factors {
		amount = f.Apply(amount, ctx)
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	subtotal := round2(amount)
	return breakdown(subtotal, decimal.NewFromFloat(ctx.ServiceFeePct), e.taxRate), nil
}

// ApplyMembershipDiscount discounts the subtotal by percentage and re-derives service fee
// and tax from the discounted subtotal with the fixed membership rates (10% fee, 13% tax),
// not with the rates the breakdown was computed with.
// Returns the adjusted breakdown and the discount amount.
func ApplyMembershipDiscount(b domain.PriceBreakdown, percentage float64) (domain.PriceBreakdown, decimal.Decimal, error) {
	if math.IsNaN(percentage) || math.IsInf(percentage, 0) {
		return domain.PriceBreakdown{}, decimal.Zero, fmt.Errorf("%w: percentage is not a finite number", ErrValidation)
	}
	if percentage < 0 || percentage > 100 {
		return domain.PriceBreakdown{}, decimal.Zero, fmt.Errorf("%w: percentage must be within [0, 100], got %v", ErrValidation, percentage)
	}

	discount := round2(b.SubtotalBeforeFees.Mul(decimal.NewFromFloat(percentage)).Div(hundred))
	subtotal := b.SubtotalBeforeFees.Sub(discount)
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}

	return breakdown(round2(subtotal), membershipServiceFeeRate, membershipTaxRate), discount, nil
}

func breakdown(subtotal, feeRate, taxRate decimal.Decimal) domain.PriceBreakdown {
	fee := round2(subtotal.Mul(feeRate))
	tax := round2(subtotal.Add(fee).Mul(taxRate))
	total := round2(subtotal.Add(fee).Add(tax))

	return domain.PriceBreakdown{
		SubtotalBeforeFees: subtotal,
		ServiceFee:         fee,
		Tax:                tax,
		Total:              total,
	}
}

// round2 rounds half away from zero to the currency minor unit; amounts here are never negative,
// so this is round-half-up.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
