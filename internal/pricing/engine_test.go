package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
)

func newTestEngine() *Engine {
	return NewEngine(decimal.RequireFromString("0.13"), DefaultPolicy().Factors()...)
}

// neutralContext keeps every factor at its neutral value
func neutralContext(basePrice float64) domain.PriceContext {
	return domain.PriceContext{
		BasePrice:     basePrice,
		DemandIndex:   1,
		Utilization:   0,
		Month:         time.June,
		LeadHours:     48,
		JobsInCart:    1,
		ServiceFeePct: 0.1,
	}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), field)
}

func assertBreakdown(t *testing.T, subtotal, fee, tax, total string, b domain.PriceBreakdown) {
	t.Helper()
	assertMoney(t, subtotal, b.SubtotalBeforeFees, "subtotal")
	assertMoney(t, fee, b.ServiceFee, "service fee")
	assertMoney(t, tax, b.Tax, "tax")
	assertMoney(t, total, b.Total, "total")
}

func TestComputePrice_NeutralScenario(t *testing.T) {
	b, err := newTestEngine().ComputePrice(neutralContext(100))
	require.NoError(t, err)

	assertBreakdown(t, "100.00", "10.00", "14.30", "124.30", b)
}

func TestApplyMembershipDiscount_TwentyPercent(t *testing.T) {
	b, err := newTestEngine().ComputePrice(neutralContext(100))
	require.NoError(t, err)

	discounted, discount, err := ApplyMembershipDiscount(b, 20)
	require.NoError(t, err)

	assertMoney(t, "20.00", discount, "discount")
	assertBreakdown(t, "80.00", "8.00", "11.44", "99.44", discounted)
}

func TestApplyMembershipDiscount_UsesFixedRates(t *testing.T) {
	ctx := neutralContext(100)
	ctx.ServiceFeePct = 0.2
	engine := NewEngine(decimal.RequireFromString("0.05"), DefaultPolicy().Factors()...)

	b, err := engine.ComputePrice(ctx)
	require.NoError(t, err)
	assertBreakdown(t, "100.00", "20.00", "6.00", "126.00", b)

	discounted, _, err := ApplyMembershipDiscount(b, 50)
	require.NoError(t, err)
	assertBreakdown(t, "50.00", "5.00", "7.15", "62.15", discounted)
}

func TestApplyMembershipDiscount_ZeroPercentIsIdentity(t *testing.T) {
	engine := newTestEngine()
	for _, base := range []float64{0, 0.01, 19.99, 100, 333.33, 1234.56} {
		b, err := engine.ComputePrice(neutralContext(base))
		require.NoError(t, err)

		discounted, discount, err := ApplyMembershipDiscount(b, 0)
		require.NoError(t, err)

		assert.True(t, discount.IsZero())
		assert.True(t, b.SubtotalBeforeFees.Equal(discounted.SubtotalBeforeFees), "base %v", base)
		assert.True(t, b.ServiceFee.Equal(discounted.ServiceFee), "base %v", base)
		assert.True(t, b.Tax.Equal(discounted.Tax), "base %v", base)
		assert.True(t, b.Total.Equal(discounted.Total), "base %v", base)
	}
}

func TestApplyMembershipDiscount_Monotonic(t *testing.T) {
	engine := newTestEngine()
	for _, base := range []float64{0, 1, 49.95, 100, 250.5} {
		b, err := engine.ComputePrice(neutralContext(base))
		require.NoError(t, err)

		for _, pct := range []float64{0, 5, 12.5, 50, 99.99, 100} {
			discounted, _, err := ApplyMembershipDiscount(b, pct)
			require.NoError(t, err)

			assert.True(t, discounted.Total.LessThanOrEqual(b.Total), "base %v pct %v", base, pct)
			assert.False(t, discounted.SubtotalBeforeFees.IsNegative(), "base %v pct %v", base, pct)
		}
	}
}

func TestApplyMembershipDiscount_FullDiscount(t *testing.T) {
	b, err := newTestEngine().ComputePrice(neutralContext(100))
	require.NoError(t, err)

	discounted, discount, err := ApplyMembershipDiscount(b, 100)
	require.NoError(t, err)

	assertMoney(t, "100.00", discount, "discount")
	assertBreakdown(t, "0.00", "0.00", "0.00", "0.00", discounted)
}

func TestApplyMembershipDiscount_Validation(t *testing.T) {
	b := domain.PriceBreakdown{SubtotalBeforeFees: decimal.NewFromInt(10)}

	for _, pct := range []float64{-1, 100.01, math.NaN(), math.Inf(1)} {
		_, _, err := ApplyMembershipDiscount(b, pct)
		assert.ErrorIs(t, err, ErrValidation, "pct %v", pct)
	}
}

func TestComputePrice_Validation(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name   string
		mutate func(c *domain.PriceContext)
	}{
		{"negative base price", func(c *domain.PriceContext) { c.BasePrice = -0.01 }},
		{"negative addons", func(c *domain.PriceContext) { c.AddonsTotal = -5 }},
		{"fee above one", func(c *domain.PriceContext) { c.ServiceFeePct = 1.01 }},
		{"nan demand", func(c *domain.PriceContext) { c.DemandIndex = math.NaN() }},
		{"infinite base", func(c *domain.PriceContext) { c.BasePrice = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := neutralContext(100)
			tt.mutate(&ctx)

			_, err := engine.ComputePrice(ctx)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestComputePrice_Factors(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name     string
		mutate   func(c *domain.PriceContext)
		subtotal string
	}{
		{"addons are added to base", func(c *domain.PriceContext) { c.AddonsTotal = 25 }, "125.00"},
		{"demand surcharge is capped", func(c *domain.PriceContext) { c.DemandIndex = 2 }, "150.00"},
		{"demand discount is capped", func(c *domain.PriceContext) { c.DemandIndex = 0 }, "80.00"},
		{"demand in range", func(c *domain.PriceContext) { c.DemandIndex = 1.25 }, "125.00"},
		{"utilization below threshold", func(c *domain.PriceContext) { c.Utilization = 0.5 }, "100.00"},
		{"utilization above threshold", func(c *domain.PriceContext) { c.Utilization = 0.85 }, "110.00"},
		{"full utilization", func(c *domain.PriceContext) { c.Utilization = 1 }, "120.00"},
		{"high season", func(c *domain.PriceContext) { c.Month = time.December }, "110.00"},
		{"low season", func(c *domain.PriceContext) { c.Month = time.January }, "95.00"},
		{"distance within free radius", func(c *domain.PriceContext) { c.DistanceKm = 10 }, "100.00"},
		{"distance beyond free radius", func(c *domain.PriceContext) { c.DistanceKm = 14 }, "102.00"},
		{"rush booking", func(c *domain.PriceContext) { c.LeadHours = 3 }, "115.00"},
		{"early booking", func(c *domain.PriceContext) { c.LeadHours = 400 }, "95.00"},
		{"two jobs in cart", func(c *domain.PriceContext) { c.JobsInCart = 2 }, "95.00"},
		{"large cart", func(c *domain.PriceContext) { c.JobsInCart = 5 }, "90.00"},
		{"weekly plan", func(c *domain.PriceContext) {
			c.Recurring = &domain.RecurringDiscount{Frequency: domain.RecurringWeekly}
		}, "85.00"},
		{"monthly plan", func(c *domain.PriceContext) {
			c.Recurring = &domain.RecurringDiscount{Frequency: domain.RecurringMonthly}
		}, "95.00"},
		{"composition", func(c *domain.PriceContext) {
			c.DemandIndex = 1.1
			c.Month = time.May
			c.JobsInCart = 2
		}, "114.95"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := neutralContext(100)
			tt.mutate(&ctx)

			b, err := engine.ComputePrice(ctx)
			require.NoError(t, err)
			assertMoney(t, tt.subtotal, b.SubtotalBeforeFees, "subtotal")
		})
	}
}

func TestComputePrice_RoundsHalfUp(t *testing.T) {
	ctx := neutralContext(100)
	ctx.LeadHours = 3

	b, err := newTestEngine().ComputePrice(ctx)
	require.NoError(t, err)

	// (115 + 11.50) * 0.13 = 16.445
	assertBreakdown(t, "115.00", "11.50", "16.45", "142.95", b)
}

func TestComputePrice_TotalInvariant(t *testing.T) {
	engine := newTestEngine()

	for _, base := range []float64{0, 0.05, 9.99, 57.77, 100, 149.5, 999.99} {
		for _, fee := range []float64{0, 0.05, 0.1, 0.175, 1} {
			for _, demand := range []float64{0.5, 1, 1.33} {
				ctx := neutralContext(base)
				ctx.ServiceFeePct = fee
				ctx.DemandIndex = demand
				ctx.DistanceKm = 12.3

				b, err := engine.ComputePrice(ctx)
				require.NoError(t, err)

				sum := round2(b.SubtotalBeforeFees.Add(b.ServiceFee).Add(b.Tax))
				assert.True(t, b.Total.Equal(sum), "base %v fee %v demand %v", base, fee, demand)
				assert.True(t, roundedToCents(b), "base %v fee %v demand %v", base, fee, demand)

				discounted, _, err := ApplyMembershipDiscount(b, 15)
				require.NoError(t, err)
				sum = round2(discounted.SubtotalBeforeFees.Add(discounted.ServiceFee).Add(discounted.Tax))
				assert.True(t, discounted.Total.Equal(sum))
			}
		}
	}
}

func TestComputePrice_WithoutFactors(t *testing.T) {
	engine := NewEngine(decimal.RequireFromString("0.13"))

	ctx := neutralContext(100)
	ctx.DemandIndex = 2
	ctx.LeadHours = 1

	b, err := engine.ComputePrice(ctx)
	require.NoError(t, err)
	assertBreakdown(t, "100.00", "10.00", "14.30", "124.30", b)
}

func roundedToCents(b domain.PriceBreakdown) bool {
	for _, d := range []decimal.Decimal{b.SubtotalBeforeFees, b.ServiceFee, b.Tax, b.Total} {
		if !d.Equal(d.Round(2)) {
			return false
		}
	}
	return true
}
