package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
)

// Factor is one step of the subtotal adjustment pipeline.
// Apply receives the running amount and returns the adjusted one.
type Factor interface {
	Name() string
	Apply(amount decimal.Decimal, ctx domain.PriceContext) decimal.Decimal
}

// Policy holds the tunables of the default factor pipeline.
type Policy struct {
	DemandMinAdjustment float64
	DemandMaxAdjustment float64

	UtilizationThreshold float64
	UtilizationSurge     float64

	SeasonalAdjustments map[time.Month]float64

	FreeDistanceKm float64
	PerKmCharge    float64

	RushLeadHours   float64
	RushMultiplier  float64
	EarlyLeadHours  float64
	EarlyMultiplier float64

	TwoJobsDiscount     float64
	ThreeOrMoreDiscount float64
	RecurringDiscounts  map[domain.RecurringFrequency]float64
}

// DefaultPolicy returns the policy used when the configuration does not override it.
func DefaultPolicy() Policy {
	return Policy{
		DemandMinAdjustment:  -0.2,
		DemandMaxAdjustment:  0.5,
		UtilizationThreshold: 0.7,
		UtilizationSurge:     0.2,
		SeasonalAdjustments: map[time.Month]float64{
			time.January:  -0.05,
			time.February: -0.05,
			time.April:    0.10,
			time.May:      0.10,
			time.December: 0.10,
		},
		FreeDistanceKm:      10,
		PerKmCharge:         0.5,
		RushLeadHours:       24,
		RushMultiplier:      1.15,
		EarlyLeadHours:      336,
		EarlyMultiplier:     0.95,
		TwoJobsDiscount:     0.05,
		ThreeOrMoreDiscount: 0.10,
		RecurringDiscounts: map[domain.RecurringFrequency]float64{
			domain.RecurringWeekly:   0.15,
			domain.RecurringBiweekly: 0.10,
			domain.RecurringMonthly:  0.05,
		},
	}
}

// Factors builds the pipeline in its fixed order:
// demand, utilization, season, distance, lead time, cart, recurring.
func (p Policy) Factors() []Factor {
	seasonal := make(map[time.Month]decimal.Decimal, len(p.SeasonalAdjustments))
	for m, pct := range p.SeasonalAdjustments {
		seasonal[m] = decimal.NewFromFloat(pct)
	}
	recurring := make(map[domain.RecurringFrequency]decimal.Decimal, len(p.RecurringDiscounts))
	for f, pct := range p.RecurringDiscounts {
		recurring[f] = decimal.NewFromFloat(pct)
	}

	return []Factor{
		demandFactor{
			min: decimal.NewFromFloat(p.DemandMinAdjustment),
			max: decimal.NewFromFloat(p.DemandMaxAdjustment),
		},
		utilizationFactor{
			threshold: decimal.NewFromFloat(p.UtilizationThreshold),
			surge:     decimal.NewFromFloat(p.UtilizationSurge),
		},
		seasonFactor{adjustments: seasonal},
		distanceFactor{
			freeKm: decimal.NewFromFloat(p.FreeDistanceKm),
			perKm:  decimal.NewFromFloat(p.PerKmCharge),
		},
		leadTimeFactor{
			rushHours:       p.RushLeadHours,
			rushMultiplier:  decimal.NewFromFloat(p.RushMultiplier),
			earlyHours:      p.EarlyLeadHours,
			earlyMultiplier: decimal.NewFromFloat(p.EarlyMultiplier),
		},
		cartFactor{
			two:         decimal.NewFromFloat(p.TwoJobsDiscount),
			threeOrMore: decimal.NewFromFloat(p.ThreeOrMoreDiscount),
		},
		recurringFactor{discounts: recurring},
	}
}

// demandFactor: ×(1 + clamp(demandIndex-1, min, max))
type demandFactor struct {
	min, max decimal.Decimal
}

func (demandFactor) Name() string { return "demand" }

func (f demandFactor) Apply(amount decimal.Decimal, ctx domain.PriceContext) decimal.Decimal {
	adj := decimal.NewFromFloat(ctx.DemandIndex).Sub(one)
	if adj.LessThan(f.min) {
		adj = f.min
	}
	if adj.GreaterThan(f.max) {
		adj = f.max
	}
	return amount.Mul(one.Add(adj))
}

// utilizationFactor: surcharge grows linearly from the threshold up to full utilization
type utilizationFactor struct {
	threshold, surge decimal.Decimal
}

func (utilizationFactor) Name() string { return "utilization" }

func (f utilizationFactor) Apply(amount decimal.Decimal, ctx domain.PriceContext) decimal.Decimal {
	u := decimal.NewFromFloat(ctx.Utilization)
	if !u.GreaterThan(f.threshold) || !f.threshold.LessThan(one) {
		return amount
	}
	share := u.Sub(f.threshold).Div(one.Sub(f.threshold))
	return amount.Mul(one.Add(f.surge.Mul(share)))
}

type seasonFactor struct {
	adjustments map[time.Month]decimal.Decimal
}

func (seasonFactor) Name() string { return "season" }

func (f seasonFactor) Apply(amount decimal.Decimal, ctx domain.PriceContext) decimal.Decimal {
	adj, ok := f.adjustments[ctx.Month]
	if !ok {
		return amount
	}
	return amount.Mul(one.Add(adj))
}

// distanceFactor adds a per-km charge beyond the free radius
type distanceFactor struct {
	freeKm, perKm decimal.Decimal
}

func (distanceFactor) Name() string { return "distance" }

func (f distanceFactor) Apply(amount decimal.Decimal, ctx domain.PriceContext) decimal.Decimal {
	extra := decimal.NewFromFloat(ctx.DistanceKm).Sub(f.freeKm)
	if !extra.IsPositive() {
		return amount
	}
	return amount.Add(extra.Mul(f.perKm))
}

type leadTimeFactor struct {
	rushHours       float64
	rushMultiplier  decimal.Decimal
	earlyHours      float64
	earlyMultiplier decimal.Decimal
}

func (leadTimeFactor) Name() string { return "lead_time" }

func (f leadTimeFactor) Apply(amount decimal.Decimal, ctx domain.PriceContext) decimal.Decimal {
	switch {
	case ctx.LeadHours < f.rushHours:
		return amount.Mul(f.rushMultiplier)
	case ctx.LeadHours >= f.earlyHours:
		return amount.Mul(f.earlyMultiplier)
	default:
		return amount
	}
}

type cartFactor struct {
	two, threeOrMore decimal.Decimal
}

func (cartFactor) Name() string { return "cart" }

func (f cartFactor) Apply(amount decimal.Decimal, ctx domain.PriceContext) decimal.Decimal {
	switch {
	case ctx.JobsInCart >= 3:
		return amount.Mul(one.Sub(f.threeOrMore))
	case ctx.JobsInCart == 2:
		return amount.Mul(one.Sub(f.two))
	default:
		return amount
	}
}

type recurringFactor struct {
	discounts map[domain.RecurringFrequency]decimal.Decimal
}

func (recurringFactor) Name() string { return "recurring" }

func (f recurringFactor) Apply(amount decimal.Decimal, ctx domain.PriceContext) decimal.Decimal {
	if ctx.Recurring == nil {
		return amount
	}
	pct, ok := f.discounts[ctx.Recurring.Frequency]
	if !ok {
		return amount
	}
	return amount.Mul(one.Sub(pct))
}
