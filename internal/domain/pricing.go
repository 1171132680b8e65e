package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidPriceContext is returned when pricing inputs are out of range or not finite.
var ErrInvalidPriceContext = errors.New("domain: invalid price context")

// RecurringFrequency of a recurring cleaning plan
type RecurringFrequency string

const (
	RecurringWeekly   RecurringFrequency = "weekly"
	RecurringBiweekly RecurringFrequency = "biweekly"
	RecurringMonthly  RecurringFrequency = "monthly"
)

// IsValid reports whether the frequency is one of the supported plans
func (f RecurringFrequency) IsValid() bool {
	switch f {
	case RecurringWeekly, RecurringBiweekly, RecurringMonthly:
		return true
	default:
		return false
	}
}

// RecurringDiscount describes a recurring plan attached to a quote
type RecurringDiscount struct {
	Frequency RecurringFrequency
}

// PriceContext holds the inputs of the pricing engine.
// Neutral values: DemandIndex 1, Utilization 0, DistanceKm 0, JobsInCart 1, Recurring nil.
type PriceContext struct {
	BasePrice     float64
	AddonsTotal   float64
	DemandIndex   float64
	Utilization   float64
	DistanceKm    float64
	Month         time.Month
	LeadHours     float64
	JobsInCart    int
	Recurring     *RecurringDiscount
	ServiceFeePct float64
}

// Validate rejects negative amounts, out-of-range rates and non-finite numbers
func (c PriceContext) Validate() error {
	// Fixed order so the first non-finite field is always the one reported
	numbers := []struct {
		name  string
		value float64
	}{
		{"basePrice", c.BasePrice},
		{"addonsTotal", c.AddonsTotal},
		{"demandIndex", c.DemandIndex},
		{"utilization", c.Utilization},
		{"distanceKm", c.DistanceKm},
		{"leadHours", c.LeadHours},
		{"serviceFeePct", c.ServiceFeePct},
	}
	for _, n := range numbers {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidPriceContext, n.name)
		}
	}

	switch {
	case c.BasePrice < 0:
		return fmt.Errorf("%w: basePrice must not be negative", ErrInvalidPriceContext)
	case c.AddonsTotal < 0:
		return fmt.Errorf("%w: addonsTotal must not be negative", ErrInvalidPriceContext)
	case c.DemandIndex < 0:
		return fmt.Errorf("%w: demandIndex must not be negative", ErrInvalidPriceContext)
	case c.Utilization < 0 || c.Utilization > 1:
		return fmt.Errorf("%w: utilization must be within [0, 1]", ErrInvalidPriceContext)
	case c.DistanceKm < 0:
		return fmt.Errorf("%w: distanceKm must not be negative", ErrInvalidPriceContext)
	case c.Month < time.January || c.Month > time.December:
		return fmt.Errorf("%w: month must be within 1..12", ErrInvalidPriceContext)
	case c.LeadHours < 0:
		return fmt.Errorf("%w: leadHours must not be negative", ErrInvalidPriceContext)
	case c.JobsInCart < 1:
		return fmt.Errorf("%w: jobsInCart must be at least 1", ErrInvalidPriceContext)
	case c.ServiceFeePct < 0 || c.ServiceFeePct > 1:
		return fmt.Errorf("%w: serviceFeePct must be within [0, 1]", ErrInvalidPriceContext)
	}

	if c.Recurring != nil && !c.Recurring.Frequency.IsValid() {
		return fmt.Errorf("%w: unknown recurring frequency %q", ErrInvalidPriceContext, c.Recurring.Frequency)
	}

	return nil
}

// PriceBreakdown is the priced quote. After every pricing step
// Total == round2(SubtotalBeforeFees + ServiceFee + Tax).
type PriceBreakdown struct {
	SubtotalBeforeFees decimal.Decimal
	ServiceFee         decimal.Decimal
	Tax                decimal.Decimal
	Total              decimal.Decimal
}

// PricingRule is the pricing policy for a service (ServiceID nil = global rule)
type PricingRule struct {
	ID            int64
	ServiceID     *int64
	BasePrice     decimal.Decimal
	ServiceFeePct decimal.Decimal
	DemandIndex   decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsGlobal returns true if the rule applies to every service without a specific rule
func (r *PricingRule) IsGlobal() bool {
	return r.ServiceID == nil
}
