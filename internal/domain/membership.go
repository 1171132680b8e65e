package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MembershipStatus of a customer membership card
type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "active"
	MembershipSuspended MembershipStatus = "suspended"
	MembershipExpired   MembershipStatus = "expired"
)

// Membership is a customer membership card granting a percentage discount
type Membership struct {
	ID                 int64
	CustomerID         int64
	DiscountPercentage decimal.Decimal // 0..100
	Status             MembershipStatus
	ActivatedAt        *time.Time
	ExpiresAt          *time.Time
	TotalSavings       decimal.Decimal
	OrderCount         int
	CreatedAt          time.Time
}

// IsUsableAt returns true if the membership is active, activated and not expired at the moment
func (m *Membership) IsUsableAt(now time.Time) bool {
	if m.Status != MembershipActive || m.ActivatedAt == nil {
		return false
	}
	if m.ExpiresAt != nil && !m.ExpiresAt.After(now) {
		return false
	}
	return m.DiscountPercentage.IsPositive()
}

// MembershipUsage is the bookkeeping record written after a discounted booking
type MembershipUsage struct {
	MembershipID   int64
	BookingID      int64
	OriginalAmount decimal.Decimal // total before the discount
	DiscountAmount decimal.Decimal
	CreatedAt      time.Time
}
