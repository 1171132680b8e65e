package get_quote

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	"github.com/m04kA/SMC-InstantBookingService/internal/service/quote/models"
	"github.com/m04kA/SMC-InstantBookingService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid start time")
)

// QuoteRequest HTTP request model
type QuoteRequest struct {
	ServiceID     int64   `json:"serviceId" validate:"required,gt=0"`
	AddressID     int64   `json:"addressId" validate:"gte=0"`
	Date          string  `json:"date" validate:"required"`      // "2025-10-15"
	StartTime     string  `json:"startTime" validate:"required"` // "10:00"
	DurationHours int     `json:"durationHours"`
	AddonIDs      []int64 `json:"addonIds,omitempty" validate:"max=20,dive,gt=0"`
	DistanceKm    float64 `json:"distanceKm" validate:"gte=0"`
	JobsInCart    int     `json:"jobsInCart" validate:"gte=0"`
	Recurring     *string `json:"recurring,omitempty" validate:"omitempty,oneof=weekly biweekly monthly"`
}

// MembershipResponse примененная скидка по клубной карте
type MembershipResponse struct {
	MembershipID       int64  `json:"membershipId"`
	DiscountPercentage string `json:"discountPercentage"`
	DiscountAmount     string `json:"discountAmount"`
	OriginalTotal      string `json:"originalTotal"`
}

// QuoteResponse HTTP response model
type QuoteResponse struct {
	ProviderID         int64               `json:"providerId"`
	Date               string              `json:"date"`
	StartTime          string              `json:"startTime"`
	EndTime            string              `json:"endTime"`
	DurationMinutes    int                 `json:"durationMinutes"`
	SubtotalBeforeFees string              `json:"subtotalBeforeFees"`
	ServiceFee         string              `json:"serviceFee"`
	Tax                string              `json:"tax"`
	Total              string              `json:"total"`
	Membership         *MembershipResponse `json:"membership,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *QuoteRequest) ToServiceRequest(customerID int64) (*models.QuoteRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	var recurring *domain.RecurringFrequency
	if r.Recurring != nil {
		freq := domain.RecurringFrequency(*r.Recurring)
		recurring = &freq
	}

	return &models.QuoteRequest{
		CustomerID:    customerID,
		ServiceID:     r.ServiceID,
		AddressID:     r.AddressID,
		Date:          date,
		StartTime:     startTime,
		DurationHours: r.DurationHours,
		AddonIDs:      r.AddonIDs,
		DistanceKm:    r.DistanceKm,
		JobsInCart:    r.JobsInCart,
		Recurring:     recurring,
	}, nil
}

// FromDecision конвертирует результат сервиса в HTTP response
func FromDecision(d *models.Decision) *QuoteResponse {
	resp := &QuoteResponse{
		ProviderID:         d.ProviderID,
		Date:               d.Date.Format(domain.DateFormat),
		StartTime:          d.StartTime.String(),
		DurationMinutes:    d.DurationMinutes,
		SubtotalBeforeFees: d.Breakdown.SubtotalBeforeFees.StringFixed(2),
		ServiceFee:         d.Breakdown.ServiceFee.StringFixed(2),
		Tax:                d.Breakdown.Tax.StringFixed(2),
		Total:              d.Breakdown.Total.StringFixed(2),
	}

	// Окончание в полночь отображается как 00:00
	if end, err := types.NewTimeStringFromMinutes(d.Interval.End % domain.MinutesPerDay); err == nil {
		resp.EndTime = end.String()
	}

	if d.Membership != nil {
		resp.Membership = &MembershipResponse{
			MembershipID:       d.Membership.MembershipID,
			DiscountPercentage: d.Membership.Percentage.String(),
			DiscountAmount:     d.Membership.DiscountAmount.StringFixed(2),
			OriginalTotal:      d.Membership.OriginalTotal.StringFixed(2),
		}
	}

	return resp
}
