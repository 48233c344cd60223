package usecase

import (
	"time"

	"transit-hub/internal/data/entity"
)

// classMultipliers scales the base fare per travel class. Unknown classes
// fall back to 1.0.
var classMultipliers = map[string]float64{
	"SL":       1.0,
	"3A":       1.5,
	"2A":       2.0,
	"1A":       3.0,
	"ECONOMY":  1.0,
	"BUSINESS": 2.5,
}

// FarePolicy computes booking totals. Pure: the result is frozen into the
// booking at creation and never recomputed, so later fare changes do not
// touch existing bookings.
type FarePolicy struct{}

func (FarePolicy) Multiplier(classCode string) float64 {
	if m, ok := classMultipliers[classCode]; ok {
		return m
	}
	return 1.0
}

func (p FarePolicy) FareFor(baseFare float64, classCode string, passengerCount int) float64 {
	return baseFare * p.Multiplier(classCode) * float64(passengerCount)
}

// FeePolicy computes cancellation fees. Waitlisted bookings never held a
// seat, so they cancel free. Confirmed bookings pay 10% within the first
// 24 hours after creation and 25% afterwards.
type FeePolicy struct{}

func (FeePolicy) FeeFor(booking *entity.Booking, now time.Time) float64 {
	if booking.Status != entity.BookingStatusConfirmed {
		return 0
	}
	if now.Sub(booking.CreatedAt) <= 24*time.Hour {
		return booking.TotalAmount * 0.10
	}
	return booking.TotalAmount * 0.25
}
