package occupancy

import (
	"time"

	booking "frontdesk-cloud/internal/booking/domain"
)

// DailyActivity is the occupancy and revenue picture for one calendar day.
// Arrivals, Staying and Departures are pairwise disjoint: a booking touching
// the day lands in exactly one of them.
type DailyActivity struct {
	Day             time.Time
	Arrivals        []booking.Booking
	Staying         []booking.Booking
	Departures      []booking.Booking
	RevenueTotal    float64
	CommissionTotal float64
	// Skipped counts bookings dropped for missing or unusable dates.
	Skipped int
}

// ComputeDailyActivity classifies each booking against the target day and
// accumulates the revenue attributable to that day.
//
// Classification uses the half-open stay interval [CheckIn, CheckOut):
// a booking arrives when CheckIn equals the day, stays when the day is
// strictly inside the interval, and departs when the effective checkout
// equals the day. The lower bound is strict for "staying" so an arriving
// guest is never counted twice on the same day.
//
// Revenue is distributed per night: every day inside the stay interval
// receives TotalAmount/Nights and CommissionAmount/Nights. The departure
// day is outside the interval and receives nothing. Summed over the whole
// interval the contributions reconstruct the original amounts.
//
// Callers must pre-filter cancelled and deleted bookings; this function is
// date-oriented and performs no status filtering.
func ComputeDailyActivity(bookings []booking.Booking, day time.Time) (DailyActivity, error) {
	if len(bookings) == 0 {
		return DailyActivity{}, ErrNoBookings
	}

	target := booking.Day(day)
	activity := DailyActivity{Day: target}

	for _, b := range bookings {
		if !b.HasValidDates() {
			activity.Skipped++
			continue
		}

		checkIn := booking.Day(b.CheckIn)
		checkOut := b.EffectiveCheckOut()

		switch {
		case checkIn.Equal(target):
			activity.Arrivals = append(activity.Arrivals, b)
		case checkIn.Before(target) && target.Before(checkOut):
			activity.Staying = append(activity.Staying, b)
		case checkOut.Equal(target):
			activity.Departures = append(activity.Departures, b)
		default:
			continue
		}

		if b.StayIncludes(target) {
			nights := float64(b.Nights())
			clean := b.Sanitize(0)
			activity.RevenueTotal += clean.TotalAmount / nights
			activity.CommissionTotal += clean.CommissionAmount / nights
		}
	}

	return activity, nil
}
