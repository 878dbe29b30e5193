package booking

import (
	"math"
	"strings"
	"time"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
	StatusDeleted   Status = "deleted"
)

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled, StatusDeleted:
		return true
	default:
		return false
	}
}

// Booking is a single stay record. Dates are date-valued (UTC midnight);
// the stay interval is the half-open range [CheckIn, CheckOut).
type Booking struct {
	ID               string
	GuestName        string
	CheckIn          time.Time
	CheckOut         time.Time
	TotalAmount      float64
	CommissionAmount float64
	CollectedAmount  float64
	Collector        string
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// HasValidDates reports whether both stay dates are usable.
func (b Booking) HasValidDates() bool {
	return !b.CheckIn.IsZero() && !b.CheckOut.IsZero()
}

// Nights returns the stay length in nights, floored at 1. Zero-length and
// inverted stays are coerced to a single night by convention.
func (b Booking) Nights() int {
	nights := int(Day(b.CheckOut).Sub(Day(b.CheckIn)).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}

// EffectiveCheckOut is the checkout day after the minimum-night coercion.
// For well-formed bookings it equals Day(CheckOut).
func (b Booking) EffectiveCheckOut() time.Time {
	return Day(b.CheckIn).AddDate(0, 0, b.Nights())
}

// StayIncludes reports whether day falls inside the stay interval
// [CheckIn, EffectiveCheckOut). The checkout day itself is excluded.
func (b Booking) StayIncludes(day time.Time) bool {
	d := Day(day)
	return !d.Before(Day(b.CheckIn)) && d.Before(b.EffectiveCheckOut())
}

// Overlaps reports whether two stay intervals share at least one night.
func (b Booking) Overlaps(other Booking) bool {
	return Day(b.CheckIn).Before(other.EffectiveCheckOut()) &&
		Day(other.CheckIn).Before(b.EffectiveCheckOut())
}

// IsActive excludes cancelled and deleted bookings.
func (b Booking) IsActive() bool {
	return b.Status != StatusCancelled && b.Status != StatusDeleted
}

// GuestKey returns the normalized grouping key for this booking's guest.
func (b Booking) GuestKey() string {
	return NormalizeGuestKey(b.GuestName)
}

// NormalizeGuestKey lowercases a guest name, trims it and collapses
// internal whitespace runs to single spaces.
func NormalizeGuestKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Sanitize returns a copy with amount fields coerced into valid ranges:
// negative or NaN amounts become zero, and the commission is clamped to
// capRatio * TotalAmount when capRatio is positive. Bad imports must
// never poison a whole date's calculation, so this never fails.
func (b Booking) Sanitize(capRatio float64) Booking {
	b.TotalAmount = sanitizeAmount(b.TotalAmount)
	b.CommissionAmount = sanitizeAmount(b.CommissionAmount)
	b.CollectedAmount = sanitizeAmount(b.CollectedAmount)
	if capRatio > 0 {
		ceiling := b.TotalAmount * capRatio
		if b.CommissionAmount > ceiling {
			b.CommissionAmount = ceiling
		}
	}
	return b
}

func sanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Validate checks the invariants required before persisting a booking.
func (b Booking) Validate() error {
	if b.ID == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(b.GuestName) == "" {
		return ErrEmptyGuestName
	}
	if !b.HasValidDates() {
		return ErrInvalidDates
	}
	if Day(b.CheckOut).Before(Day(b.CheckIn)) {
		return ErrInvalidDates
	}
	if !b.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}
