package booking

import (
	"errors"
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNights(t *testing.T) {
	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"three nights", date(2025, 6, 20), date(2025, 6, 23), 3},
		{"one night", date(2025, 6, 20), date(2025, 6, 21), 1},
		{"zero length coerced", date(2025, 6, 20), date(2025, 6, 20), 1},
		{"inverted coerced", date(2025, 6, 23), date(2025, 6, 20), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := Booking{CheckIn: tc.checkIn, CheckOut: tc.checkOut}
			if got := b.Nights(); got != tc.want {
				t.Fatalf("Nights() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestStayIncludesHalfOpen(t *testing.T) {
	b := Booking{CheckIn: date(2025, 6, 20), CheckOut: date(2025, 6, 23)}

	if !b.StayIncludes(date(2025, 6, 20)) {
		t.Fatal("check-in day must be inside the stay interval")
	}
	if !b.StayIncludes(date(2025, 6, 22)) {
		t.Fatal("middle day must be inside the stay interval")
	}
	if b.StayIncludes(date(2025, 6, 23)) {
		t.Fatal("checkout day must be outside the stay interval")
	}
	if b.StayIncludes(date(2025, 6, 19)) {
		t.Fatal("day before check-in must be outside the stay interval")
	}
}

func TestOverlaps(t *testing.T) {
	a := Booking{CheckIn: date(2025, 6, 20), CheckOut: date(2025, 6, 23)}
	b := Booking{CheckIn: date(2025, 6, 22), CheckOut: date(2025, 6, 25)}
	c := Booking{CheckIn: date(2025, 6, 23), CheckOut: date(2025, 6, 25)}

	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Fatal("expected overlap for intersecting stays, both directions")
	}
	if a.Overlaps(c) {
		t.Fatal("back-to-back stays share no night and must not overlap")
	}
}

func TestNormalizeGuestKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Nguyen Van A", "nguyen van a"},
		{"  Nguyen   Van   A  ", "nguyen van a"},
		{"NGUYEN VAN A", "nguyen van a"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeGuestKey(tc.in); got != tc.want {
			t.Fatalf("NormalizeGuestKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	b := Booking{
		TotalAmount:      1000,
		CommissionAmount: -50,
		CollectedAmount:  math.NaN(),
	}
	clean := b.Sanitize(0.5)
	if clean.CommissionAmount != 0 {
		t.Fatalf("negative commission should be coerced to zero, got %v", clean.CommissionAmount)
	}
	if clean.CollectedAmount != 0 {
		t.Fatalf("NaN collected amount should be coerced to zero, got %v", clean.CollectedAmount)
	}

	b = Booking{TotalAmount: 1000, CommissionAmount: 900}
	clean = b.Sanitize(0.5)
	if clean.CommissionAmount != 500 {
		t.Fatalf("commission should be clamped to the ceiling, got %v", clean.CommissionAmount)
	}

	// No ceiling configured: amounts pass through untouched.
	clean = b.Sanitize(0)
	if clean.CommissionAmount != 900 {
		t.Fatalf("commission should be untouched without a ceiling, got %v", clean.CommissionAmount)
	}
}

func TestValidate(t *testing.T) {
	valid := Booking{
		ID:        "b-1",
		GuestName: "Nguyen Van A",
		CheckIn:   date(2025, 6, 20),
		CheckOut:  date(2025, 6, 23),
		Status:    StatusConfirmed,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid booking rejected: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(b Booking) Booking
		wantErr error
	}{
		{"empty id", func(b Booking) Booking { b.ID = ""; return b }, ErrEmptyID},
		{"blank guest", func(b Booking) Booking { b.GuestName = "  "; return b }, ErrEmptyGuestName},
		{"zero checkin", func(b Booking) Booking { b.CheckIn = time.Time{}; return b }, ErrInvalidDates},
		{"inverted dates", func(b Booking) Booking { b.CheckIn, b.CheckOut = b.CheckOut, b.CheckIn; return b }, ErrInvalidDates},
		{"bad status", func(b Booking) Booking { b.Status = "archived"; return b }, ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mutate(valid).Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestIsActive(t *testing.T) {
	for _, status := range []Status{StatusConfirmed, StatusPending} {
		if !(Booking{Status: status}).IsActive() {
			t.Fatalf("%s should be active", status)
		}
	}
	for _, status := range []Status{StatusCancelled, StatusDeleted} {
		if (Booking{Status: status}).IsActive() {
			t.Fatalf("%s should not be active", status)
		}
	}
}
