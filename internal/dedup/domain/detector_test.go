package dedup

import (
	"errors"
	"fmt"
	"testing"
	"time"

	booking "frontdesk-cloud/internal/booking/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stay(id, guest string, checkIn, checkOut time.Time) booking.Booking {
	return booking.Booking{
		ID:        id,
		GuestName: guest,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Status:    booking.StatusConfirmed,
	}
}

// fakeClock advances a fixed step on every Now call, making the budget
// check deterministic without sleeping.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func TestFindDuplicates_ExactOverlap(t *testing.T) {
	bookings := []booking.Booking{
		stay("a", "Nguyen Van A", date(2025, 6, 20), date(2025, 6, 23)),
		stay("b", "nguyen  van  a", date(2025, 6, 22), date(2025, 6, 25)),
	}

	report, err := NewDetector().FindDuplicates(bookings)
	if err != nil {
		t.Fatalf("find duplicates: %v", err)
	}
	if len(report.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(report.Groups))
	}
	group := report.Groups[0]
	if group.GuestKey != "nguyen van a" {
		t.Fatalf("guest key = %q", group.GuestKey)
	}
	if group.Confidence != ConfidenceExact {
		t.Fatalf("confidence = %q, want exact", group.Confidence)
	}
	if len(group.BookingIDs) != 2 || group.BookingIDs[0] != "a" || group.BookingIDs[1] != "b" {
		t.Fatalf("booking ids = %v, want [a b] by check-in ascending", group.BookingIDs)
	}
}

func TestFindDuplicates_NearCheckIn(t *testing.T) {
	// Disjoint stays, check-ins 3 days apart: inside the tolerance.
	bookings := []booking.Booking{
		stay("a", "Tran B", date(2025, 6, 20), date(2025, 6, 21)),
		stay("b", "Tran B", date(2025, 6, 23), date(2025, 6, 24)),
	}

	report, err := NewDetector().FindDuplicates(bookings)
	if err != nil {
		t.Fatalf("find duplicates: %v", err)
	}
	if len(report.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(report.Groups))
	}
	if report.Groups[0].Confidence != ConfidenceNear {
		t.Fatalf("confidence = %q, want near", report.Groups[0].Confidence)
	}
}

// The worked example: stays 5 days apart with no overlap are not duplicates.
func TestFindDuplicates_FarApartNotFlagged(t *testing.T) {
	bookings := []booking.Booking{
		stay("x", "Nguyen Van A", date(2025, 6, 20), date(2025, 6, 23)),
		stay("y", "Nguyen Van A", date(2025, 6, 25), date(2025, 6, 27)),
	}

	report, err := NewDetector().FindDuplicates(bookings)
	if err != nil {
		t.Fatalf("find duplicates: %v", err)
	}
	if len(report.Groups) != 0 {
		t.Fatalf("groups = %v, want none", report.Groups)
	}
}

func TestFindDuplicates_SymmetricOrderIndependent(t *testing.T) {
	a := stay("a", "Le C", date(2025, 6, 20), date(2025, 6, 23))
	b := stay("b", "Le C", date(2025, 6, 21), date(2025, 6, 24))

	forward, err := NewDetector().FindDuplicates([]booking.Booking{a, b})
	if err != nil {
		t.Fatalf("find duplicates: %v", err)
	}
	reverse, err := NewDetector().FindDuplicates([]booking.Booking{b, a})
	if err != nil {
		t.Fatalf("find duplicates: %v", err)
	}

	if len(forward.Groups) != 1 || len(reverse.Groups) != 1 {
		t.Fatalf("both orders must produce one group")
	}
	fw, rv := forward.Groups[0].BookingIDs, reverse.Groups[0].BookingIDs
	if len(fw) != 2 || len(rv) != 2 || fw[0] != rv[0] || fw[1] != rv[1] {
		t.Fatalf("group ids differ by input order: %v vs %v", fw, rv)
	}
}

func TestFindDuplicates_GroupOrderFollowsFirstEncounter(t *testing.T) {
	bookings := []booking.Booking{
		stay("b1", "Guest B", date(2025, 6, 20), date(2025, 6, 23)),
		stay("a1", "Guest A", date(2025, 7, 1), date(2025, 7, 3)),
		stay("b2", "Guest B", date(2025, 6, 21), date(2025, 6, 22)),
		stay("a2", "Guest A", date(2025, 7, 2), date(2025, 7, 4)),
	}

	report, err := NewDetector().FindDuplicates(bookings)
	if err != nil {
		t.Fatalf("find duplicates: %v", err)
	}
	if len(report.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(report.Groups))
	}
	if report.Groups[0].GuestKey != "guest b" || report.Groups[1].GuestKey != "guest a" {
		t.Fatalf("group order = [%s %s], want first-encounter order",
			report.Groups[0].GuestKey, report.Groups[1].GuestKey)
	}
}

// A guest with 500 historical stays is capped to the 20 most recent, so
// at most C(20,2) = 190 comparisons happen for that guest.
func TestFindDuplicates_PerGuestCap(t *testing.T) {
	var bookings []booking.Booking
	start := date(2020, 1, 1)
	for i := 0; i < 500; i++ {
		checkIn := start.AddDate(0, 0, i*10)
		bookings = append(bookings, stay(fmt.Sprintf("b%03d", i), "Frequent Guest", checkIn, checkIn.AddDate(0, 0, 2)))
	}

	report, err := NewDetector(WithMaxPerGuest(20)).FindDuplicates(bookings)
	if err != nil {
		t.Fatalf("find duplicates: %v", err)
	}
	if report.Comparisons > 190 {
		t.Fatalf("comparisons = %d, want at most 190", report.Comparisons)
	}
	if report.GuestsScanned != 1 {
		t.Fatalf("guests scanned = %d, want 1", report.GuestsScanned)
	}
}

func TestFindDuplicates_TimeBudgetTruncates(t *testing.T) {
	var bookings []booking.Booking
	for g := 0; g < 100; g++ {
		guest := fmt.Sprintf("Guest %03d", g)
		for i := 0; i < 3; i++ {
			checkIn := date(2025, 1, 1).AddDate(0, 0, i)
			bookings = append(bookings, stay(fmt.Sprintf("g%03d-%d", g, i), guest, checkIn, checkIn.AddDate(0, 0, 2)))
		}
	}

	clock := &fakeClock{now: date(2025, 6, 1), step: time.Millisecond}
	report, err := NewDetector(
		WithTimeBudget(5*time.Millisecond),
		WithClock(clock),
	).FindDuplicates(bookings)
	if err != nil {
		t.Fatalf("budget expiry must not be an error, got %v", err)
	}
	if !report.Truncated {
		t.Fatal("report should be marked truncated")
	}
	if report.GuestsScanned >= 100 {
		t.Fatalf("guests scanned = %d, expected an early stop", report.GuestsScanned)
	}
	if len(report.Groups) > report.GuestsScanned {
		t.Fatalf("groups (%d) cannot exceed guests scanned (%d)", len(report.Groups), report.GuestsScanned)
	}
}

func TestFindDuplicates_SkipsInvalidDates(t *testing.T) {
	bookings := []booking.Booking{
		stay("a", "Guest", date(2025, 6, 20), date(2025, 6, 23)),
		stay("b", "Guest", time.Time{}, time.Time{}),
		stay("c", "", date(2025, 6, 20), date(2025, 6, 23)),
	}

	report, err := NewDetector().FindDuplicates(bookings)
	if err != nil {
		t.Fatalf("find duplicates: %v", err)
	}
	if report.Skipped != 2 {
		t.Fatalf("skipped = %d, want 2", report.Skipped)
	}
}

func TestFindDuplicates_EmptyInput(t *testing.T) {
	_, err := NewDetector().FindDuplicates(nil)
	if !errors.Is(err, ErrNoBookings) {
		t.Fatalf("got %v, want ErrNoBookings", err)
	}
}

func TestFindDuplicates_ProgressCallback(t *testing.T) {
	var bookings []booking.Booking
	for g := 0; g < 10; g++ {
		guest := fmt.Sprintf("Guest %d", g)
		checkIn := date(2025, 1, 1)
		bookings = append(bookings, stay(fmt.Sprintf("p%d", g), guest, checkIn, checkIn.AddDate(0, 0, 1)))
	}

	var calls []int
	_, err := NewDetector(WithProgress(4, func(guests int) {
		calls = append(calls, guests)
	})).FindDuplicates(bookings)
	if err != nil {
		t.Fatalf("find duplicates: %v", err)
	}
	if len(calls) != 2 || calls[0] != 4 || calls[1] != 8 {
		t.Fatalf("progress calls = %v, want [4 8]", calls)
	}
}
