package application

import (
	"context"
	"testing"
	"time"

	booking "frontdesk-cloud/internal/booking/domain"
	"frontdesk-cloud/internal/booking/infrastructure/memory"
	occupancy "frontdesk-cloud/internal/occupancy/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T, repo *memory.Repository, bookings ...booking.Booking) {
	t.Helper()
	for i := range bookings {
		if err := repo.Create(context.Background(), &bookings[i]); err != nil {
			t.Fatalf("seed booking %s: %v", bookings[i].ID, err)
		}
	}
}

func TestActivityExcludesCancelledAndDeleted(t *testing.T) {
	repo := memory.NewRepository()
	seed(t, repo,
		booking.Booking{ID: "live", GuestName: "A", CheckIn: date(2025, 6, 20), CheckOut: date(2025, 6, 22), TotalAmount: 200, Status: booking.StatusConfirmed},
		booking.Booking{ID: "gone", GuestName: "B", CheckIn: date(2025, 6, 20), CheckOut: date(2025, 6, 22), TotalAmount: 900, Status: booking.StatusCancelled},
		booking.Booking{ID: "dead", GuestName: "C", CheckIn: date(2025, 6, 20), CheckOut: date(2025, 6, 22), TotalAmount: 900, Status: booking.StatusDeleted},
	)

	service, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	activity, err := service.Activity(context.Background(), date(2025, 6, 20))
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if len(activity.Arrivals) != 1 || activity.Arrivals[0].ID != "live" {
		t.Fatalf("arrivals = %v, want only the confirmed booking", activity.Arrivals)
	}
	if activity.RevenueTotal != 100 {
		t.Fatalf("revenue = %v, want 100 (200 over 2 nights)", activity.RevenueTotal)
	}
}

func TestActivityEmptyDay(t *testing.T) {
	service, err := NewService(memory.NewRepository())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	activity, err := service.Activity(context.Background(), date(2025, 6, 20))
	if err != nil {
		t.Fatalf("an empty day must not error: %v", err)
	}
	if len(activity.Arrivals)+len(activity.Staying)+len(activity.Departures) != 0 {
		t.Fatal("expected empty activity")
	}
	if !activity.Day.Equal(date(2025, 6, 20)) {
		t.Fatalf("day = %v", activity.Day)
	}
}

func TestActivityRange(t *testing.T) {
	repo := memory.NewRepository()
	seed(t, repo,
		booking.Booking{ID: "x", GuestName: "A", CheckIn: date(2025, 6, 20), CheckOut: date(2025, 6, 23), TotalAmount: 600, Status: booking.StatusConfirmed},
	)

	service, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	activities, err := service.ActivityRange(context.Background(), date(2025, 6, 19), date(2025, 6, 24))
	if err != nil {
		t.Fatalf("activity range: %v", err)
	}
	if len(activities) != 6 {
		t.Fatalf("days = %d, want 6", len(activities))
	}

	var revenue float64
	for _, activity := range activities {
		revenue += activity.RevenueTotal
	}
	if revenue != 600 {
		t.Fatalf("range revenue = %v, want the full 600", revenue)
	}

	if len(activities[1].Arrivals) != 1 {
		t.Fatal("expected arrival on 2025-06-20")
	}
	if len(activities[4].Departures) != 1 {
		t.Fatal("expected departure on 2025-06-23")
	}
}

func TestActivityRangeInverted(t *testing.T) {
	service, err := NewService(memory.NewRepository())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := service.ActivityRange(context.Background(), date(2025, 6, 24), date(2025, 6, 19)); err != occupancy.ErrInvalidRange {
		t.Fatalf("got %v, want ErrInvalidRange", err)
	}
}
