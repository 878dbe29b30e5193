package application

import (
	"context"
	"errors"
	"testing"
	"time"

	booking "frontdesk-cloud/internal/booking/domain"
	"frontdesk-cloud/internal/booking/infrastructure/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func testPolicy() Policy {
	return Policy{
		Collectors:         []string{"Loc", "Thao"},
		CommissionCapRatio: 0.5,
	}
}

func newTestService(t *testing.T) (*Service, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	service, err := NewService(repo, testPolicy(), fixedClock{now: date(2025, 6, 1)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service, repo
}

func TestCreateAssignsIDAndSanitizes(t *testing.T) {
	service, _ := newTestService(t)

	created, err := service.Create(context.Background(), CreateInput{
		GuestName:        "Nguyen Van A",
		CheckIn:          date(2025, 6, 20),
		CheckOut:         date(2025, 6, 23),
		TotalAmount:      600000,
		CommissionAmount: 500000, // above the 50% ceiling
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Status != booking.StatusPending {
		t.Fatalf("status = %s, want pending by default", created.Status)
	}
	if created.CommissionAmount != 300000 {
		t.Fatalf("commission = %v, want clamped to 300000", created.CommissionAmount)
	}
}

func TestCreateRejectsBlankGuest(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), CreateInput{
		GuestName: "   ",
		CheckIn:   date(2025, 6, 20),
		CheckOut:  date(2025, 6, 23),
	})
	if !errors.Is(err, booking.ErrEmptyGuestName) {
		t.Fatalf("got %v, want ErrEmptyGuestName", err)
	}
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	service, _ := newTestService(t)
	created, err := service.Create(context.Background(), CreateInput{
		GuestName:   "Nguyen Van A",
		CheckIn:     date(2025, 6, 20),
		CheckOut:    date(2025, 6, 23),
		TotalAmount: 600000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newTotal := 700000.0
	status := booking.StatusConfirmed
	updated, err := service.Update(context.Background(), created.ID, UpdateInput{
		TotalAmount: &newTotal,
		Status:      &status,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.TotalAmount != 700000 {
		t.Fatalf("total = %v, want 700000", updated.TotalAmount)
	}
	if updated.Status != booking.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", updated.Status)
	}
	if updated.GuestName != "Nguyen Van A" {
		t.Fatalf("untouched fields must survive, guest = %q", updated.GuestName)
	}
}

func TestDeleteIsSoft(t *testing.T) {
	service, repo := newTestService(t)
	created, err := service.Create(context.Background(), CreateInput{
		GuestName: "Nguyen Van A",
		CheckIn:   date(2025, 6, 20),
		CheckOut:  date(2025, 6, 23),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := service.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	stored, err := repo.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("deleted booking must still exist in storage: %v", err)
	}
	if stored.Status != booking.StatusDeleted {
		t.Fatalf("status = %s, want deleted", stored.Status)
	}

	active, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("deleted booking leaked into the active set")
	}
}

func TestRecordCollection(t *testing.T) {
	service, _ := newTestService(t)
	created, err := service.Create(context.Background(), CreateInput{
		GuestName:   "Nguyen Van A",
		CheckIn:     date(2025, 6, 20),
		CheckOut:    date(2025, 6, 23),
		TotalAmount: 600000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := service.RecordCollection(context.Background(), created.ID, 400000, "Loc")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if updated.CollectedAmount != 400000 {
		t.Fatalf("collected = %v, want 400000", updated.CollectedAmount)
	}
	if !service.TrustedCollection(*updated) {
		t.Fatal("collection by an allow-listed collector must be trusted")
	}
	if service.OverCollected(*updated) {
		t.Fatal("partial collection must not flag over-collection")
	}

	// A second collection by an unknown collector is stored but untrusted.
	updated, err = service.RecordCollection(context.Background(), created.ID, 300000, "Somebody Else")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if updated.CollectedAmount != 700000 {
		t.Fatalf("collected = %v, want accumulated 700000", updated.CollectedAmount)
	}
	if service.TrustedCollection(*updated) {
		t.Fatal("collection by an unknown collector must not be trusted")
	}
	if !service.OverCollected(*updated) {
		t.Fatal("over-collection must be flagged")
	}
}

func TestRecordCollectionNegativeCoerced(t *testing.T) {
	service, _ := newTestService(t)
	created, err := service.Create(context.Background(), CreateInput{
		GuestName:   "Nguyen Van A",
		CheckIn:     date(2025, 6, 20),
		CheckOut:    date(2025, 6, 23),
		TotalAmount: 600000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := service.RecordCollection(context.Background(), created.ID, -100, "Loc")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if updated.CollectedAmount != 0 {
		t.Fatalf("collected = %v, want 0 after coercion", updated.CollectedAmount)
	}
}

func TestIsTrustedCollector(t *testing.T) {
	policy := testPolicy()
	cases := []struct {
		name string
		want bool
	}{
		{"Loc", true},
		{"  loc  ", true},
		{"THAO", true},
		{"Mallory", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := policy.IsTrustedCollector(tc.name); got != tc.want {
			t.Fatalf("IsTrustedCollector(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
