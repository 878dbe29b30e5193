package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	booking "frontdesk-cloud/internal/booking/domain"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

// Now returns current time.
func (SystemClock) Now() time.Time { return time.Now() }

// CreateInput carries the fields of a new booking.
type CreateInput struct {
	GuestName        string
	CheckIn          time.Time
	CheckOut         time.Time
	TotalAmount      float64
	CommissionAmount float64
	Status           booking.Status
}

// UpdateInput carries optional field updates; nil fields are left alone.
type UpdateInput struct {
	GuestName        *string
	CheckIn          *time.Time
	CheckOut         *time.Time
	TotalAmount      *float64
	CommissionAmount *float64
	Status           *booking.Status
}

// Service handles booking lifecycle and payment-collection use cases.
type Service struct {
	repo   booking.Repository
	policy Policy
	clock  Clock
}

// NewService constructs the booking service.
func NewService(repo booking.Repository, policy Policy, clock Clock) (*Service, error) {
	if repo == nil {
		return nil, errors.New("booking service: nil repository")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{repo: repo, policy: policy, clock: clock}, nil
}

// Create validates, sanitizes and persists a new booking.
func (s *Service) Create(ctx context.Context, in CreateInput) (*booking.Booking, error) {
	now := s.clock.Now().UTC()
	status := in.Status
	if status == "" {
		status = booking.StatusPending
	}

	b := booking.Booking{
		ID:               uuid.NewString(),
		GuestName:        in.GuestName,
		CheckIn:          booking.Day(in.CheckIn),
		CheckOut:         booking.Day(in.CheckOut),
		TotalAmount:      in.TotalAmount,
		CommissionAmount: in.CommissionAmount,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	b = b.Sanitize(s.policy.CommissionCapRatio)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Update applies the non-nil fields of in to an existing booking.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*booking.Booking, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.GuestName != nil {
		b.GuestName = *in.GuestName
	}
	if in.CheckIn != nil {
		b.CheckIn = booking.Day(*in.CheckIn)
	}
	if in.CheckOut != nil {
		b.CheckOut = booking.Day(*in.CheckOut)
	}
	if in.TotalAmount != nil {
		b.TotalAmount = *in.TotalAmount
	}
	if in.CommissionAmount != nil {
		b.CommissionAmount = *in.CommissionAmount
	}
	if in.Status != nil {
		b.Status = *in.Status
	}

	*b = b.Sanitize(s.policy.CommissionCapRatio)
	b.UpdatedAt = s.clock.Now().UTC()
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete soft-deletes a booking. Deleted bookings drop out of every
// aggregation and duplicate scan but stay recoverable in storage.
func (s *Service) Delete(ctx context.Context, id string) error {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	b.Status = booking.StatusDeleted
	b.UpdatedAt = s.clock.Now().UTC()
	return s.repo.Update(ctx, b)
}

// Get loads one booking by id.
func (s *Service) Get(ctx context.Context, id string) (*booking.Booking, error) {
	return s.repo.Get(ctx, id)
}

// List returns bookings matching the filter.
func (s *Service) List(ctx context.Context, filter booking.ListFilter) ([]booking.Booking, error) {
	return s.repo.List(ctx, filter)
}

// RecordCollection adds a received payment to a booking. Negative amounts
// are coerced to zero; over-collection is stored as-is and surfaced by
// OverCollected, never rejected.
func (s *Service) RecordCollection(ctx context.Context, id string, amount float64, collector string) (*booking.Booking, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if amount < 0 {
		amount = 0
	}
	b.CollectedAmount += amount
	b.Collector = collector
	b.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// TrustedCollection reports whether a booking's collected amount counts
// as paid: the collector has to be on the configured allow-list.
func (s *Service) TrustedCollection(b booking.Booking) bool {
	if b.CollectedAmount <= 0 {
		return false
	}
	return s.policy.IsTrustedCollector(b.Collector)
}

// OverCollected reports whether more cash was received than the stay costs.
func (s *Service) OverCollected(b booking.Booking) bool {
	return b.CollectedAmount > b.TotalAmount
}
