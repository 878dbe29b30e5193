package booking

import (
	"context"
	"time"
)

// ListFilter narrows a booking listing. Zero values mean "no constraint".
type ListFilter struct {
	Guest  string
	From   time.Time
	To     time.Time
	Status Status
	Limit  int
	Offset int
}

// Repository defines the persistence capabilities the services need.
type Repository interface {
	Get(ctx context.Context, id string) (*Booking, error)
	Create(ctx context.Context, b *Booking) error
	Update(ctx context.Context, b *Booking) error
	List(ctx context.Context, filter ListFilter) ([]Booking, error)
	// ListActive returns all bookings excluding cancelled and deleted ones.
	ListActive(ctx context.Context) ([]Booking, error)
	// ListActiveTouching returns active bookings whose stay interval
	// intersects [from, to].
	ListActiveTouching(ctx context.Context, from, to time.Time) ([]Booking, error)
}
