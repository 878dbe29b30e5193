package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	booking "frontdesk-cloud/internal/booking/domain"
)

// Repository is an in-memory booking store for tests and demos.
type Repository struct {
	mu   sync.RWMutex
	data map[string]booking.Booking
}

// NewRepository constructs a repository.
func NewRepository() *Repository {
	return &Repository{data: make(map[string]booking.Booking)}
}

// Get loads one booking by id.
func (r *Repository) Get(ctx context.Context, id string) (*booking.Booking, error) {
	_ = ctx
	r.mu.RLock()
	b, ok := r.data[id]
	r.mu.RUnlock()
	if !ok {
		return nil, booking.ErrNotFound
	}
	copy := b
	return &copy, nil
}

// Create inserts a booking.
func (r *Repository) Create(ctx context.Context, b *booking.Booking) error {
	_ = ctx
	if b == nil {
		return booking.ErrNilBooking
	}
	if b.ID == "" {
		return booking.ErrEmptyID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[b.ID]; ok {
		return booking.ErrAlreadyExists
	}
	r.data[b.ID] = *b
	return nil
}

// Update overwrites a booking.
func (r *Repository) Update(ctx context.Context, b *booking.Booking) error {
	_ = ctx
	if b == nil {
		return booking.ErrNilBooking
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[b.ID]; !ok {
		return booking.ErrNotFound
	}
	r.data[b.ID] = *b
	return nil
}

// List returns bookings matching the filter, newest check-in first.
func (r *Repository) List(ctx context.Context, filter booking.ListFilter) ([]booking.Booking, error) {
	_ = ctx
	r.mu.RLock()
	all := make([]booking.Booking, 0, len(r.data))
	for _, b := range r.data {
		all = append(all, b)
	}
	r.mu.RUnlock()

	var matched []booking.Booking
	for _, b := range all {
		if filter.Guest != "" && !strings.Contains(strings.ToLower(b.GuestName), strings.ToLower(filter.Guest)) {
			continue
		}
		if !filter.From.IsZero() && booking.Day(b.CheckOut).Before(booking.Day(filter.From)) {
			continue
		}
		if !filter.To.IsZero() && booking.Day(b.CheckIn).After(booking.Day(filter.To)) {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		matched = append(matched, b)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CheckIn.Equal(matched[j].CheckIn) {
			return matched[i].CheckIn.After(matched[j].CheckIn)
		}
		return matched[i].ID < matched[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// ListActive returns all bookings excluding cancelled and deleted ones.
func (r *Repository) ListActive(ctx context.Context) ([]booking.Booking, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []booking.Booking
	for _, b := range r.data {
		if b.IsActive() {
			result = append(result, b)
		}
	}
	sortByCheckIn(result)
	return result, nil
}

// ListActiveTouching returns active bookings whose stay intersects [from, to].
func (r *Repository) ListActiveTouching(ctx context.Context, from, to time.Time) ([]booking.Booking, error) {
	_ = ctx
	start := booking.Day(from)
	end := booking.Day(to)

	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []booking.Booking
	for _, b := range r.data {
		if !b.IsActive() {
			continue
		}
		if booking.Day(b.CheckIn).After(end) || booking.Day(b.CheckOut).Before(start) {
			continue
		}
		result = append(result, b)
	}
	sortByCheckIn(result)
	return result, nil
}

func sortByCheckIn(bookings []booking.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].CheckIn.Equal(bookings[j].CheckIn) {
			return bookings[i].CheckIn.Before(bookings[j].CheckIn)
		}
		return bookings[i].ID < bookings[j].ID
	})
}
