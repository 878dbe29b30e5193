package occupancy

import "errors"

var (
	// ErrNoBookings is returned when the input snapshot is empty.
	// An empty snapshot is a caller bug, not a data-quality issue.
	ErrNoBookings = errors.New("occupancy: no bookings")
	// ErrInvalidRange is returned when a date range is inverted.
	ErrInvalidRange = errors.New("occupancy: invalid date range")
)
