package dedup

import "errors"

var (
	// ErrNoBookings is returned when the input snapshot is empty.
	ErrNoBookings = errors.New("dedup: no bookings")
)
