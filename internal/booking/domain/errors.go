package booking

import "errors"

var (
	// ErrEmptyID is returned when a booking id is empty.
	ErrEmptyID = errors.New("booking: empty id")
	// ErrEmptyGuestName is returned when the guest name is blank.
	ErrEmptyGuestName = errors.New("booking: empty guest name")
	// ErrInvalidDates is returned when stay dates are missing or inverted.
	ErrInvalidDates = errors.New("booking: invalid stay dates")
	// ErrInvalidStatus is returned for an unknown status value.
	ErrInvalidStatus = errors.New("booking: invalid status")
	// ErrNotFound is returned when a booking does not exist.
	ErrNotFound = errors.New("booking: not found")
	// ErrAlreadyExists is returned when creating a booking with a taken id.
	ErrAlreadyExists = errors.New("booking: already exists")
	// ErrNilBooking is returned when saving a nil booking.
	ErrNilBooking = errors.New("booking: nil booking")
)
