package usecase

import "errors"

// Sentinel errors of the reservation engine. Callers branch with errors.Is;
// insufficient capacity is not an error at all, it is the waitlisted
// outcome of CreateBooking.
var (
	// ErrInvalidPassengerCount rejects bookings outside 1..6 passengers.
	ErrInvalidPassengerCount = errors.New("passenger count must be between 1 and 6")

	// ErrNotFound marks a missing schedule or booking.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyTerminal rejects transitions out of cancelled or completed.
	ErrAlreadyTerminal = errors.New("booking is in a terminal state")

	// ErrInvalidTransition rejects any other disallowed status transition.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrForbidden marks an operation on a booking the caller does not own.
	ErrForbidden = errors.New("not allowed to operate on this booking")
)
