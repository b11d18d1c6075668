package domain

import "errors"

var (
	// Booking errors
	ErrFlightUnavailable       = errors.New("flight unavailable")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrCancellationNotPossible = errors.New("cancellation not possible")

	// Inventory errors
	ErrFlightNotFound       = errors.New("flight not found")
	ErrInventoryUnavailable = errors.New("inventory service unavailable")
)
