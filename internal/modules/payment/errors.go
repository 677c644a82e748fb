package payment

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrReservationClosed = errors.New("reservation is cancelled")
	ErrAlreadyPaid       = errors.New("reservation already paid")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("reservation not found")
)
