package reservation

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotBookable       = fmt.Errorf("%w: service is not bookable with this professional", ErrValidation)
	ErrInvalidTransition = fmt.Errorf("%w: status transition not allowed", ErrValidation)
	ErrSlotConflict      = errors.New("slot already reserved")
	ErrTerminalState     = errors.New("reservation is completed or cancelled")
	ErrStatusChanged     = errors.New("reservation status changed concurrently")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("reservation not found")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
