package catalog

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrServiceInactive   = errors.New("service is not active")
	ErrDuplicateOffering = errors.New("professional already offers this service")
	ErrDuplicateCategory = errors.New("category already exists")
)
