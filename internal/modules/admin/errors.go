package admin

import "errors"

var (
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrSelfDeactivate = errors.New("admin cannot deactivate own account")
)
