package errors

import "errors"

// Domain error taxonomy. Repositories and services return these (possibly
// wrapped); controllers translate them to HTTP status codes and never the
// other way around.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrForbidden         = errors.New("permission denied")
	ErrInvalidTransition = errors.New("invalid order status transition")
)
