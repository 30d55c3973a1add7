package domain

import "errors"

// Error kinds surfaced at the request boundary. Wrap with fmt.Errorf("...: %w")
// to add context; handlers unwrap with errors.Is.
var (
	ErrInvalidOption   = errors.New("invalid option")
	ErrDataUnavailable = errors.New("data unavailable")
	ErrTimeout         = errors.New("timeout")
	ErrInternal        = errors.New("internal error")
)
