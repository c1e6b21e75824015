package ikauth

import "errors"

var (
	// ErrConfiguration is returned when the signing keys or endpoints are
	// missing or malformed. It is fatal at startup.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
	// ErrUnauthorized is returned when authentication parameters do not verify
	ErrUnauthorized = errors.New("unauthorized")
)
