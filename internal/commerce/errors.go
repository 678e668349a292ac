// Package commerce holds the error taxonomy shared by the domain packages.
// Handlers map these onto HTTP statuses; anything unwrapped is a storage
// failure and surfaces as a 500.
package commerce

import "errors"

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)
