// File: api/errors.go
// Package api
//
// Common error values shared across the wsflood packages.

package api

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument covers the errors that escape a call boundary.
// Everything else — connect failures, timeouts, close failures — is
// absorbed where it occurs and reported through the Sink.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentf wraps ErrInvalidArgument with a formatted detail message,
// so callers can test with errors.Is while still seeing what was wrong.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
