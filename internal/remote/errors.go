package remote

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by NewHTTPTransport when the endpoint URL
// or the spreadsheet id is missing.
var ErrNotConfigured = errors.New("remote store not configured")

// StatusError reports a fetch that reached the endpoint but got a
// non-success HTTP status.
type StatusError struct {
	Code   int
	Status string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch failed: %s", e.Status)
}

// IsStatusError returns true if err wraps a *StatusError.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
