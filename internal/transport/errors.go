package transport

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse marks a 200-status response whose body did not match the
// vendor's documented envelope, usually a sign of provider schema drift.
// Transports wrap it with detail; match with errors.Is.
var ErrInvalidResponse = errors.New("invalid response from API")

// HTTPError is returned when a vendor answers with a non-success status. The
// raw body is surfaced verbatim so callers can show the vendor's own message.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Body)
}

func invalidResponse(provider, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidResponse, provider, reason)
}
