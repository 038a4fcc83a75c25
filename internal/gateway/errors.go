package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError reports a backend reply outside the 2xx range.
type StatusError struct {
	// Op is the gateway operation that failed.
	Op string
	// Status is the HTTP status code of the reply.
	Status int
	// Message is the backend's error description, if it sent one.
	Message string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: backend returned %d", e.Op, e.Status)
}

// IsNotFound reports whether err is a missing-resource reply.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is an authentication rejection.
// Uses errors.As to handle wrapped errors.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusUnauthorized
}
