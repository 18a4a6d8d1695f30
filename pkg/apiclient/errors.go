package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned when a request requires authentication but no
	// token has been stored. Callers should prompt for login.
	ErrNoSession = errors.New("apiclient: no session, run login first")

	// ErrSessionExpired is returned when the backend rejects the stored token.
	ErrSessionExpired = errors.New("apiclient: session expired, run login again")
)

// APIError carries a structured backend error.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("apiclient: %s (%d %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("apiclient: %s (%d)", e.Message, e.Status)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}
