package session

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthentication is the root of every login failure.
	ErrAuthentication = errors.New("session.authentication_failed")

	// ErrNoSessionCookie indicates the login response carried no session cookie
	ErrNoSessionCookie = fmt.Errorf("%w: no session cookie in login response", ErrAuthentication)

	// ErrInvalidExpiry indicates the session cookie expiry is missing or unparseable
	ErrInvalidExpiry = fmt.Errorf("%w: invalid session expiry", ErrAuthentication)
)

// LoginError is returned when the login endpoint answers with a non-2xx status.
type LoginError struct {
	StatusCode int
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("%s: login returned status %d %s", ErrAuthentication, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *LoginError) Unwrap() error {
	return ErrAuthentication
}
