package session

import (
	"context"
	"time"
)

// Session is an authenticated session issued by the login endpoint.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// ValidAt reports whether the session is still usable at now, keeping
// threshold as a safety margin before expiry. The zero Session is never valid.
func (s Session) ValidAt(now time.Time, threshold time.Duration) bool {
	if s.Token == "" || s.ExpiresAt.IsZero() {
		return false
	}
	return s.ExpiresAt.Sub(now) > threshold
}

// Provider supplies a valid session, authenticating first when needed.
type Provider interface {
	EnsureSession(ctx context.Context) (Session, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Session, error)

func (f ProviderFunc) EnsureSession(ctx context.Context) (Session, error) {
	return f(ctx)
}

// Static returns a Provider that always hands out the given token, for
// callers that obtained a session out of band.
func Static(token string) Provider {
	return ProviderFunc(func(context.Context) (Session, error) {
		return Session{Token: token}, nil
	})
}
