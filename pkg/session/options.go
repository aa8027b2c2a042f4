package session

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultThreshold is the margin before expiry at which a session is renewed.
	DefaultThreshold = 30 * time.Second

	// DefaultCookieName is the cookie carrying the session token.
	DefaultCookieName = "auth_session"

	// LoginPath is the authentication endpoint relative to the base URL.
	LoginPath = "/auth/api/login"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithHTTPClient sets the client used for login requests. It must not
// inject session credentials itself.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		if client != nil {
			m.client = client
		}
	}
}

// WithThreshold sets the safety margin before expiry. Zero disables it;
// negative values are ignored.
func WithThreshold(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.threshold = d
		}
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger for login events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithCookieName sets the name of the session cookie
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.cookieName = name
		}
	}
}

// WithHeaders sets static headers sent with every login request.
func WithHeaders(h http.Header) Option {
	return func(m *Manager) {
		m.headers = h.Clone()
	}
}
