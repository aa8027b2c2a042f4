package transport

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultMaxRetries is the number of extra attempts after the first one.
	DefaultMaxRetries = 3

	// DefaultAttemptTimeout bounds a single attempt, body read included.
	DefaultAttemptTimeout = 30 * time.Second
)

// DefaultRetryableStatuses are the transient statuses retried by default.
var DefaultRetryableStatuses = []int{
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// RetryInfo describes a retry about to happen.
type RetryInfo struct {
	Method     string
	URL        string
	Retry      int
	StatusCode int
	Delay      time.Duration
}

// RetryHook is called before each retry, after the delay has been computed.
type RetryHook func(RetryInfo)

// Option is a functional option for configuring the Transport
type Option func(*Transport)

// WithNext sets the underlying round tripper. Defaults to http.DefaultTransport.
func WithNext(rt http.RoundTripper) Option {
	return func(t *Transport) {
		if rt != nil {
			t.next = rt
		}
	}
}

// WithMaxRetries sets the number of extra attempts. Zero disables retries.
func WithMaxRetries(n int) Option {
	return func(t *Transport) {
		if n >= 0 {
			t.maxRetries = n
		}
	}
}

// WithBackoff sets the delay strategy between attempts.
func WithBackoff(strategy BackoffStrategy) Option {
	return func(t *Transport) {
		if strategy != nil {
			t.backoff = strategy
		}
	}
}

// WithRetryableStatuses replaces the set of retried status codes.
func WithRetryableStatuses(codes ...int) Option {
	return func(t *Transport) {
		t.retryable = make(map[int]bool, len(codes))
		for _, code := range codes {
			t.retryable[code] = true
		}
	}
}

// WithAttemptTimeout bounds each attempt. Zero disables the per-attempt timeout.
func WithAttemptTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d >= 0 {
			t.attemptTimeout = d
		}
	}
}

// WithOnRetry registers a hook invoked before every retry.
func WithOnRetry(hook RetryHook) Option {
	return func(t *Transport) {
		t.onRetry = hook
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithCookieName sets the name under which the session token is sent.
func WithCookieName(name string) Option {
	return func(t *Transport) {
		if name != "" {
			t.cookieName = name
		}
	}
}

func defaultRetryable() map[int]bool {
	m := make(map[int]bool, len(DefaultRetryableStatuses))
	for _, code := range DefaultRetryableStatuses {
		m[code] = true
	}
	return m
}
