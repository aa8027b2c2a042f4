package dougs

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/dougs/pkg/session"
	"github.com/dmitrymomot/dougs/pkg/transport"
)

// DefaultBaseURL is the production API address.
const DefaultBaseURL = "https://app.dougs.fr"

// Option is a functional option for configuring the Client
type Option func(*options)

type options struct {
	baseURL          string
	httpClient       *http.Client
	sessions         session.Provider
	sessionThreshold time.Duration
	maxRetries       int
	backoff          transport.BackoffStrategy
	retryable        []int
	attemptTimeout   time.Duration
	onRetry          transport.RetryHook
	logger           *slog.Logger
	clock            func() time.Time
}

func defaultOptions() *options {
	return &options{
		baseURL:          DefaultBaseURL,
		sessionThreshold: session.DefaultThreshold,
		maxRetries:       transport.DefaultMaxRetries,
		backoff:          transport.DefaultBackoffStrategy(),
		attemptTimeout:   transport.DefaultAttemptTimeout,
		clock:            time.Now,
	}
}

// WithBaseURL points the client at another deployment, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.baseURL = u
		}
	}
}

// WithHTTPClient uses client's transport for the underlying connections.
// Its Transport is wrapped, never replaced.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithSessionProvider replaces the login-based session manager.
func WithSessionProvider(p session.Provider) Option {
	return func(o *options) {
		if p != nil {
			o.sessions = p
		}
	}
}

// WithSessionThreshold sets how long before expiry a session is renewed.
// Default is 30 seconds; zero renews only once the session has expired.
func WithSessionThreshold(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.sessionThreshold = d
		}
	}
}

// WithMaxRetries sets the number of retries for transient failures.
// Default is 3. Set to 0 to disable retries.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// WithBackoff sets the delay strategy between retries.
// Default is linear with a 500ms step.
func WithBackoff(strategy transport.BackoffStrategy) Option {
	return func(o *options) {
		if strategy != nil {
			o.backoff = strategy
		}
	}
}

// WithRetryableStatuses replaces the set of retried HTTP statuses.
func WithRetryableStatuses(codes ...int) Option {
	return func(o *options) {
		o.retryable = codes
	}
}

// WithAttemptTimeout bounds each individual HTTP attempt.
func WithAttemptTimeout(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.attemptTimeout = d
		}
	}
}

// WithOnRetry registers a callback invoked before every retry.
func WithOnRetry(hook transport.RetryHook) Option {
	return func(o *options) {
		o.onRetry = hook
	}
}

// WithLogger sets the logger for session and retry events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the time source used for session expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}
