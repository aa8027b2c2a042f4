package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/dougs/pkg/logger"
	"github.com/dmitrymomot/dougs/pkg/session"
)

// Transport injects session credentials and retries transient failures.
// Zero value is not usable; use New to create instances.
type Transport struct {
	next           http.RoundTripper
	sessions       session.Provider
	cookieName     string
	maxRetries     int
	backoff        BackoffStrategy
	retryable      map[int]bool
	attemptTimeout time.Duration
	onRetry        RetryHook
	logger         *slog.Logger
}

// New creates a Transport that authenticates through sessions.
func New(sessions session.Provider, opts ...Option) *Transport {
	t := &Transport{
		next:           http.DefaultTransport,
		sessions:       sessions,
		cookieName:     session.DefaultCookieName,
		maxRetries:     DefaultMaxRetries,
		backoff:        DefaultBackoffStrategy(),
		retryable:      defaultRetryable(),
		attemptTimeout: DefaultAttemptTimeout,
		logger:         logger.Discard(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Retryable reports whether code is in the retryable status set.
func (t *Transport) Retryable(code int) bool {
	return t.retryable[code]
}

// MaxRetries returns the configured number of extra attempts.
func (t *Transport) MaxRetries() int {
	return t.maxRetries
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	getBody, err := replayableBody(req)
	if err != nil {
		return nil, err
	}

	for retry := 0; ; retry++ {
		resp, err := t.attempt(req, getBody)
		if err != nil {
			return nil, err
		}

		if !t.retryable[resp.StatusCode] || retry >= t.maxRetries {
			return resp, nil
		}

		// Release the connection before waiting
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		_ = resp.Body.Close()

		delay := t.backoff.NextInterval(retry + 1)
		t.logger.WarnContext(ctx, "retrying request",
			logger.Method(req.Method),
			logger.Path(req.URL.Path),
			logger.StatusCode(resp.StatusCode),
			logger.RetryCount(retry+1),
			logger.Duration(delay),
		)
		if t.onRetry != nil {
			t.onRetry(RetryInfo{
				Method:     req.Method,
				URL:        req.URL.String(),
				Retry:      retry + 1,
				StatusCode: resp.StatusCode,
				Delay:      delay,
			})
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// attempt sends one authenticated clone of req.
func (t *Transport) attempt(req *http.Request, getBody func() (io.ReadCloser, error)) (*http.Response, error) {
	s, err := t.sessions.EnsureSession(req.Context())
	if err != nil {
		return nil, err
	}

	ctx, cancel := req.Context(), context.CancelFunc(func() {})
	if t.attemptTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, t.attemptTimeout)
	}

	out := req.Clone(ctx)
	if getBody != nil {
		body, err := getBody()
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		out.Body = body
	}
	out.Header.Set("Cookie", cookieHeader(t.cookieName, s.Token, req.Header.Get("Cookie")))

	resp, err := t.next.RoundTrip(out)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cookieHeader puts the session cookie in front of any cookies already set.
func cookieHeader(name, token, existing string) string {
	c := name + "=" + token
	if existing == "" {
		return c
	}
	return c + "; " + existing
}

// replayableBody returns a function producing a fresh copy of the request
// body for every attempt, buffering the body once when needed. The original
// body is always closed.
func replayableBody(req *http.Request) (func() (io.ReadCloser, error), error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	if req.GetBody != nil {
		_ = req.Body.Close()
		return req.GetBody, nil
	}

	data, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to buffer request body: %w", err)
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}, nil
}

// cancelOnClose ties the per-attempt context to the response body lifetime.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
