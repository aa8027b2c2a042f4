package transport_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dougs/pkg/session"
	"github.com/dmitrymomot/dougs/pkg/transport"
)

const step = 10 * time.Millisecond

func newClient(provider session.Provider, opts ...transport.Option) *http.Client {
	opts = append([]transport.Option{transport.WithBackoff(transport.LinearBackoff{Step: step})}, opts...)
	return &http.Client{Transport: transport.New(provider, opts...)}
}

// statusSequence serves the given statuses in order, repeating the last one.
func statusSequence(t *testing.T, attempts *int32, statuses ...int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(attempts, 1))
		status := statuses[min(n, len(statuses))-1]
		w.WriteHeader(status)
		_, _ = io.WriteString(w, http.StatusText(status))
	}))
}

func TestTransport_InjectsSessionCookie(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing string
		want     string
	}{
		{"no existing cookie", "", "auth_session=tok"},
		{"existing cookie is kept after session", "theme=dark", "auth_session=tok; theme=dark"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.want, r.Header.Get("Cookie"))
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
			}))
			defer server.Close()

			req, err := http.NewRequest(http.MethodGet, server.URL+"/users/me", nil)
			require.NoError(t, err)
			req.Header.Set("Accept", "application/json")
			if tt.existing != "" {
				req.Header.Set("Cookie", tt.existing)
			}

			resp, err := newClient(session.Static("tok")).Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			// The caller's request is left untouched.
			assert.Equal(t, tt.existing, req.Header.Get("Cookie"))
		})
	}
}

func TestTransport_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var attempts int32
	server := statusSequence(t, &attempts, http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusOK)
	defer server.Close()

	var (
		mu     sync.Mutex
		delays []time.Duration
	)
	client := newClient(session.Static("tok"), transport.WithOnRetry(func(info transport.RetryInfo) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, http.StatusServiceUnavailable, info.StatusCode)
		delays = append(delays, info.Delay)
	}))

	start := time.Now()
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	assert.Equal(t, []time.Duration{step, 2 * step}, delays)
	assert.GreaterOrEqual(t, time.Since(start), 3*step)
}

func TestTransport_ExhaustsRetryBudget(t *testing.T) {
	t.Parallel()

	for _, maxRetries := range []int{0, 1, 3} {
		var attempts int32
		server := statusSequence(t, &attempts, http.StatusServiceUnavailable)

		resp, err := newClient(session.Static("tok"), transport.WithMaxRetries(maxRetries)).Get(server.URL)
		require.NoError(t, err)
		resp.Body.Close()
		server.Close()

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, int32(maxRetries+1), atomic.LoadInt32(&attempts), "maxRetries=%d", maxRetries)
	}
}

func TestTransport_RetryableStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		retry  bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusGatewayTimeout, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusNotFound, false},
		{http.StatusNotImplemented, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			var attempts int32
			server := statusSequence(t, &attempts, tt.status, http.StatusOK)
			defer server.Close()

			resp, err := newClient(session.Static("tok")).Get(server.URL)
			require.NoError(t, err)
			resp.Body.Close()

			if tt.retry {
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
			} else {
				assert.Equal(t, tt.status, resp.StatusCode)
				assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
			}
		})
	}
}

func TestTransport_CustomRetryableStatuses(t *testing.T) {
	t.Parallel()

	rt := transport.New(session.Static("tok"), transport.WithRetryableStatuses(http.StatusConflict))
	assert.True(t, rt.Retryable(http.StatusConflict))
	assert.False(t, rt.Retryable(http.StatusServiceUnavailable))
	assert.Equal(t, transport.DefaultMaxRetries, rt.MaxRetries())
}

func TestTransport_ReplaysBody(t *testing.T) {
	t.Parallel()

	const payload = `{"type":"expense","amount":123.45}`

	var (
		attempts int32
		mu       sync.Mutex
		bodies   []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/companies/1/operations", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(body))
		mu.Unlock()
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newClient(session.Static("tok"))

	t.Run("with GetBody", func(t *testing.T) {
		atomic.StoreInt32(&attempts, 0)
		bodies = nil

		req, err := http.NewRequest(http.MethodPost, server.URL+"/companies/1/operations", strings.NewReader(payload))
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, []string{payload, payload, payload}, bodies)
	})

	t.Run("without GetBody", func(t *testing.T) {
		atomic.StoreInt32(&attempts, 0)
		bodies = nil

		req, err := http.NewRequest(http.MethodPost, server.URL+"/companies/1/operations", io.NopCloser(strings.NewReader(payload)))
		require.NoError(t, err)
		require.Nil(t, req.GetBody)
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, []string{payload, payload, payload}, bodies)
	})
}

func TestTransport_ReauthenticatesBetweenAttempts(t *testing.T) {
	t.Parallel()

	var calls int32
	provider := session.ProviderFunc(func(context.Context) (session.Session, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return session.Session{Token: "expired-soon"}, nil
		}
		return session.Session{Token: "fresh"}, nil
	})

	var (
		mu      sync.Mutex
		cookies []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		cookies = append(cookies, r.Header.Get("Cookie"))
		n := len(cookies)
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer server.Close()

	resp, err := newClient(provider).Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"auth_session=expired-soon", "auth_session=fresh"}, cookies)
}

func TestTransport_SessionErrorStopsRequest(t *testing.T) {
	t.Parallel()

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	provider := session.ProviderFunc(func(context.Context) (session.Session, error) {
		return session.Session{}, session.ErrNoSessionCookie
	})

	_, err := newClient(provider).Get(server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrAuthentication)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

type failingRoundTripper struct {
	calls int32
}

func (f *failingRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	atomic.AddInt32(&f.calls, 1)
	return nil, errors.New("connection refused")
}

func TestTransport_NetworkErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	next := &failingRoundTripper{}
	client := newClient(session.Static("tok"), transport.WithNext(next))

	_, err := client.Get("http://dougs.invalid/users/me")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, int32(1), atomic.LoadInt32(&next.calls))
}

func TestTransport_ContextCanceledDuringBackoff(t *testing.T) {
	t.Parallel()

	var attempts int32
	server := statusSequence(t, &attempts, http.StatusServiceUnavailable)
	defer server.Close()

	client := &http.Client{Transport: transport.New(session.Static("tok"),
		transport.WithBackoff(transport.FixedBackoff{Interval: time.Minute}),
	)}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestTransport_AttemptTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newClient(session.Static("tok"), transport.WithAttemptTimeout(20*time.Millisecond))

	_, err := client.Get(server.URL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
