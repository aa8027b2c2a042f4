package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/dougs/pkg/cookie"
	"github.com/dmitrymomot/dougs/pkg/logger"
)

// Manager is a Provider that authenticates with username and password.
type Manager struct {
	client     *http.Client
	loginURL   string
	username   string
	password   string
	cookieName string
	threshold  time.Duration
	headers    http.Header
	now        func() time.Time
	logger     *slog.Logger

	mu      sync.RWMutex
	current Session
	logins  singleflight.Group
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// New creates a session manager for the API at baseURL.
func New(baseURL, username, password string, opts ...Option) *Manager {
	m := &Manager{
		client:     &http.Client{Timeout: 30 * time.Second},
		loginURL:   strings.TrimRight(baseURL, "/") + LoginPath,
		username:   username,
		password:   password,
		cookieName: DefaultCookieName,
		threshold:  DefaultThreshold,
		now:        time.Now,
		logger:     logger.Discard(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Current returns the session as last installed, valid or not.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Valid reports whether the current session can be used without logging in.
func (m *Manager) Valid() bool {
	_, ok := m.validSession()
	return ok
}

// EnsureSession returns the current session, logging in first when it is
// missing or about to expire.
func (m *Manager) EnsureSession(ctx context.Context) (Session, error) {
	if s, ok := m.validSession(); ok {
		return s, nil
	}

	// The login outlives a cancelled waiter so other waiters still get it.
	ch := m.logins.DoChan("login", func() (any, error) {
		if s, ok := m.validSession(); ok {
			return s, nil
		}
		return m.login(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return Session{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Session{}, res.Err
		}
		return res.Val.(Session), nil
	}
}

func (m *Manager) validSession() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.current.ValidAt(m.now(), m.threshold)
}

func (m *Manager) login(ctx context.Context) (Session, error) {
	start := m.now()

	body, err := json.Marshal(loginRequest{Email: m.username, Password: m.password})
	if err != nil {
		return Session{}, fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.loginURL, bytes.NewReader(body))
	if err != nil {
		return Session{}, fmt.Errorf("failed to create login request: %w", err)
	}
	for name, values := range m.headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := m.client.Do(req)
	if err != nil {
		m.logger.WarnContext(ctx, "login request failed", logger.Error(err))
		return Session{}, fmt.Errorf("login request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := &LoginError{StatusCode: resp.StatusCode}
		m.logger.WarnContext(ctx, "login rejected", logger.StatusCode(resp.StatusCode))
		return Session{}, err
	}

	s, err := m.sessionFromCookies(resp.Header.Values("Set-Cookie"))
	if err != nil {
		m.logger.WarnContext(ctx, "login response without usable session", logger.Error(err))
		return Session{}, err
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "session established",
		slog.Time("expires_at", s.ExpiresAt),
		logger.Duration(m.now().Sub(start)),
	)

	return s, nil
}

func (m *Manager) sessionFromCookies(headers []string) (Session, error) {
	attrs := cookie.Parse(headers)

	token := attrs[m.cookieName]
	if token == "" {
		return Session{}, ErrNoSessionCookie
	}

	expires, ok := attrs["Expires"]
	if !ok || expires == "" {
		return Session{}, fmt.Errorf("%w: Expires attribute missing", ErrInvalidExpiry)
	}
	expiresAt, err := parseExpiry(expires)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %q: %w", ErrInvalidExpiry, expires, err)
	}

	return Session{Token: token, ExpiresAt: expiresAt}, nil
}

// parseExpiry accepts RFC 2822 dates and the legacy cookie date formats.
func parseExpiry(v string) (time.Time, error) {
	if t, err := mail.ParseDate(v); err == nil {
		return t, nil
	}
	return http.ParseTime(v)
}
