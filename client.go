package dougs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/dougs/pkg/logger"
	"github.com/dmitrymomot/dougs/pkg/schema"
	"github.com/dmitrymomot/dougs/pkg/session"
	"github.com/dmitrymomot/dougs/pkg/transport"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 10 << 20

// Client is the Dougs API facade. It is safe for concurrent use.
// Zero value is not usable; use New to create instances.
type Client struct {
	baseURL   string
	headers   http.Header
	http      *http.Client
	transport *transport.Transport
	sessions  session.Provider
	logger    *slog.Logger
}

// New creates a client authenticating with creds.
// Sessions are obtained lazily on the first request.
func New(creds Credentials, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	log := logger.OrDiscard(o.logger)
	baseURL := strings.TrimRight(o.baseURL, "/")

	headers := make(http.Header)
	headers.Set("Accept", "application/json")
	headers.Set("Origin", baseURL)

	next := http.DefaultTransport
	if o.httpClient != nil && o.httpClient.Transport != nil {
		next = o.httpClient.Transport
	}

	sessions := o.sessions
	if sessions == nil {
		sessions = session.New(baseURL, creds.Username, creds.Password,
			session.WithHTTPClient(&http.Client{Transport: next, Timeout: o.attemptTimeout}),
			session.WithThreshold(o.sessionThreshold),
			session.WithHeaders(headers),
			session.WithClock(o.clock),
			session.WithLogger(log.With(logger.Component("session"))),
		)
	}

	transportOpts := []transport.Option{
		transport.WithNext(next),
		transport.WithMaxRetries(o.maxRetries),
		transport.WithBackoff(o.backoff),
		transport.WithAttemptTimeout(o.attemptTimeout),
		transport.WithOnRetry(o.onRetry),
		transport.WithLogger(log.With(logger.Component("transport"))),
	}
	if o.retryable != nil {
		transportOpts = append(transportOpts, transport.WithRetryableStatuses(o.retryable...))
	}
	rt := transport.New(sessions, transportOpts...)

	httpClient := &http.Client{Transport: rt}
	if o.httpClient != nil {
		httpClient.CheckRedirect = o.httpClient.CheckRedirect
	}

	return &Client{
		baseURL:   baseURL,
		headers:   headers,
		http:      httpClient,
		transport: rt,
		sessions:  sessions,
		logger:    log,
	}
}

// GetSessionToken returns a currently valid session token, logging in when
// the cached session is missing or about to expire.
func (c *Client) GetSessionToken(ctx context.Context) (string, error) {
	s, err := c.sessions.EnsureSession(ctx)
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrPermanentHTTP, err)
	}
	for k, vs := range c.headers {
		req.Header[k] = slices.Clone(vs)
	}
	return req, nil
}

// doJSON sends payload (if any) as JSON and returns the raw 2xx response body.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	path := req.URL.Path

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.requestError(req, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, c.requestError(req, err)
	}

	c.logger.DebugContext(req.Context(), "api request completed",
		logger.Method(req.Method),
		logger.Path(path),
		logger.StatusCode(resp.StatusCode),
		logger.Duration(time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			Method:     req.Method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       bodySnippet(body),
			Transient:  c.transport.Retryable(resp.StatusCode),
		}
	}
	return body, nil
}

// requestError classifies a failure that produced no HTTP status.
func (c *Client) requestError(req *http.Request, err error) error {
	if ctxErr := req.Context().Err(); ctxErr != nil {
		return ctxErr
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	if errors.Is(err, ErrAuthentication) {
		return err
	}
	return fmt.Errorf("%w: %s %s: %w", ErrPermanentHTTP, req.Method, req.URL.Path, err)
}

func getOne[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	data, err := c.doJSON(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[T](data)
}

func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	data, err := c.doJSON(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return schema.DecodeList[T](data)
}

func decodeOne[T any](data []byte) (*T, error) {
	v, err := schema.Decode[T](data)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
