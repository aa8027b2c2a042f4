// Package transport provides the http.RoundTripper used by the Dougs client
// for every API call except login.
//
// Each attempt asks a session.Provider for a valid session and prepends the
// session cookie to the request's Cookie header. Responses whose status is in
// the retryable set (429, 500, 502, 503, 504 by default) are retried with the
// same method, URL and body after a backoff delay, up to a fixed number of
// extra attempts:
//
//	rt := transport.New(sessions,
//	    transport.WithMaxRetries(3),
//	    transport.WithBackoff(transport.LinearBackoff{Step: 500 * time.Millisecond}),
//	)
//	client := &http.Client{Transport: rt}
//
// Once the budget is spent the last response is returned unchanged so the
// caller can inspect its status and body. Network errors and non-retryable
// statuses are returned immediately. The caller's request is never modified:
// every attempt works on a clone, and re-authentication happens transparently
// when a session expires between attempts.
package transport
