// Package session owns the authenticated session used by the Dougs client.
//
// A Provider hands out a valid Session on demand. The transport layer calls
// EnsureSession before every outbound request and never manages tokens
// itself, so alternative authentication strategies only need to implement
// Provider.
//
// Manager is the login-based Provider. It starts unauthenticated, logs in
// with the configured credentials on first use and again whenever the
// current session is about to expire:
//
//	sessions := session.New("https://app.dougs.fr", "jane@example.com", "secret",
//	    session.WithThreshold(30*time.Second),
//	)
//	s, err := sessions.EnsureSession(ctx)
//
// Validity is purely time based: a session is valid while its expiry lies
// more than the threshold ahead of the clock. Nothing invalidates it early.
//
// # Concurrency
//
// Manager is safe for concurrent use. Callers that observe an expired
// session at the same time share a single login through singleflight; the
// session installed by the last completed login wins.
package session
