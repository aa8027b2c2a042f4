// Package fakeapi is an in-memory stand-in for the Dougs API used by tests.
//
// It issues session cookies on login, rejects requests without a live
// session, stores operations in memory and records every request so tests
// can assert on headers, queries and bodies:
//
//	srv := fakeapi.New(t)
//	client := dougs.New(dougs.Credentials{
//		Username: fakeapi.Username,
//		Password: fakeapi.Password,
//	}, dougs.WithBaseURL(srv.URL))
//
// Failures are scripted with FailNext and Override.
package fakeapi
