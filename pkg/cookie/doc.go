// Package cookie parses raw Set-Cookie header values into a flat attribute map.
//
// A login response typically carries the session cookie together with its
// attributes in a single header:
//
//	auth_session=abc; Path=/; Expires=Wed, 01 Jan 2025 00:00:00 GMT; HttpOnly
//
// Parse flattens every `name=value` pair of every header into one map, so the
// session token and its expiry can be read with plain map lookups:
//
//	attrs := cookie.Parse(resp.Header.Values("Set-Cookie"))
//	token, ok := attrs["auth_session"]
//	expires := attrs["Expires"]
//
// Attribute names are not normalised: "Expires" and "expires" are distinct
// keys. When the same name appears more than once the last occurrence wins.
//
// Parse never fails. Segments without '=' (flags such as HttpOnly or Secure)
// are kept as keys with an empty value.
package cookie
