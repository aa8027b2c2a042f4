package dougs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/dougs/pkg/schema"
	"github.com/dmitrymomot/dougs/pkg/session"
)

var (
	// ErrAuthentication indicates the login failed or returned no usable session.
	ErrAuthentication = session.ErrAuthentication

	// ErrValidation indicates a response or input did not match the expected shape.
	ErrValidation = schema.ErrValidation

	// ErrTransientHTTP indicates a retryable status persisted after all retries.
	ErrTransientHTTP = errors.New("transient http failure")

	// ErrPermanentHTTP indicates a non-retryable status or a network failure.
	ErrPermanentHTTP = errors.New("permanent http failure")

	// ErrUnsupportedAttachment indicates an invoice file type outside the allow-list.
	ErrUnsupportedAttachment = errors.New("unsupported attachment")
)

// HTTPError describes a non-2xx API response.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	// Body holds the beginning of the response body, sanitised for logging.
	Body string
	// Transient is set when the status was retryable and the retries ran out.
	Transient bool
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *HTTPError) Unwrap() error {
	if e.Transient {
		return ErrTransientHTTP
	}
	return ErrPermanentHTTP
}

// UnsupportedAttachmentError is returned before any request is sent when an
// invoice file cannot be uploaded.
type UnsupportedAttachmentError struct {
	Filename string
	// MIMEType is empty when the extension is not recognised.
	MIMEType string
}

func (e *UnsupportedAttachmentError) Error() string {
	if e.MIMEType == "" {
		return fmt.Sprintf("%s: %q has an unrecognised extension", ErrUnsupportedAttachment, e.Filename)
	}
	return fmt.Sprintf("%s: %q has MIME type %s", ErrUnsupportedAttachment, e.Filename, e.MIMEType)
}

func (e *UnsupportedAttachmentError) Unwrap() error {
	return ErrUnsupportedAttachment
}

// bodySnippet keeps error messages single-line and short.
func bodySnippet(body []byte) string {
	s := strings.TrimSpace(strings.ReplaceAll(string(body), "\n", " "))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
