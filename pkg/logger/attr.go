package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// RetryCount records the retry attempt under the key "retry_count".
func RetryCount(count int) slog.Attr {
	return slog.Int("retry_count", count)
}

// StatusCode records an HTTP status under the key "status_code".
// Zero means no response was received and yields an empty Attr.
func StatusCode(code int) slog.Attr {
	if code == 0 {
		return slog.Attr{}
	}
	return slog.Int("status_code", code)
}

// Method records the HTTP method under the key "method".
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// Path records the request path under the key "path".
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// CompanyID records the company identifier under the key "company_id".
func CompanyID(id int64) slog.Attr {
	return slog.Int64("company_id", id)
}
