package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dougs/pkg/logger"
)

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestStatusCode(t *testing.T) {
	attr := logger.StatusCode(503)
	require.Equal(t, "status_code", attr.Key)
	assert.Equal(t, int64(503), attr.Value.Int64())

	assert.True(t, logger.StatusCode(0).Equal(slog.Attr{}))
}

func TestRequestAttrs(t *testing.T) {
	assert.Equal(t, "GET", logger.Method("GET").Value.String())
	assert.Equal(t, "/users/me", logger.Path("/users/me").Value.String())
	assert.Equal(t, int64(2), logger.RetryCount(2).Value.Int64())
	assert.Equal(t, 3*time.Second, logger.Duration(3*time.Second).Value.Duration())
	assert.Equal(t, int64(42), logger.CompanyID(42).Value.Int64())
	assert.Equal(t, "transport", logger.Component("transport").Value.String())
}
