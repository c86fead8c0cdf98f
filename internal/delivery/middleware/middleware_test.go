package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "accounts/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(buf *bytes.Buffer, handler echo.HandlerFunc) *echo.Echo {
	logger := slog.New(slog.NewJSONHandler(buf, nil))

	e := echo.New()
	e.Use(NewRequestIDMiddleware(logger).Process)
	e.Use(NewLoggerMiddleware(logger).Handle)
	e.GET("/", handler)

	return e
}

func TestRequestIDMiddleware_GeneratesAndPropagates(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	e := newTestServer(&buf, func(c echo.Context) error {
		seen = deliverycontext.GetRequestIDFromContext(c.Request().Context())

		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.Contains(t, buf.String(), `"request_id":"`+seen+`"`)
}

func TestRequestIDMiddleware_KeepsClientID(t *testing.T) {
	var buf bytes.Buffer
	e := newTestServer(&buf, func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "client-id")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "client-id", rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestLoggerMiddleware_LogsRenderedErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	e := newTestServer(&buf, func(echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestValidRequestID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{id: "3f0e3b8c-6f1d-4b7a-9d1e-2f2a1b0c9d8e", want: true},
		{id: "client-id", want: true},
		{id: ""},
		{id: "has space"},
		{id: "line\nbreak"},
		{id: string(make([]byte, maxRequestIDLength+1))},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, validRequestID(tt.id), "id %q", tt.id)
	}
}
