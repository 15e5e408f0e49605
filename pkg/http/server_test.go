package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"FinCast/internal/domain/errs"
	applogger "FinCast/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

type routes func(e *echo.Echo)

func (r routes) RegisterRoutes(e *echo.Echo) { r(e) }

func newTestServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()
	return NewServer(routes(func(e *echo.Echo) {
		e.GET("/ok", func(c echo.Context) error { return FloatResponse(c, 2.5) })
		e.GET("/typed", func(echo.Context) error { return &errs.UnsupportedTokenError{Token: "DOGE"} })
		e.GET("/wrapped", func(echo.Context) error {
			return errors.Join(errors.New("ctx"), &errs.EmptyDataError{Reason: "no candles"})
		})
		e.GET("/plain", func(echo.Context) error { return errors.New("secret detail") })
		e.GET("/panic", func(echo.Context) error { panic("boom") })
	}), applogger.NewNop(), opts...)
}

func get(s *Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestErrorBoundary(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		target string
		status int
		body   string
	}{
		{"/ok", http.StatusOK, "2.5"},
		{"/typed", http.StatusInternalServerError, "unsupported token: DOGE"},
		{"/plain", http.StatusInternalServerError, "internal server error"},
		{"/panic", http.StatusInternalServerError, "internal server error"},
		{"/missing", http.StatusNotFound, "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(s, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
			assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain)
		})
	}
}

func TestErrorBoundaryWrappedTypedError(t *testing.T) {
	rec := get(newTestServer(t), "/wrapped")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty data: no candles")
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := newTestServer(t, WithMetrics(reg, "/metrics"))

	get(s, "/ok")
	rec := get(s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/ok",status="200"} 1`)
}

func TestFromError(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests,
		FromError(echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")).Status)
	assert.Equal(t, "rate limited",
		FromError(echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")).Message)

	app := ServiceUnavailableError("model not loaded")
	assert.Same(t, app, FromError(app))

	typed := FromError(&errs.DivisionByZeroError{Operand: "old price"})
	assert.Equal(t, http.StatusInternalServerError, typed.Status)
	assert.Equal(t, "ERR_division_by_zero", typed.Code)
}
