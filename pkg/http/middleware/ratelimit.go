package middleware

import (
	"context"
	"net/http"

	applogger "FinCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Limiter decides whether one more request for key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects requests with 429 once the client IP is over its budget.
// A limiter backend failure lets the request through.
func RateLimit(limiter Limiter, l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				if l != nil {
					l.Warn("rate limiter unavailable", applogger.Error(err))
				}
				return next(c)
			}
			if !ok {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
			}
			return next(c)
		}
	}
}
