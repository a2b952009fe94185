package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/simplewebapi/bookstore-api/internal/api/metrics"
)

// Limiter counts requests per key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Throttle limits requests per client IP on one route. Limiter failures let
// the request through.
func Throttle(limiter Limiter, route string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), route+":"+c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("route", route).Msg("throttle unavailable, allowing request")
				return next(c)
			}
			if !ok {
				metrics.ThrottledTotal.WithLabelValues(route).Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
