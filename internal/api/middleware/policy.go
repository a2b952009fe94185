package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
)

// RequirePolicy enforces a role policy. It must run after Authenticate.
func RequirePolicy(policy domain.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if !policy.Allows(principal) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
