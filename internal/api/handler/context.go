package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simplewebapi/bookstore-api/internal/api/middleware"
	"github.com/simplewebapi/bookstore-api/internal/core/domain"
)

// ctxPrincipal returns the caller injected by the Authenticate middleware.
// Its absence means the route was registered without the gate.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok || p.Username == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}
