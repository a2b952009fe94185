package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
	"github.com/simplewebapi/bookstore-api/internal/core/ports"
)

type UsersHandler struct {
	service ports.UsersService
}

func NewUsersHandler(service ports.UsersService) *UsersHandler {
	return &UsersHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users [get]
func (h *UsersHandler) List(c echo.Context) error {
	users, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no users found")
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, resp)
}

// Current handles GET /users/current.
//
// @Summary      Get the calling user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/current [get]
func (h *UsersHandler) Current(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetByUsername(c.Request().Context(), principal.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*user))
}

func toUserResponse(u ports.UserSummary) userResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userResponse{
		ID:       u.ID,
		UserName: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Roles:    roles,
		Claims:   nonNilClaims(u.Claims),
	}
}

func nonNilClaims(c []domain.Claim) []domain.Claim {
	if c == nil {
		return []domain.Claim{}
	}
	return c
}
