package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/simplewebapi/bookstore-api/internal/api/middleware"
	"github.com/simplewebapi/bookstore-api/internal/core/domain"
	"github.com/simplewebapi/bookstore-api/internal/core/ports"
)

type stubUsersService struct {
	users []ports.UserSummary
}

func (s *stubUsersService) ListAll(context.Context) ([]ports.UserSummary, error) {
	return s.users, nil
}

func (s *stubUsersService) GetByUsername(_ context.Context, username string) (*ports.UserSummary, error) {
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func TestUsersHandler_List(t *testing.T) {
	stub := &stubUsersService{users: []ports.UserSummary{
		{ID: "1", Username: "ann", Email: "ann@x.io", FullName: "Ann Lee", Roles: []string{"User", "Administrator"}},
	}}
	c, rec := jsonContext(newTestEcho(), http.MethodGet, "/users", "")

	if err := NewUsersHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["userName"] != "ann" || resp[0]["fullName"] != "Ann Lee" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUsersHandler_List_Empty(t *testing.T) {
	c, _ := jsonContext(newTestEcho(), http.MethodGet, "/users", "")

	err := NewUsersHandler(&stubUsersService{}).List(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestUsersHandler_Current(t *testing.T) {
	stub := &stubUsersService{users: []ports.UserSummary{{ID: "1", Username: "ann"}}}
	h := NewUsersHandler(stub)

	c, rec := jsonContext(newTestEcho(), http.MethodGet, "/users/current", "")
	c.Set(middleware.PrincipalKey, &domain.Principal{Username: "ann"})
	if err := h.Current(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.ID != "1" {
		t.Fatalf("unexpected body %q (%v)", rec.Body.String(), err)
	}
	if resp.Roles == nil || resp.Claims == nil {
		t.Fatalf("roles and claims must be arrays: %+v", resp)
	}

	c, _ = jsonContext(newTestEcho(), http.MethodGet, "/users/current", "")
	c.Set(middleware.PrincipalKey, &domain.Principal{Username: "ghost"})
	if err := h.Current(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
