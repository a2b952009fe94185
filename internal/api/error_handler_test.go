package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/simplewebapi/bookstore-api/internal/api/handler"
	"github.com/simplewebapi/bookstore-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"invalid login", domain.ErrInvalidLogin, http.StatusNotFound, "invalid email or password"},
		{"book not found", domain.ErrBookNotFound, http.StatusNotFound, "book not found"},
		{"user exists", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"book exists", domain.ErrBookExists, http.StatusConflict, "book already exists"},
		{"creation failed", domain.WithDetail(domain.ErrCreationFailed, "passwords must be at least 6 characters"), http.StatusBadRequest, "passwords must be at least 6 characters"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"echo error", echo.NewHTTPError(http.StatusTooManyRequests, "too many requests"), http.StatusTooManyRequests, "too many requests"},
		{"role assignment", domain.WithDetail(domain.ErrRoleAssignmentFailed, "create user succeeded but could not add user to role: boom"), http.StatusInternalServerError, "create user succeeded but could not add user to role: boom"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "connection reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			e.HTTPErrorHandler(tt.err, c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, resp.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationFields(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/signup", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(&handler.ValidationError{
		Fields: map[string][]string{"password": {"password must contain at least one digit"}},
	}, c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Fields["password"]) != 1 {
		t.Fatalf("expected password field error, got %+v", resp.Fields)
	}
}
