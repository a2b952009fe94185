package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (l *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allowed, l.err
}

func runThrottle(t *testing.T, limiter Limiter) (int, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Throttle(limiter, "login", zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code, called
}

func TestThrottle_Allows(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	code, called := runThrottle(t, limiter)

	if code != http.StatusOK || !called {
		t.Fatalf("expected request through, got %d", code)
	}
	if len(limiter.keys) != 1 || limiter.keys[0] != "login:10.0.0.1" {
		t.Fatalf("unexpected limiter keys: %v", limiter.keys)
	}
}

func TestThrottle_RejectsOverLimit(t *testing.T) {
	code, called := runThrottle(t, &stubLimiter{allowed: false})

	if code != http.StatusTooManyRequests || called {
		t.Fatalf("expected 429 without calling next, got %d (called=%v)", code, called)
	}
}

func TestThrottle_FailsOpen(t *testing.T) {
	code, called := runThrottle(t, &stubLimiter{err: errors.New("redis down")})

	if code != http.StatusOK || !called {
		t.Fatalf("expected request through on limiter error, got %d", code)
	}
}
