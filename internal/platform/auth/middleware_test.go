package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestMiddleware_ValidToken(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	userID := uuid.New()
	token, err := m.NewToken(userID, RolePatient)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got Identity
	h := Middleware(m)(func(c echo.Context) error {
		got, _ = IdentityFromContext(c.Request().Context())
		return okHandler(c)
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != userID {
		t.Errorf("expected identity %s in context, got %s", userID, got.UserID)
	}
	if got.Role != RolePatient {
		t.Errorf("expected role patient, got %s", got.Role)
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Middleware(m)(okHandler)(c)
	if err == nil {
		t.Fatal("expected error for missing header")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestMiddleware_NotBearer(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Middleware(m)(okHandler)(c); err == nil {
		t.Error("expected error for non-bearer header")
	}
}

func TestMiddleware_BadToken(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Middleware(m)(okHandler)(c); err == nil {
		t.Error("expected error for bad token")
	}
}
