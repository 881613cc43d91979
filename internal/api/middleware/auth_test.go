package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

type stubResolver struct {
	sid     string
	session *domain.Session
}

func (s *stubResolver) ParseToken(token string) (string, error) {
	if token != "good-token" {
		return "", domain.ErrSessionNotFound
	}
	return s.sid, nil
}

func (s *stubResolver) CurrentSession(ctx context.Context) (*domain.Session, error) {
	if s.session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return s.session, nil
}

func editorSession(id string) *domain.Session {
	user := domain.AdminUser{ID: "u-1", Email: "editor@blog.com", Role: domain.RoleEditor, Permissions: domain.PermissionsFor(domain.RoleEditor)}
	return domain.NewSession(id, user, time.Now(), domain.SessionDuration)
}

func runAuth(t *testing.T, resolver *stubResolver, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Auth(resolver)(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	resolver := &stubResolver{sid: "s-1", session: editorSession("s-1")}

	called := false
	rec := runAuth(t, resolver, "Bearer good-token", func(c echo.Context) error {
		called = true
		s, ok := SessionFrom(c)
		if !ok || s.ID != "s-1" {
			t.Fatalf("session not set")
		}
		if c.Get("role") != "editor" {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		resolver *stubResolver
	}{
		{"missing header", "", &stubResolver{sid: "s-1", session: editorSession("s-1")}},
		{"invalid header format", "Token abc", &stubResolver{sid: "s-1", session: editorSession("s-1")}},
		{"invalid token", "Bearer not-a-token", &stubResolver{sid: "s-1", session: editorSession("s-1")}},
		{"no live session", "Bearer good-token", &stubResolver{sid: "s-1"}},
		{"superseded session", "Bearer good-token", &stubResolver{sid: "s-1", session: editorSession("s-2")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := runAuth(t, tc.resolver, tc.header, func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
