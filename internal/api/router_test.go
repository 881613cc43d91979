package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/portfolio/blog-admin/internal/core/credentials"
	"github.com/portfolio/blog-admin/internal/core/domain"
	"github.com/portfolio/blog-admin/internal/core/service"
	"github.com/portfolio/blog-admin/internal/infrastructure/memory"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	log := zerolog.Nop()
	repo := memory.NewUserRepository()
	users := service.NewUserService(repo, nil, nil, log)

	seeds := []service.SeedUser{
		{Email: "admin@blog.com", Name: "Admin", Role: domain.RoleAdmin},
		{Email: "viewer@blog.com", Name: "Viewer", Role: domain.RoleViewer},
	}
	if _, err := users.Seed(context.Background(), seeds); err != nil {
		t.Fatalf("seed: %v", err)
	}

	creds, err := credentials.New([]credentials.Record{
		{Email: "admin@blog.com", Password: "Admin123!", AdminKey: "BLOG_ADMIN_KEY_2024"},
		{Email: "viewer@blog.com", Password: "Viewer123!", AdminKey: "VIEWER_KEY"},
	}, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}

	auth := service.NewAuthService(repo, creds, memory.NewSessionStore(), "test-secret", log)
	analytics := service.NewAnalyticsService(nil, memory.NewCache(), nil, 0, log)

	auditLog := memory.NewAuditLog(0)
	_ = auditLog.Insert(context.Background(), &domain.AuditEvent{Email: "admin@blog.com", Action: domain.AuditUserCreated})

	return NewRouter(Dependencies{
		Auth:       auth,
		Users:      users,
		Analytics:  analytics,
		Audit:      service.NewAuditService(auditLog, log),
		Registerer: prometheus.NewRegistry(),
		Log:        log,
	})
}

func do(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, email, password, key string) string {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `","admin_key":"` + key + `"}`
	rec := do(e, http.MethodPost, "/auth/login", "", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login %s: missing token (%v)", email, err)
	}
	return resp.Token
}

func TestRouter_AdminFlow(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e, "admin@blog.com", "Admin123!", "BLOG_ADMIN_KEY_2024")

	if rec := do(e, http.MethodGet, "/auth/session", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("session: expected 200, got %d", rec.Code)
	}

	rec := do(e, http.MethodGet, "/admin/users", token, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"count":2`) {
		t.Fatalf("list users: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/admin/users", token, `{"email":"writer@blog.com","name":"Writer","role":"editor"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(e, http.MethodPost, "/admin/users", token, `{"email":"writer@blog.com","name":"Writer","role":"editor"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate user: expected 409, got %d", rec.Code)
	}

	rec = do(e, http.MethodGet, "/admin/analytics?range=90d", token, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"source":"synthetic"`) {
		t.Fatalf("analytics: %d %s", rec.Code, rec.Body.String())
	}

	if rec := do(e, http.MethodPost, "/auth/logout", token, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/auth/session", token, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("session after logout: expected 401, got %d", rec.Code)
	}
}

func TestRouter_ViewerIsForbiddenFromUsers(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e, "viewer@blog.com", "Viewer123!", "VIEWER_KEY")

	if rec := do(e, http.MethodGet, "/admin/users", token, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for viewer, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/admin/analytics/timeseries?range=7d", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("viewer should read analytics, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/admin/audit", token, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 on the audit trail for viewer, got %d", rec.Code)
	}
}

func TestRouter_AuditTrail(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e, "admin@blog.com", "Admin123!", "BLOG_ADMIN_KEY_2024")

	rec := do(e, http.MethodGet, "/admin/audit?limit=10", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Events []domain.AuditEvent `json:"events"`
		Count  int                 `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || resp.Events[0].Action != domain.AuditUserCreated {
		t.Fatalf("unexpected audit trail: %+v", resp)
	}
}

func TestRouter_SecondLoginReplacesFirstToken(t *testing.T) {
	e := newTestRouter(t)
	first := login(t, e, "admin@blog.com", "Admin123!", "BLOG_ADMIN_KEY_2024")
	second := login(t, e, "viewer@blog.com", "Viewer123!", "VIEWER_KEY")

	if rec := do(e, http.MethodGet, "/auth/session", first, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("replaced token should be rejected, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/auth/session", second, ""); rec.Code != http.StatusOK {
		t.Fatalf("current token should be accepted, got %d", rec.Code)
	}
}

func TestRouter_LoginFailures(t *testing.T) {
	e := newTestRouter(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"wrong key", `{"email":"admin@blog.com","password":"Admin123!","admin_key":"BLOG_ADMIN_KEY_2023"}`, http.StatusUnauthorized},
		{"unknown email", `{"email":"admin@blog.org","password":"Admin123!","admin_key":"BLOG_ADMIN_KEY_2024"}`, http.StatusNotFound},
		{"missing key", `{"email":"admin@blog.com","password":"Admin123!"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := do(e, http.MethodPost, "/auth/login", "", tc.body); rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestRouter_Health(t *testing.T) {
	e := newTestRouter(t)
	if rec := do(e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("readiness: expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/admin/users", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated admin route: expected 401, got %d", rec.Code)
	}
}
