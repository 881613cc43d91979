package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

type authFixture struct {
	svc      *AuthService
	sessions *stubSessionStore
	users    *stubUserRepo
	audit    *stubAuditSink
	clock    *fakeClock
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		sessions: &stubSessionStore{},
		users:    &stubUserRepo{users: seededUsers()},
		audit:    &stubAuditSink{},
		clock:    &fakeClock{now: time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)},
	}
	f.svc = NewAuthService(f.users, testCredentials(), f.sessions, "secret", zerolog.Nop(),
		WithClock(f.clock.Now), WithAuditSink(f.audit))
	return f
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	f := newAuthFixture()

	session, err := f.svc.Authenticate(context.Background(), seedEmail, seedPassword, seedKey)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if session.Role != domain.RoleAdmin || session.UserID != "u-admin" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if got := session.ExpiryTime.Sub(session.LoginTime); got != 2*time.Hour {
		t.Fatalf("expected 2h session, got %v", got)
	}
	if len(session.Permissions) != len(domain.PermissionsFor(domain.RoleAdmin)) {
		t.Fatalf("expected permissions snapshot of admin role")
	}
	if f.sessions.session == nil || f.sessions.session.ID != session.ID {
		t.Fatalf("session not persisted to the slot")
	}

	var admin domain.AdminUser
	for _, u := range f.users.users {
		if u.ID == "u-admin" {
			admin = u
		}
	}
	if admin.LastLogin == nil || !admin.LastLogin.Equal(f.clock.Now()) {
		t.Fatalf("expected last login to be updated, got %v", admin.LastLogin)
	}
	if acts := f.audit.actions(); len(acts) != 1 || acts[0] != domain.AuditLogin {
		t.Fatalf("expected login audit event, got %v", acts)
	}
}

func TestAuthService_Authenticate_AnyFieldMutated(t *testing.T) {
	cases := []struct {
		name                 string
		email, password, key string
		want                 error
	}{
		{"password", seedEmail, "admin123!", seedKey, domain.ErrInvalidCredentials},
		{"admin key", seedEmail, seedPassword, "BLOG_ADMIN_KEY_2023", domain.ErrInvalidCredentials},
		{"email", "admin@blog.org", seedPassword, seedKey, domain.ErrUserNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newAuthFixture()
			if _, err := f.svc.Authenticate(context.Background(), c.email, c.password, c.key); err != c.want {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
			if f.sessions.session != nil {
				t.Fatalf("no session should be stored on failure")
			}
		})
	}
}

func TestAuthService_Authenticate_InactiveUser(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Authenticate(context.Background(), "former@blog.com", "Former123!", "FORMER_KEY"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound for inactive user, got %v", err)
	}
}

func TestAuthService_Authenticate_StorageFailure(t *testing.T) {
	f := newAuthFixture()
	f.sessions.saveErr = errBoom

	_, err := f.svc.Authenticate(context.Background(), seedEmail, seedPassword, seedKey)
	if !errors.Is(err, domain.ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure, got %v", err)
	}
}

func TestAuthService_Authenticate_OverwritesSlot(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	first, err := f.svc.Authenticate(ctx, seedEmail, seedPassword, seedKey)
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := f.svc.Authenticate(ctx, "editor@blog.com", "Editor123!", "EDITOR_KEY")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	current, err := f.svc.CurrentSession(ctx)
	if err != nil {
		t.Fatalf("CurrentSession: %v", err)
	}
	if current.ID != second.ID || current.ID == first.ID {
		t.Fatalf("expected second login to overwrite the slot")
	}
}

func TestAuthService_CurrentSession_LazyExpiry(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if _, err := f.svc.Authenticate(ctx, seedEmail, seedPassword, seedKey); err != nil {
		t.Fatalf("login: %v", err)
	}

	f.clock.Advance(2*time.Hour - time.Millisecond)
	if _, err := f.svc.CurrentSession(ctx); err != nil {
		t.Fatalf("session should still be valid: %v", err)
	}

	f.clock.Advance(time.Millisecond)
	if _, err := f.svc.CurrentSession(ctx); err != domain.ErrSessionNotFound {
		t.Fatalf("expected expiry at the boundary, got %v", err)
	}
	if f.sessions.session != nil {
		t.Fatalf("expired session should be removed from storage")
	}
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if _, err := f.svc.Authenticate(ctx, seedEmail, seedPassword, seedKey); err != nil {
		t.Fatalf("login: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := f.svc.Logout(ctx); err != nil {
			t.Fatalf("logout %d: %v", i, err)
		}
		if _, err := f.svc.CurrentSession(ctx); err != domain.ErrSessionNotFound {
			t.Fatalf("logout %d: expected no session, got %v", i, err)
		}
	}

	logouts := 0
	for _, a := range f.audit.actions() {
		if a == domain.AuditLogout {
			logouts++
		}
	}
	if logouts != 1 {
		t.Fatalf("expected exactly one logout audit event, got %d", logouts)
	}
}

func TestAuthService_HasPermission(t *testing.T) {
	ctx := context.Background()

	t.Run("no session denies everything", func(t *testing.T) {
		f := newAuthFixture()
		if f.svc.HasPermission(ctx, "read", "posts") {
			t.Fatalf("expected false without a session")
		}
	})

	t.Run("super-admin wildcard", func(t *testing.T) {
		f := newAuthFixture()
		if _, err := f.svc.Authenticate(ctx, "owner@blog.com", "Owner123!", "OWNER_KEY"); err != nil {
			t.Fatalf("login: %v", err)
		}
		if !f.svc.HasPermission(ctx, "drop", "everything") {
			t.Fatalf("super-admin should be allowed anything")
		}
	})

	t.Run("editor vs viewer", func(t *testing.T) {
		f := newAuthFixture()
		if _, err := f.svc.Authenticate(ctx, "editor@blog.com", "Editor123!", "EDITOR_KEY"); err != nil {
			t.Fatalf("login: %v", err)
		}
		if !f.svc.HasPermission(ctx, "write", "posts") {
			t.Fatalf("editor should write posts")
		}

		if _, err := f.svc.Authenticate(ctx, "viewer@blog.com", "Viewer123!", "VIEWER_KEY"); err != nil {
			t.Fatalf("login: %v", err)
		}
		if f.svc.HasPermission(ctx, "write", "posts") {
			t.Fatalf("viewer should not write posts")
		}
	})
}

func TestAuthService_EndToEnd(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	session, err := f.svc.Authenticate(ctx, seedEmail, seedPassword, seedKey)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", session.Role)
	}
	if !f.svc.HasPermission(ctx, "delete", "posts") {
		t.Fatalf("admin should delete posts")
	}
	if !f.svc.HasPermission(ctx, "write", "database") {
		t.Fatalf("admin should write database")
	}

	f.clock.Advance(2*time.Hour + time.Second)
	if _, err := f.svc.CurrentSession(ctx); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session to expire, got %v", err)
	}
	if f.svc.HasPermission(ctx, "read", "posts") {
		t.Fatalf("expired session must not grant permissions")
	}
}

func TestAuthService_PermissionSnapshotIsNotRefreshed(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if _, err := f.svc.Authenticate(ctx, "editor@blog.com", "Editor123!", "EDITOR_KEY"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// Demote the editor after login; the open session keeps its snapshot.
	for i := range f.users.users {
		if f.users.users[i].ID == "u-editor" {
			f.users.users[i].Role = domain.RoleViewer
			f.users.users[i].Permissions = domain.PermissionsFor(domain.RoleViewer)
		}
	}
	if !f.svc.HasPermission(ctx, "write", "posts") {
		t.Fatalf("session permissions should be the login-time snapshot")
	}
}

func TestAuthService_Token_RoundTrip(t *testing.T) {
	f := newAuthFixture()

	session, err := f.svc.Authenticate(context.Background(), seedEmail, seedPassword, seedKey)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	token, err := f.svc.IssueToken(session)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	sid, err := f.svc.ParseToken(token)
	if err != nil || sid != session.ID {
		t.Fatalf("expected sid %s, got %s (%v)", session.ID, sid, err)
	}

	other := NewAuthService(f.users, testCredentials(), f.sessions, "other-secret", zerolog.Nop(), WithClock(f.clock.Now))
	if _, err := other.ParseToken(token); err != domain.ErrSessionNotFound {
		t.Fatalf("token signed with another secret should be rejected, got %v", err)
	}

	f.clock.Advance(3 * time.Hour)
	if _, err := f.svc.ParseToken(token); err != domain.ErrSessionNotFound {
		t.Fatalf("expired token should be rejected, got %v", err)
	}
}
