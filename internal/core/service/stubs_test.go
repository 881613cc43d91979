package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/portfolio/blog-admin/internal/core/credentials"
	"github.com/portfolio/blog-admin/internal/core/domain"
	"github.com/portfolio/blog-admin/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

var errBoom = errors.New("boom")

type stubSessionStore struct {
	session *domain.Session
	saveErr error
	deletes int
}

func (s *stubSessionStore) Load(_ context.Context) (*domain.Session, error) {
	if s.session == nil {
		return nil, domain.ErrSessionNotFound
	}
	c := *s.session
	c.Permissions = domain.ClonePermissions(s.session.Permissions)
	return &c, nil
}

func (s *stubSessionStore) Save(_ context.Context, session *domain.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	c := *session
	s.session = &c
	return nil
}

func (s *stubSessionStore) Delete(_ context.Context) error {
	s.deletes++
	s.session = nil
	return nil
}

type stubUserRepo struct {
	users   []domain.AdminUser
	loadErr error
	saveErr error
	saves   int
}

func (r *stubUserRepo) LoadAll(_ context.Context) ([]domain.AdminUser, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	out := make([]domain.AdminUser, len(r.users))
	for i, u := range r.users {
		out[i] = u.Clone()
	}
	return out, nil
}

func (r *stubUserRepo) SaveAll(_ context.Context, users []domain.AdminUser) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.users = make([]domain.AdminUser, len(users))
	for i, u := range users {
		r.users[i] = u.Clone()
	}
	return nil
}

type stubMirror struct {
	roles map[string]domain.Role
	err   error
}

func (m *stubMirror) UpsertRole(_ context.Context, userID string, role domain.Role) error {
	if m.err != nil {
		return m.err
	}
	if m.roles == nil {
		m.roles = make(map[string]domain.Role)
	}
	m.roles[userID] = role
	return nil
}

type stubAuditSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *stubAuditSink) Enqueue(e domain.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *stubAuditSink) actions() []domain.AuditAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditAction, len(s.events))
	for i, e := range s.events {
		out[i] = e.Action
	}
	return out
}

type stubCache struct {
	entries map[string]any
	getErr  error
	sets    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]any)}
}

func (c *stubCache) Get(_ context.Context, key string, dst any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	v, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.AnalyticsSnapshot:
		*d = *(v.(*domain.AnalyticsSnapshot))
	case *[]domain.DailyMetric:
		*d = v.([]domain.DailyMetric)
	}
	return true, nil
}

func (c *stubCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.sets++
	c.entries[key] = value
	return nil
}

type stubProvider struct {
	name      string
	available bool
	views     int64
	viewsErr  error
	eng       *ports.Engagement
	engErr    error
	probes    int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) IsAvailable(_ context.Context) bool {
	p.probes++
	return p.available
}

func (p *stubProvider) PageViews(_ context.Context, _ domain.TimeRange) (int64, error) {
	return p.views, p.viewsErr
}

func (p *stubProvider) Engagement(_ context.Context, _ domain.TimeRange) (*ports.Engagement, error) {
	if p.engErr != nil {
		return nil, p.engErr
	}
	if p.eng == nil {
		return &ports.Engagement{}, nil
	}
	return p.eng, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

const (
	seedEmail    = "admin@blog.com"
	seedPassword = "Admin123!"
	seedKey      = "BLOG_ADMIN_KEY_2024"
)

func seededUsers() []domain.AdminUser {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []domain.AdminUser{
		{ID: "u-admin", Email: seedEmail, Name: "Blog Admin", Role: domain.RoleAdmin, Permissions: domain.PermissionsFor(domain.RoleAdmin), IsActive: true, CreatedAt: created},
		{ID: "u-editor", Email: "editor@blog.com", Name: "Editor", Role: domain.RoleEditor, Permissions: domain.PermissionsFor(domain.RoleEditor), IsActive: true, CreatedAt: created},
		{ID: "u-viewer", Email: "viewer@blog.com", Name: "Viewer", Role: domain.RoleViewer, Permissions: domain.PermissionsFor(domain.RoleViewer), IsActive: true, CreatedAt: created},
		{ID: "u-root", Email: "owner@blog.com", Name: "Owner", Role: domain.RoleSuperAdmin, Permissions: domain.PermissionsFor(domain.RoleSuperAdmin), IsActive: true, CreatedAt: created},
		{ID: "u-gone", Email: "former@blog.com", Name: "Former", Role: domain.RoleAdmin, Permissions: domain.PermissionsFor(domain.RoleAdmin), IsActive: false, CreatedAt: created},
	}
}

func testCredentials() *credentials.Store {
	records := []credentials.Record{
		{Email: seedEmail, Password: seedPassword, AdminKey: seedKey},
		{Email: "editor@blog.com", Password: "Editor123!", AdminKey: "EDITOR_KEY"},
		{Email: "viewer@blog.com", Password: "Viewer123!", AdminKey: "VIEWER_KEY"},
		{Email: "owner@blog.com", Password: "Owner123!", AdminKey: "OWNER_KEY"},
		{Email: "former@blog.com", Password: "Former123!", AdminKey: "FORMER_KEY"},
	}
	s, err := credentials.New(records, bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return s
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
