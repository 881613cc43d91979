// Package memory provides process-local implementations of the storage ports.
// They are used when Redis or MongoDB are not configured, and by tests.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

// SessionStore keeps the single session slot in memory.
type SessionStore struct {
	mu      sync.Mutex
	session *domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Load(_ context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return cloneSession(s.session), nil
}

func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = cloneSession(session)
	return nil
}

func (s *SessionStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

func cloneSession(s *domain.Session) *domain.Session {
	c := *s
	c.Permissions = domain.ClonePermissions(s.Permissions)
	return &c
}

// UserRepository holds the admin user collection as one slice.
type UserRepository struct {
	mu    sync.Mutex
	users []domain.AdminUser
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) LoadAll(_ context.Context) ([]domain.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AdminUser, len(r.users))
	for i, u := range r.users {
		out[i] = u.Clone()
	}
	return out, nil
}

func (r *UserRepository) SaveAll(_ context.Context, users []domain.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = make([]domain.AdminUser, len(users))
	for i, u := range users {
		r.users[i] = u.Clone()
	}
	return nil
}

type cacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

// Cache is a TTL map storing JSON payloads, mirroring the Redis cache.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry), now: time.Now}
}

func (c *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.payload, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{payload: payload, expiresAt: c.now().Add(ttl)}
	return nil
}

// DefaultAuditCapacity bounds AuditLog when no size is given.
const DefaultAuditCapacity = 1000

// AuditLog keeps the most recent audit events, oldest dropped first.
type AuditLog struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	limit  int
}

func NewAuditLog(limit int) *AuditLog {
	if limit <= 0 {
		limit = DefaultAuditCapacity
	}
	return &AuditLog{limit: limit}
}

func (l *AuditLog) Insert(_ context.Context, event *domain.AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == l.limit {
		copy(l.events, l.events[1:])
		l.events = l.events[:l.limit-1]
	}
	l.events = append(l.events, *event)
	return nil
}

// Recent returns up to limit events, newest first. limit <= 0 returns all of them.
func (l *AuditLog) Recent(_ context.Context, limit int) ([]domain.AuditEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit <= 0 || limit > len(l.events) {
		limit = len(l.events)
	}
	out := make([]domain.AuditEvent, 0, limit)
	for i := len(l.events) - 1; len(out) < limit; i-- {
		out = append(out, l.events[i])
	}
	return out, nil
}
