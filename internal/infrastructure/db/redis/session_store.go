package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

// sessionKey is the single slot; a new login overwrites it.
const sessionKey = "admin:session"

// SessionStore keeps the admin session as one JSON value that Redis expires
// together with the session itself.
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

// sessionRecord is the stored shape: times are epoch milliseconds.
type sessionRecord struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	Email       string              `json:"email"`
	Role        string              `json:"role"`
	Permissions []domain.Permission `json:"permissions"`
	LoginTime   int64               `json:"loginTime"`
	ExpiryTime  int64               `json:"expiryTime"`
}

func toRecord(s *domain.Session) sessionRecord {
	return sessionRecord{
		ID:          s.ID,
		UserID:      s.UserID,
		Email:       s.Email,
		Role:        string(s.Role),
		Permissions: s.Permissions,
		LoginTime:   s.LoginTime.UnixMilli(),
		ExpiryTime:  s.ExpiryTime.UnixMilli(),
	}
}

func (r sessionRecord) toSession() *domain.Session {
	return &domain.Session{
		ID:          r.ID,
		UserID:      r.UserID,
		Email:       r.Email,
		Role:        domain.Role(r.Role),
		Permissions: r.Permissions,
		LoginTime:   time.UnixMilli(r.LoginTime).UTC(),
		ExpiryTime:  time.UnixMilli(r.ExpiryTime).UTC(),
	}
}

// Load returns domain.ErrSessionNotFound for a missing or undecodable value.
func (s *SessionStore) Load(ctx context.Context) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil || rec.ID == "" {
		return nil, domain.ErrSessionNotFound
	}
	return rec.toSession(), nil
}

// Save overwrites the slot. The key's TTL is the time left until expiry so a
// forgotten session does not linger in Redis.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(toRecord(session))
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ttl := session.ExpiryTime.Sub(s.now())
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, sessionKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes the slot; deleting a missing key is not an error.
func (s *SessionStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
