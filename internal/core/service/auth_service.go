package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/portfolio/blog-admin/internal/api/metrics"
	"github.com/portfolio/blog-admin/internal/core/credentials"
	"github.com/portfolio/blog-admin/internal/core/domain"
	"github.com/portfolio/blog-admin/internal/core/ports"
)

const tokenIssuer = "blog-admin"

// AuthService implements login, the single-slot session and permission checks.
type AuthService struct {
	users     ports.UserRepository
	creds     *credentials.Store
	sessions  ports.SessionStore
	audit     ports.AuditSink
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithClock replaces time.Now, mainly for expiry tests.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// WithSessionTTL overrides domain.SessionDuration.
func WithSessionTTL(ttl time.Duration) AuthOption {
	return func(s *AuthService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithAuditSink routes login/logout events to sink.
func WithAuditSink(sink ports.AuditSink) AuthOption {
	return func(s *AuthService) { s.audit = sink }
}

func NewAuthService(
	users ports.UserRepository,
	creds *credentials.Store,
	sessions ports.SessionStore,
	jwtSecret string,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		users:     users,
		creds:     creds,
		sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
		ttl:       domain.SessionDuration,
		now:       time.Now,
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate checks email, password and admin key, then writes a fresh
// session into the slot, replacing any previous one.
func (s *AuthService) Authenticate(ctx context.Context, email, password, adminKey string) (*domain.Session, error) {
	users, err := s.users.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticate: load users: %w: %w", domain.ErrStorageFailure, err)
	}

	user := findActiveByEmail(users, email)
	if user == nil {
		s.recordAttempt(email, "user_not_found")
		return nil, domain.ErrUserNotFound
	}

	if err := s.creds.Verify(email, password, adminKey); err != nil {
		s.recordAttempt(email, "invalid_credentials")
		return nil, err
	}

	now := s.now().UTC()
	session := domain.NewSession(uuid.NewString(), *user, now, s.ttl)
	if err := s.sessions.Save(ctx, session); err != nil {
		s.recordAttempt(email, "storage_failure")
		return nil, fmt.Errorf("authenticate: save session: %w: %w", domain.ErrStorageFailure, err)
	}

	if err := s.touchLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.emit(domain.AuditEvent{Email: email, Action: domain.AuditLogin, Detail: string(user.Role), At: now})
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("admin logged in")

	return session, nil
}

// CurrentSession returns the slot's session, deleting it first if it has expired.
func (s *AuthService) CurrentSession(ctx context.Context) (*domain.Session, error) {
	session, err := s.sessions.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.log.Warn().Err(err).Msg("session load failed, treating as logged out")
		}
		return nil, domain.ErrSessionNotFound
	}

	if session.ExpiredAt(s.now()) {
		if err := s.sessions.Delete(ctx); err != nil {
			s.log.Warn().Err(err).Str("session_id", session.ID).Msg("failed to delete expired session")
		}
		s.log.Debug().Str("session_id", session.ID).Msg("session expired")
		return nil, domain.ErrSessionNotFound
	}

	return session, nil
}

// Logout clears the slot. Calling it with no session is a no-op.
func (s *AuthService) Logout(ctx context.Context) error {
	existing, loadErr := s.sessions.Load(ctx)

	if err := s.sessions.Delete(ctx); err != nil {
		return fmt.Errorf("logout: %w: %w", domain.ErrStorageFailure, err)
	}

	if loadErr == nil && existing != nil {
		s.emit(domain.AuditEvent{Email: existing.Email, Action: domain.AuditLogout, At: s.now().UTC()})
	}
	return nil
}

// HasPermission is fail-closed: without a live session every check is false.
func (s *AuthService) HasPermission(ctx context.Context, action, resource string) bool {
	session, err := s.CurrentSession(ctx)
	if err != nil {
		return false
	}
	return session.HasPermission(action, resource)
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a bearer token bound to session's id; it expires with the session.
func (s *AuthService) IssueToken(session *domain.Session) (string, error) {
	claims := sessionClaims{
		SessionID: session.ID,
		Email:     session.Email,
		Role:      string(session.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(session.LoginTime),
			ExpiresAt: jwt.NewNumericDate(session.ExpiryTime),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}

// ParseToken verifies token and returns the session id it was issued for.
func (s *AuthService) ParseToken(token string) (string, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.SessionID == "" {
		return "", domain.ErrSessionNotFound
	}
	return claims.SessionID, nil
}

func (s *AuthService) touchLastLogin(ctx context.Context, userID string, at time.Time) error {
	users, err := s.users.LoadAll(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == userID {
			t := at
			users[i].LastLogin = &t
			return s.users.SaveAll(ctx, users)
		}
	}
	return domain.ErrUserNotFound
}

func (s *AuthService) recordAttempt(email, result string) {
	metrics.LoginAttemptsTotal.WithLabelValues(result).Inc()
	s.emit(domain.AuditEvent{Email: email, Action: domain.AuditLoginFailed, Detail: result, At: s.now().UTC()})
	s.log.Info().Str("result", result).Msg("admin login rejected")
}

func (s *AuthService) emit(event domain.AuditEvent) {
	if s.audit != nil {
		s.audit.Enqueue(event)
	}
}

func findActiveByEmail(users []domain.AdminUser, email string) *domain.AdminUser {
	for i := range users {
		if users[i].IsActive && users[i].Email == email {
			u := users[i].Clone()
			return &u
		}
	}
	return nil
}
