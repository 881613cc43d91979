package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/portfolio/blog-admin/internal/core/domain"
	"github.com/portfolio/blog-admin/internal/core/ports"
)

// SeedUser describes an account the registry must contain.
type SeedUser struct {
	Email string
	Name  string
	Role  domain.Role
}

// UserService is the admin user registry over a whole-blob repository.
type UserService struct {
	repo   ports.UserRepository
	mirror ports.RoleMirror // optional
	audit  ports.AuditSink  // optional
	creds  ports.CredentialIndex
	now    func() time.Time
	log    zerolog.Logger
}

// UserOption customises a UserService.
type UserOption func(*UserService)

// WithCredentialIndex pins the email of every account idx can log in with.
// Credentials are keyed by email, so renaming such an account would lock it out.
func WithCredentialIndex(idx ports.CredentialIndex) UserOption {
	return func(s *UserService) { s.creds = idx }
}

// NewUserService returns the registry backed by repo. mirror and audit may be nil.
func NewUserService(repo ports.UserRepository, mirror ports.RoleMirror, audit ports.AuditSink, log zerolog.Logger, opts ...UserOption) *UserService {
	s := &UserService{
		repo:   repo,
		mirror: mirror,
		audit:  audit,
		now:    time.Now,
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]domain.AdminUser, error) {
	users, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get users: %w: %w", domain.ErrStorageFailure, err)
	}
	if users == nil {
		users = []domain.AdminUser{}
	}
	return users, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	users, err := s.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i].Clone()
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// CreateUser assigns a fresh id, creation time and the role's catalog permissions.
func (s *UserService) CreateUser(ctx context.Context, in ports.NewUserInput) (*domain.AdminUser, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, fmt.Errorf("create user: email is required: %w", domain.ErrInvalidInput)
	}
	if _, err := domain.ParseRole(string(in.Role)); err != nil {
		return nil, err
	}

	users, err := s.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			return nil, domain.ErrUserExists
		}
	}

	user := domain.AdminUser{
		ID:          uuid.NewString(),
		Email:       email,
		Name:        strings.TrimSpace(in.Name),
		Role:        in.Role,
		Permissions: domain.PermissionsFor(in.Role),
		IsActive:    true,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.repo.SaveAll(ctx, append(users, user)); err != nil {
		return nil, fmt.Errorf("create user: %w: %w", domain.ErrStorageFailure, err)
	}

	s.mirrorRole(ctx, user)
	s.emit(user.Email, domain.AuditUserCreated, string(user.Role))
	return &user, nil
}

// UpdateUser replaces the stored user with the same id. A role change also
// resets permissions to that role's catalog entry. Emails stay unique, and an
// account with login credentials keeps its email.
func (s *UserService) UpdateUser(ctx context.Context, user domain.AdminUser) (*domain.AdminUser, error) {
	if _, err := domain.ParseRole(string(user.Role)); err != nil {
		return nil, err
	}

	users, err := s.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range users {
		if users[i].ID == user.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrUserNotFound
	}

	prev := users[idx]
	updated := user.Clone()
	updated.Email = strings.TrimSpace(updated.Email)
	updated.CreatedAt = prev.CreatedAt
	if updated.Email == "" {
		return nil, fmt.Errorf("update user: email is required: %w", domain.ErrInvalidInput)
	}
	if updated.Email != prev.Email {
		if s.creds != nil && s.creds.Has(prev.Email) {
			return nil, fmt.Errorf("update user: %s has login credentials, email is fixed: %w", prev.Email, domain.ErrInvalidInput)
		}
		for j := range users {
			if users[j].ID != updated.ID && users[j].Email == updated.Email {
				return nil, domain.ErrUserExists
			}
		}
	}
	if updated.Role != prev.Role || updated.Permissions == nil {
		updated.Permissions = domain.PermissionsFor(updated.Role)
	}
	users[idx] = updated

	if err := s.repo.SaveAll(ctx, users); err != nil {
		return nil, fmt.Errorf("update user: %w: %w", domain.ErrStorageFailure, err)
	}

	if updated.Role != prev.Role {
		s.mirrorRole(ctx, updated)
	}
	s.emit(updated.Email, domain.AuditUserUpdated, string(updated.Role))
	return &updated, nil
}

// DeactivateUser flips IsActive through UpdateUser; the record is kept.
func (s *UserService) DeactivateUser(ctx context.Context, id string) (*domain.AdminUser, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = false

	updated, err := s.UpdateUser(ctx, *user)
	if err != nil {
		return nil, err
	}
	s.emit(updated.Email, domain.AuditUserDeactivated, "")
	return updated, nil
}

// Seed creates every seed account the registry does not hold yet, matched by
// email. Existing users are left untouched, including deactivated ones. It
// reports how many users were written.
func (s *UserService) Seed(ctx context.Context, seeds []SeedUser) (int, error) {
	users, err := s.GetAllUsers(ctx)
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(users))
	for _, u := range users {
		known[u.Email] = true
	}

	created := 0
	for _, seed := range seeds {
		email := strings.TrimSpace(seed.Email)
		if known[email] {
			continue
		}
		if _, err := s.CreateUser(ctx, ports.NewUserInput{Email: email, Name: seed.Name, Role: seed.Role}); err != nil {
			return created, fmt.Errorf("seed %s: %w", email, err)
		}
		known[email] = true
		created++
	}
	if created > 0 {
		s.log.Info().Int("count", created).Msg("admin registry seeded")
	}
	return created, nil
}

func (s *UserService) mirrorRole(ctx context.Context, user domain.AdminUser) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.UpsertRole(ctx, user.ID, user.Role); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to mirror user role")
	}
}

func (s *UserService) emit(email string, action domain.AuditAction, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.AuditEvent{Email: email, Action: action, Detail: detail, At: s.now().UTC()})
}
