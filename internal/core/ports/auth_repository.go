package ports

import (
	"context"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

// SessionStore persists the single admin session slot.
// Load returns domain.ErrSessionNotFound when the slot is empty or unreadable.
// Save overwrites whatever the slot held.
type SessionStore interface {
	Load(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context) error
}

// UserRepository reads and rewrites the whole admin user collection at once.
// There is no field-level update; the last SaveAll wins.
type UserRepository interface {
	LoadAll(ctx context.Context) ([]domain.AdminUser, error)
	SaveAll(ctx context.Context, users []domain.AdminUser) error
}

// RoleMirror keeps the backing store's user_roles table in step with the registry.
type RoleMirror interface {
	UpsertRole(ctx context.Context, userID string, role domain.Role) error
}

// CredentialIndex reports which emails have login credentials.
type CredentialIndex interface {
	Has(email string) bool
}
