package ports

import (
	"context"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

type AuthService interface {
	Authenticate(ctx context.Context, email, password, adminKey string) (*domain.Session, error)
	CurrentSession(ctx context.Context) (*domain.Session, error)
	Logout(ctx context.Context) error
	HasPermission(ctx context.Context, action, resource string) bool
	IssueToken(session *domain.Session) (string, error)
	ParseToken(token string) (string, error)
}
