package ports

import (
	"context"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

// NewUserInput carries the fields a caller may set when creating an admin user.
type NewUserInput struct {
	Email string
	Name  string
	Role  domain.Role
}

// UserService is the admin user registry.
type UserService interface {
	GetAllUsers(ctx context.Context) ([]domain.AdminUser, error)
	GetUserByID(ctx context.Context, id string) (*domain.AdminUser, error)
	CreateUser(ctx context.Context, input NewUserInput) (*domain.AdminUser, error)
	UpdateUser(ctx context.Context, user domain.AdminUser) (*domain.AdminUser, error)
	DeactivateUser(ctx context.Context, id string) (*domain.AdminUser, error)
}
