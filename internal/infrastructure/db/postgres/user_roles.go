package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

const (
	createUserRolesSQL = `CREATE TABLE IF NOT EXISTS user_roles (
	user_id    TEXT PRIMARY KEY,
	role       TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

	upsertUserRoleSQL = `INSERT INTO user_roles (user_id, role, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = EXCLUDED.updated_at`

	selectUserRoleSQL = `SELECT role FROM user_roles WHERE user_id = $1`
)

// RoleMirror writes admin roles into the backend's user_roles table.
// Row-level-security policies on that table are managed outside this service.
type RoleMirror struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewRoleMirror(pool *pgxpool.Pool) *RoleMirror {
	return &RoleMirror{pool: pool, now: time.Now}
}

// EnsureSchema creates user_roles when it does not exist.
func (m *RoleMirror) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := m.pool.Exec(ctx, createUserRolesSQL); err != nil {
		return fmt.Errorf("create user_roles: %w", err)
	}
	return nil
}

// UpsertRole sets the role row for userID.
func (m *RoleMirror) UpsertRole(ctx context.Context, userID string, role domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := m.pool.Exec(ctx, upsertUserRoleSQL, userID, string(role), m.now().UTC()); err != nil {
		return fmt.Errorf("upsert user role: %w", err)
	}
	return nil
}

// Role reads the mirrored role of userID.
func (m *RoleMirror) Role(ctx context.Context, userID string) (domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var role string
	if err := m.pool.QueryRow(ctx, selectUserRoleSQL, userID).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("select user role: %w", err)
	}
	return domain.Role(role), nil
}
