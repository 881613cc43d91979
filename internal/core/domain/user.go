package domain

import (
	"strings"
	"time"
)

// Role is the access tier of an admin account.
type Role string

const (
	RoleSuperAdmin Role = "super-admin"
	RoleAdmin      Role = "admin"
	RoleEditor     Role = "editor"
	RoleViewer     Role = "viewer"
)

// ParseRole validates a role name coming from the transport layer.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleViewer:
		return r, nil
	}
	return "", ErrInvalidRole
}

// AdminUser models an account allowed into the admin panel.
// Users are never hard-deleted; deactivation flips IsActive.
type AdminUser struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	Role        Role         `json:"role"`
	Permissions []Permission `json:"permissions"`
	LastLogin   *time.Time   `json:"last_login,omitempty"`
	IsActive    bool         `json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Clone returns a deep copy so callers cannot mutate shared permission slices.
func (u AdminUser) Clone() AdminUser {
	c := u
	c.Permissions = ClonePermissions(u.Permissions)
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return c
}
