package handler

import (
	"time"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required"`
	AdminKey string `json:"admin_key" validate:"required"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	ExpiresAt time.Time       `json:"expires_at"`
	Session   *domain.Session `json:"session"`
}

type permissionCheckResponse struct {
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Allowed  bool   `json:"allowed"`
}

// --- Users ---

type createUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"  validate:"required"`
	Role  string `json:"role"  validate:"required,role"`
}

// updateUserRequest is a partial update; omitted fields keep their value.
type updateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Name     *string `json:"name,omitempty"  validate:"omitempty,min=1"`
	Role     *string `json:"role,omitempty"  validate:"omitempty,role"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type userListResponse struct {
	Users []domain.AdminUser `json:"users"`
	Count int                `json:"count"`
}

type auditListResponse struct {
	Events []domain.AuditEvent `json:"events"`
	Count  int                 `json:"count"`
}

// --- Analytics ---

type timeSeriesResponse struct {
	TimeRange domain.TimeRange     `json:"time_range"`
	Daily     []domain.DailyMetric `json:"daily"`
}
