package domain

import "time"

// AuditAction names an entry in the admin audit trail.
type AuditAction string

const (
	AuditLogin           AuditAction = "login"
	AuditLoginFailed     AuditAction = "login_failed"
	AuditLogout          AuditAction = "logout"
	AuditUserCreated     AuditAction = "user_created"
	AuditUserUpdated     AuditAction = "user_updated"
	AuditUserDeactivated AuditAction = "user_deactivated"
)

// AuditEvent records an admin action for later review.
type AuditEvent struct {
	Email  string      `json:"email" bson:"email"`
	Action AuditAction `json:"action" bson:"action"`
	Detail string      `json:"detail,omitempty" bson:"detail,omitempty"`
	At     time.Time   `json:"at" bson:"at"`
}
