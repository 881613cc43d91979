package ports

import (
	"context"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

// AuditRepository persists audit events. Recent returns at most limit
// events, newest first.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}

// AuditService processes one audit event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}

// AuditReader serves the audit trail to the admin UI.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}

// AuditSink accepts audit events without blocking the caller on persistence.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}
