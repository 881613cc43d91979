package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/portfolio/blog-admin/internal/api/metrics"
	"github.com/portfolio/blog-admin/internal/core/domain"
	"github.com/portfolio/blog-admin/internal/core/ports"
)

const (
	DefaultAuditPageSize = 50
	MaxAuditPageSize     = 500
)

// AuditService writes audit events behind the dispatcher and reads them back
// for the admin UI.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists every event to repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

// Process stamps and stores a single audit event.
func (s *AuditService) Process(ctx context.Context, event domain.AuditEvent) error {
	start := time.Now()
	if event.At.IsZero() {
		event.At = start.UTC()
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		metrics.AuditProcessingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("process audit event: %w", err)
	}
	metrics.AuditProcessingDuration.WithLabelValues(string(event.Action)).Observe(time.Since(start).Seconds())

	s.log.Debug().
		Str("email", event.Email).
		Str("action", string(event.Action)).
		Msg("audit event stored")
	return nil
}

// Recent returns the newest events. limit <= 0 means DefaultAuditPageSize and
// anything above MaxAuditPageSize is capped.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	switch {
	case limit <= 0:
		limit = DefaultAuditPageSize
	case limit > MaxAuditPageSize:
		limit = MaxAuditPageSize
	}

	events, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent audit events: %w: %w", domain.ErrStorageFailure, err)
	}
	if events == nil {
		events = []domain.AuditEvent{}
	}
	return events, nil
}
