package ports

import (
	"context"
	"time"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

// Engagement is the non-pageview payload a provider reports.
// Zero fields are filled in by the synthesizer.
type Engagement struct {
	Visitors          int64
	BounceRate        float64
	AvgSessionSeconds float64
	Daily             []domain.DailyMetric
}

// AnalyticsProvider is an external traffic source queried before falling back
// to synthesized figures.
type AnalyticsProvider interface {
	Name() string
	IsAvailable(ctx context.Context) bool
	PageViews(ctx context.Context, r domain.TimeRange) (int64, error)
	Engagement(ctx context.Context, r domain.TimeRange) (*Engagement, error)
}

// AnalyticsCache stores computed results for a bounded time.
// Get reports ok=false on a miss.
type AnalyticsCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// AnalyticsService never fails: it returns real or synthesized data.
type AnalyticsService interface {
	GetAnalyticsData(ctx context.Context, r domain.TimeRange) *domain.AnalyticsSnapshot
	GetTimeSeries(ctx context.Context, r domain.TimeRange) []domain.DailyMetric
}
