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

// DefaultAnalyticsCacheTTL bounds how often providers are hit per range.
const DefaultAnalyticsCacheTTL = 5 * time.Minute

const (
	methodOverview   = "overview"
	methodTimeSeries = "timeseries"
)

// AnalyticsService serves traffic figures, preferring the first reachable
// provider and synthesizing everything otherwise. It never returns an error.
type AnalyticsService struct {
	providers []ports.AnalyticsProvider
	cache     ports.AnalyticsCache // optional
	cacheTTL  time.Duration
	synth     *Synthesizer
	now       func() time.Time
	log       zerolog.Logger
}

// NewAnalyticsService probes providers in the given order.
func NewAnalyticsService(
	providers []ports.AnalyticsProvider,
	cache ports.AnalyticsCache,
	synth *Synthesizer,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *AnalyticsService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultAnalyticsCacheTTL
	}
	if synth == nil {
		synth = NewSynthesizer(nil)
	}
	return &AnalyticsService{
		providers: providers,
		cache:     cache,
		cacheTTL:  cacheTTL,
		synth:     synth,
		now:       time.Now,
		log:       log,
	}
}

// GetAnalyticsData returns the snapshot for r. Unknown ranges use the 30-day window.
func (s *AnalyticsService) GetAnalyticsData(ctx context.Context, r domain.TimeRange) *domain.AnalyticsSnapshot {
	r = domain.ParseTimeRange(string(r))
	key := cacheKey(methodOverview, r)

	var cached domain.AnalyticsSnapshot
	if s.lookup(ctx, key, &cached) {
		return &cached
	}

	snap := s.fromProviders(ctx, r)
	if snap == nil {
		snap = s.synth.Snapshot(r, s.now())
		s.log.Debug().Str("range", string(r)).Msg("no analytics provider available, synthesized snapshot")
	}
	metrics.AnalyticsSnapshotsTotal.WithLabelValues(string(snap.Source)).Inc()

	s.store(ctx, key, snap)
	return snap
}

// GetTimeSeries returns the daily rows for r.
func (s *AnalyticsService) GetTimeSeries(ctx context.Context, r domain.TimeRange) []domain.DailyMetric {
	r = domain.ParseTimeRange(string(r))
	key := cacheKey(methodTimeSeries, r)

	var cached []domain.DailyMetric
	if s.lookup(ctx, key, &cached) {
		return cached
	}

	rows := s.GetAnalyticsData(ctx, r).Daily
	s.store(ctx, key, rows)
	return rows
}

// fromProviders returns nil when every provider is unavailable or fails.
func (s *AnalyticsService) fromProviders(ctx context.Context, r domain.TimeRange) *domain.AnalyticsSnapshot {
	for _, p := range s.providers {
		snap, err := s.fromProvider(ctx, p, r)
		if err != nil {
			s.log.Warn().Err(err).Str("provider", p.Name()).Msg("analytics provider skipped")
			continue
		}
		return snap
	}
	return nil
}

func (s *AnalyticsService) fromProvider(ctx context.Context, p ports.AnalyticsProvider, r domain.TimeRange) (*domain.AnalyticsSnapshot, error) {
	if !p.IsAvailable(ctx) {
		metrics.AnalyticsProviderFailuresTotal.WithLabelValues(p.Name(), "probe").Inc()
		return nil, domain.ErrProviderUnavailable
	}

	views, err := p.PageViews(ctx, r)
	if err != nil {
		metrics.AnalyticsProviderFailuresTotal.WithLabelValues(p.Name(), "pageviews").Inc()
		return nil, fmt.Errorf("pageviews: %w: %w", domain.ErrProviderUnavailable, err)
	}

	eng, err := p.Engagement(ctx, r)
	if err != nil {
		metrics.AnalyticsProviderFailuresTotal.WithLabelValues(p.Name(), "engagement").Inc()
		return nil, fmt.Errorf("engagement: %w: %w", domain.ErrProviderUnavailable, err)
	}

	now := s.now()
	snap := &domain.AnalyticsSnapshot{
		TimeRange:         r,
		Source:            domain.SourceReal,
		Provider:          p.Name(),
		TotalViews:        views,
		UniqueVisitors:    eng.Visitors,
		BounceRate:        eng.BounceRate,
		AvgSessionSeconds: eng.AvgSessionSeconds,
		TrafficSources:    fallbackTraffic,
		Daily:             eng.Daily,
		GeneratedAt:       now.UTC(),
	}
	if snap.UniqueVisitors == 0 {
		snap.UniqueVisitors = ratio(views, visitorRatio)
	}
	if snap.BounceRate == 0 {
		snap.BounceRate = fallbackBounceRate
	}
	if snap.AvgSessionSeconds == 0 {
		snap.AvgSessionSeconds = fallbackAvgSession
	}
	if len(snap.Daily) == 0 {
		snap.Daily = s.synth.Daily(r, views, now)
	}
	deriveEngagement(snap)
	return snap, nil
}

func (s *AnalyticsService) lookup(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	switch {
	case err != nil:
		metrics.AnalyticsCacheLookupsTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("key", key).Msg("analytics cache read failed")
		return false
	case ok:
		metrics.AnalyticsCacheLookupsTotal.WithLabelValues("hit").Inc()
		return true
	default:
		metrics.AnalyticsCacheLookupsTotal.WithLabelValues("miss").Inc()
		return false
	}
}

func (s *AnalyticsService) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("analytics cache write failed")
	}
}

func cacheKey(method string, r domain.TimeRange) string {
	return fmt.Sprintf("analytics:%s:%s", method, r)
}
