package service

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

// Fallback figures. Only page views ever come from a provider; engagement is
// always derived from views with these ratios.
const (
	BaseMonthlyViews = 15420

	likeRatio    = 0.045
	commentRatio = 0.012
	shareRatio   = 0.008
	visitorRatio = 0.68

	fallbackBounceRate = 42.5
	fallbackAvgSession = 154.0

	weekdayFactor = 1.1
	weekendFactor = 0.75
	dailyJitter   = 0.15
)

var fallbackTraffic = domain.TrafficSources{
	Search:   0.45,
	Direct:   0.25,
	Social:   0.18,
	Referral: 0.12,
}

// Synthesizer fabricates plausible analytics when no provider answers.
// Totals are deterministic for a range; the daily series is jittered.
type Synthesizer struct {
	mu    sync.Mutex
	float func() float64
}

// NewSynthesizer uses rnd for jitter, or the global source when rnd is nil.
func NewSynthesizer(rnd *rand.Rand) *Synthesizer {
	s := &Synthesizer{float: rand.Float64}
	if rnd != nil {
		s.float = rnd.Float64
	}
	return s
}

// Snapshot builds a complete synthetic snapshot for r.
func (s *Synthesizer) Snapshot(r domain.TimeRange, now time.Time) *domain.AnalyticsSnapshot {
	views := SyntheticViews(r)
	snap := &domain.AnalyticsSnapshot{
		TimeRange:         r,
		Source:            domain.SourceSynthetic,
		TotalViews:        views,
		UniqueVisitors:    ratio(views, visitorRatio),
		BounceRate:        fallbackBounceRate,
		AvgSessionSeconds: fallbackAvgSession,
		TrafficSources:    fallbackTraffic,
		GeneratedAt:       now.UTC(),
	}
	deriveEngagement(snap)
	snap.Daily = s.Daily(r, views, now)
	return snap
}

// SyntheticViews scales the monthly seed by the range multiplier.
func SyntheticViews(r domain.TimeRange) int64 {
	return int64(math.Round(BaseMonthlyViews * r.Multiplier()))
}

// Daily spreads totalViews over r's days, ending today, with a weekday/weekend split.
func (s *Synthesizer) Daily(r domain.TimeRange, totalViews int64, now time.Time) []domain.DailyMetric {
	days := r.Days()
	base := float64(totalViews) / float64(days)
	today := now.UTC().Truncate(24 * time.Hour)

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]domain.DailyMetric, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		factor := weekdayFactor
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			factor = weekendFactor
		}
		jitter := 1 + (s.float()*2-1)*dailyJitter
		views := int64(math.Round(base * factor * jitter))
		rows = append(rows, domain.DailyMetric{
			Date:     date,
			Views:    views,
			Visitors: ratio(views, visitorRatio),
		})
	}
	return rows
}

func deriveEngagement(snap *domain.AnalyticsSnapshot) {
	snap.Likes = ratio(snap.TotalViews, likeRatio)
	snap.Comments = ratio(snap.TotalViews, commentRatio)
	snap.Shares = ratio(snap.TotalViews, shareRatio)
}

func ratio(n int64, r float64) int64 {
	return int64(math.Round(float64(n) * r))
}
