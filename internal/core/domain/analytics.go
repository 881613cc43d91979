package domain

import "time"

// TimeRange selects the reporting window of an analytics snapshot.
type TimeRange string

const (
	Range7d   TimeRange = "7d"
	Range30d  TimeRange = "30d"
	Range90d  TimeRange = "90d"
	Range365d TimeRange = "365d"
)

// DefaultTimeRange is used when a caller passes an unknown range.
const DefaultTimeRange = Range30d

var rangeScale = map[TimeRange]struct {
	multiplier float64
	days       int
}{
	Range7d:   {0.25, 7},
	Range30d:  {1.0, 30},
	Range90d:  {3.2, 90},
	Range365d: {12.5, 365},
}

// ParseTimeRange maps s to a known range, falling back to DefaultTimeRange.
func ParseTimeRange(s string) TimeRange {
	if r := TimeRange(s); r.Valid() {
		return r
	}
	return DefaultTimeRange
}

// Valid reports whether r is one of the known ranges.
func (r TimeRange) Valid() bool {
	_, ok := rangeScale[r]
	return ok
}

// Multiplier scales the 30-day seed to this range.
func (r TimeRange) Multiplier() float64 {
	if s, ok := rangeScale[r]; ok {
		return s.multiplier
	}
	return 1.0
}

// Days is the number of daily rows in this range.
func (r TimeRange) Days() int {
	if s, ok := rangeScale[r]; ok {
		return s.days
	}
	return 30
}

// DataSource tells consumers whether figures came from a provider or were synthesized.
type DataSource string

const (
	SourceReal      DataSource = "real"
	SourceSynthetic DataSource = "synthetic"
)

// TrafficSources splits visits by acquisition channel, as fractions summing to 1.
type TrafficSources struct {
	Search   float64 `json:"search"`
	Direct   float64 `json:"direct"`
	Social   float64 `json:"social"`
	Referral float64 `json:"referral"`
}

// DailyMetric is one row of the time series.
type DailyMetric struct {
	Date     time.Time `json:"date"`
	Views    int64     `json:"views"`
	Visitors int64     `json:"visitors"`
}

// AnalyticsSnapshot is the aggregate returned to the reporting UI.
type AnalyticsSnapshot struct {
	TimeRange         TimeRange      `json:"time_range"`
	Source            DataSource     `json:"source"`
	Provider          string         `json:"provider,omitempty"`
	TotalViews        int64          `json:"total_views"`
	UniqueVisitors    int64          `json:"unique_visitors"`
	Likes             int64          `json:"likes"`
	Comments          int64          `json:"comments"`
	Shares            int64          `json:"shares"`
	BounceRate        float64        `json:"bounce_rate"`
	AvgSessionSeconds float64        `json:"avg_session_seconds"`
	TrafficSources    TrafficSources `json:"traffic_sources"`
	Daily             []DailyMetric  `json:"daily"`
	GeneratedAt       time.Time      `json:"generated_at"`
}
