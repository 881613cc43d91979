package analytics

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/portfolio/blog-admin/internal/core/domain"
	"github.com/portfolio/blog-admin/internal/core/ports"
)

const umamiKeyHeader = "x-umami-api-key"

// Umami reads website stats from the Umami API using an API-key header.
type Umami struct {
	cfg Config
	now func() time.Time
}

func NewUmami(cfg Config) *Umami {
	return &Umami{cfg: cfg.withDefaults(), now: time.Now}
}

var _ ports.AnalyticsProvider = (*Umami)(nil)

func (u *Umami) Name() string { return "umami" }

// IsAvailable probes the active-visitors endpoint.
func (u *Umami) IsAvailable(ctx context.Context) bool {
	if !u.cfg.configured() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, u.cfg.ProbeTimeout)
	defer cancel()

	return getJSON(ctx, u.cfg.HTTPClient, u.endpoint("active", nil), u.header(), nil) == nil
}

type umamiValue struct {
	Value float64 `json:"value"`
}

type umamiStats struct {
	Pageviews umamiValue `json:"pageviews"`
	Visitors  umamiValue `json:"visitors"`
	Visits    umamiValue `json:"visits"`
	Bounces   umamiValue `json:"bounces"`
	TotalTime umamiValue `json:"totaltime"`
}

type umamiPoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

type umamiSeries struct {
	Pageviews []umamiPoint `json:"pageviews"`
	Sessions  []umamiPoint `json:"sessions"`
}

func (u *Umami) stats(ctx context.Context, r domain.TimeRange) (*umamiStats, error) {
	var s umamiStats
	if err := getJSON(ctx, u.cfg.HTTPClient, u.endpoint("stats", u.span(r)), u.header(), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (u *Umami) PageViews(ctx context.Context, r domain.TimeRange) (int64, error) {
	s, err := u.stats(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("umami pageviews: %w", err)
	}
	return int64(s.Pageviews.Value), nil
}

func (u *Umami) Engagement(ctx context.Context, r domain.TimeRange) (*ports.Engagement, error) {
	s, err := u.stats(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("umami engagement: %w", err)
	}

	q := u.span(r)
	q.Set("unit", "day")
	q.Set("timezone", "UTC")
	var series umamiSeries
	if err := getJSON(ctx, u.cfg.HTTPClient, u.endpoint("pageviews", q), u.header(), &series); err != nil {
		return nil, fmt.Errorf("umami pageviews series: %w", err)
	}

	eng := &ports.Engagement{Visitors: int64(s.Visitors.Value)}
	if s.Visits.Value > 0 {
		eng.BounceRate = s.Bounces.Value / s.Visits.Value * 100
		eng.AvgSessionSeconds = s.TotalTime.Value / s.Visits.Value
	}

	sessions := make(map[string]float64, len(series.Sessions))
	for _, pt := range series.Sessions {
		sessions[pt.X] = pt.Y
	}
	for _, pt := range series.Pageviews {
		date, err := parseUmamiDate(pt.X)
		if err != nil {
			return nil, err
		}
		eng.Daily = append(eng.Daily, domain.DailyMetric{
			Date:     date,
			Views:    int64(pt.Y),
			Visitors: int64(sessions[pt.X]),
		})
	}
	return eng, nil
}

func parseUmamiDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(24 * time.Hour), nil
		}
	}
	return time.Time{}, fmt.Errorf("umami date %q: unrecognised format", s)
}

func (u *Umami) span(r domain.TimeRange) url.Values {
	start, end := window(r, u.now())
	return url.Values{
		"startAt": {strconv.FormatInt(start.UnixMilli(), 10)},
		"endAt":   {strconv.FormatInt(end.Add(24*time.Hour-time.Millisecond).UnixMilli(), 10)},
	}
}

func (u *Umami) endpoint(path string, q url.Values) string {
	e := u.cfg.BaseURL + "/api/websites/" + url.PathEscape(u.cfg.SiteID) + "/" + path
	if len(q) > 0 {
		e += "?" + q.Encode()
	}
	return e
}

func (u *Umami) header() http.Header {
	return http.Header{umamiKeyHeader: {u.cfg.APIKey}}
}
