package analytics

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/portfolio/blog-admin/internal/core/domain"
	"github.com/portfolio/blog-admin/internal/core/ports"
)

// Plausible reads aggregate and daily figures from the Plausible Stats API,
// authenticated with a bearer token.
type Plausible struct {
	cfg Config
	now func() time.Time
}

func NewPlausible(cfg Config) *Plausible {
	return &Plausible{cfg: cfg.withDefaults(), now: time.Now}
}

var _ ports.AnalyticsProvider = (*Plausible)(nil)

func (p *Plausible) Name() string { return "plausible" }

// IsAvailable probes the realtime endpoint; missing credentials mean unavailable.
func (p *Plausible) IsAvailable(ctx context.Context) bool {
	if !p.cfg.configured() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, p.cfg.ProbeTimeout)
	defer cancel()

	q := url.Values{"site_id": {p.cfg.SiteID}}
	return getJSON(ctx, p.cfg.HTTPClient, p.endpoint("/api/v1/stats/realtime/visitors", q), p.header(), nil) == nil
}

type plausibleMetric struct {
	Value float64 `json:"value"`
}

type plausibleAggregate struct {
	Results struct {
		Pageviews     plausibleMetric `json:"pageviews"`
		Visitors      plausibleMetric `json:"visitors"`
		BounceRate    plausibleMetric `json:"bounce_rate"`
		VisitDuration plausibleMetric `json:"visit_duration"`
	} `json:"results"`
}

type plausibleTimeseries struct {
	Results []struct {
		Date      string  `json:"date"`
		Pageviews float64 `json:"pageviews"`
		Visitors  float64 `json:"visitors"`
	} `json:"results"`
}

func (p *Plausible) PageViews(ctx context.Context, r domain.TimeRange) (int64, error) {
	var agg plausibleAggregate
	if err := getJSON(ctx, p.cfg.HTTPClient, p.endpoint("/api/v1/stats/aggregate", p.query(r, "pageviews")), p.header(), &agg); err != nil {
		return 0, fmt.Errorf("plausible pageviews: %w", err)
	}
	return int64(math.Round(agg.Results.Pageviews.Value)), nil
}

func (p *Plausible) Engagement(ctx context.Context, r domain.TimeRange) (*ports.Engagement, error) {
	var agg plausibleAggregate
	q := p.query(r, "visitors,bounce_rate,visit_duration")
	if err := getJSON(ctx, p.cfg.HTTPClient, p.endpoint("/api/v1/stats/aggregate", q), p.header(), &agg); err != nil {
		return nil, fmt.Errorf("plausible engagement: %w", err)
	}

	var ts plausibleTimeseries
	if err := getJSON(ctx, p.cfg.HTTPClient, p.endpoint("/api/v1/stats/timeseries", p.query(r, "pageviews,visitors")), p.header(), &ts); err != nil {
		return nil, fmt.Errorf("plausible timeseries: %w", err)
	}

	eng := &ports.Engagement{
		Visitors:          int64(math.Round(agg.Results.Visitors.Value)),
		BounceRate:        agg.Results.BounceRate.Value,
		AvgSessionSeconds: agg.Results.VisitDuration.Value,
		Daily:             make([]domain.DailyMetric, 0, len(ts.Results)),
	}
	for _, row := range ts.Results {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, fmt.Errorf("plausible timeseries date %q: %w", row.Date, err)
		}
		eng.Daily = append(eng.Daily, domain.DailyMetric{
			Date:     date,
			Views:    int64(math.Round(row.Pageviews)),
			Visitors: int64(math.Round(row.Visitors)),
		})
	}
	return eng, nil
}

func (p *Plausible) query(r domain.TimeRange, metrics string) url.Values {
	start, end := window(r, p.now())
	return url.Values{
		"site_id": {p.cfg.SiteID},
		"period":  {"custom"},
		"date":    {start.Format("2006-01-02") + "," + end.Format("2006-01-02")},
		"metrics": {metrics},
	}
}

func (p *Plausible) endpoint(path string, q url.Values) string {
	return p.cfg.BaseURL + path + "?" + q.Encode()
}

func (p *Plausible) header() http.Header {
	return http.Header{"Authorization": {"Bearer " + p.cfg.APIKey}}
}
