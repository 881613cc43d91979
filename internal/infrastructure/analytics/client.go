// Package analytics implements the external traffic providers consulted
// before the service falls back to synthesized figures.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

const (
	defaultProbeTimeout   = 3 * time.Second
	defaultRequestTimeout = 10 * time.Second
	maxErrorBody          = 512
)

// Config is shared by every provider.
type Config struct {
	BaseURL      string
	APIKey       string
	SiteID       string
	ProbeTimeout time.Duration
	HTTPClient   *http.Client
}

func (c Config) configured() bool {
	return c.BaseURL != "" && c.APIKey != "" && c.SiteID != ""
}

func (c Config) withDefaults() Config {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = defaultProbeTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return c
}

// getJSON performs an authenticated GET and decodes a 2xx body into dst.
// dst may be nil when only the status matters.
func getJSON(ctx context.Context, client *http.Client, url string, header http.Header, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("request %s: status %d: %s", req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}

// window returns the [start, end] dates covering r's days, ending today.
func window(r domain.TimeRange, now time.Time) (time.Time, time.Time) {
	end := now.UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -(r.Days() - 1))
	return start, end
}
