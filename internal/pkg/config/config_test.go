package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" {
		t.Fatalf("unexpected defaults: port=%s env=%s", cfg.Port, cfg.Env)
	}
	if cfg.SessionDuration != 2*time.Hour {
		t.Fatalf("expected 2h session, got %v", cfg.SessionDuration)
	}
	if cfg.Analytics.CacheTTL != 5*time.Minute || cfg.Analytics.ProbeTimeout != 3*time.Second {
		t.Fatalf("unexpected analytics defaults: %+v", cfg.Analytics)
	}
	if cfg.Seed.Email != "admin@blog.com" || cfg.Seed.Name != "Blog Admin" || !cfg.UsesDefaultSeedSecrets() {
		t.Fatalf("unexpected seed defaults: %+v", cfg.Seed)
	}
	if cfg.Mongo.URI != "" || cfg.Redis.Addr != "" || cfg.Postgres.URL != "" {
		t.Fatalf("external stores should be off by default")
	}
	if cfg.Analytics.Plausible.URL != "https://plausible.io" {
		t.Fatalf("expected plausible default url, got %q", cfg.Analytics.Plausible.URL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":                 "production",
		"JWT_SECRET":          "s3cret",
		"SESSION_DURATION":    "30m",
		"ADMIN_SEED_PASSWORD": "changed",
		"ADMIN_SEED_KEY":      "changed-key",
		"ANALYTICS_PROVIDERS": "umami,plausible",
		"UMAMI_URL":           "https://stats.example.com",
		"UMAMI_API_KEY":       "k",
		"UMAMI_SITE_ID":       "site",
		"REDIS_ADDR":          "localhost:6379",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !cfg.IsProduction() || cfg.UsesDefaultSeedSecrets() {
		t.Fatalf("unexpected production flags")
	}
	if cfg.SessionDuration != 30*time.Minute {
		t.Fatalf("expected 30m, got %v", cfg.SessionDuration)
	}
	if len(cfg.Analytics.Providers) != 2 || cfg.Analytics.Providers[0] != "umami" {
		t.Fatalf("unexpected provider order: %v", cfg.Analytics.Providers)
	}
	if cfg.Analytics.Umami.SiteID != "site" || cfg.Analytics.Umami.URL != "https://stats.example.com" {
		t.Fatalf("umami config not read: %+v", cfg.Analytics.Umami)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("redis addr not read")
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"production without secret": {"ENV": "production"},
		"unknown provider":          {"ANALYTICS_PROVIDERS": "matomo"},
		"bcrypt cost too low":       {"BCRYPT_COST": "1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(env))
			if err == nil || !strings.HasPrefix(err.Error(), "config:") {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}
}
