// Package metrics defines and registers all custom Prometheus metrics for the
// blog admin API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry through promauto when the
// package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog_admin"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "user_not_found", "invalid_credentials", "storage_failure"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of admin login attempts, by result.",
	},
	[]string{"result"},
)

// PermissionDeniedTotal counts requests rejected by the permission middleware.
// Labels:
//   - action, resource: the permission that was checked
var PermissionDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denied_total",
		Help:      "Total number of requests denied by an authorization check.",
	},
	[]string{"action", "resource"},
)

// ── Analytics metrics ─────────────────────────────────────────────────────────

// AnalyticsSnapshotsTotal counts computed (non-cached) snapshots.
// Label:
//   - source: "real" or "synthetic"
var AnalyticsSnapshotsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analytics_snapshots_total",
		Help:      "Total number of analytics snapshots computed, by data source.",
	},
	[]string{"source"},
)

// AnalyticsProviderFailuresTotal counts provider calls that forced a fallback.
// Labels:
//   - provider: provider name (e.g. "plausible")
//   - stage: "probe", "pageviews" or "engagement"
var AnalyticsProviderFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analytics_provider_failures_total",
		Help:      "Total number of analytics provider failures, by provider and stage.",
	},
	[]string{"provider", "stage"},
)

// AnalyticsCacheLookupsTotal counts cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var AnalyticsCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analytics_cache_lookups_total",
		Help:      "Total number of analytics cache lookups, by result.",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - shard: dispatcher shard index ("0", "1", ...)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher shard.",
	},
	[]string{"shard"},
)

// AuditProcessingDuration measures how long persisting one audit event takes.
// Label:
//   - action: the audit action, or "error" on failure
var AuditProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_processing_duration_seconds",
		Help:      "Duration of audit event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"action"},
)
