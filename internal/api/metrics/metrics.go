// Package metrics defines and registers all custom Prometheus metrics for
// the Healthics portal gateway. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Upstream client metrics ──────────────────────────────────────────────────

// UpstreamRequestsTotal counts calls to the Healthics backend.
// Labels:
//   - op: the typed operation (e.g. "documents.list", "auth.login")
//   - outcome: "ok", "network_error", or the HTTP status code
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of upstream REST calls, by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

// UpstreamRequestDuration measures upstream call latency end-to-end.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of upstream REST calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// ── Resolution metrics ───────────────────────────────────────────────────────

// ResolutionsTotal counts reconciled patient-view resolutions.
// Label:
//   - outcome: "full" (all sub-lookups succeeded), "partial" (profile or
//     documents degraded), "failed" (directory lookup failed or patient absent)
var ResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resolutions_total",
		Help:      "Total number of patient-view resolutions, by outcome.",
	},
	[]string{"outcome"},
)

// ── Session metrics ──────────────────────────────────────────────────────────

// SessionInvalidationsTotal counts session teardowns.
// Label:
//   - reason: "logout", "upstream_401"
var SessionInvalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_invalidations_total",
		Help:      "Total number of session invalidations, by reason.",
	},
	[]string{"reason"},
)

// GuardDenialsTotal counts role-guard denials.
// Label:
//   - guard: the guard variant ("admin-only", "patient-only", "authenticated")
var GuardDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_denials_total",
		Help:      "Total number of requests denied by a role guard.",
	},
	[]string{"guard"},
)

// AuditEventsDroppedTotal counts audit events discarded because the
// recorder had already stopped.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped after recorder shutdown.",
	},
)

// ── Document metrics ─────────────────────────────────────────────────────────

// DocumentDownloadsTotal counts streamed document downloads.
// Label:
//   - area: "patient" or "admin"
var DocumentDownloadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "document_downloads_total",
		Help:      "Total number of document downloads served, by API area.",
	},
	[]string{"area"},
)
