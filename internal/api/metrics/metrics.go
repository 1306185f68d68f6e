// Package metrics defines and registers all custom Prometheus metrics for the
// admin console. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at import time; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// LoginsTotal counts login attempts forwarded to the identity backend.
// Label:
//   - result: "ok", "rejected" (bad credentials), or "unavailable"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by backend outcome.",
	},
	[]string{"result"},
)

// VerificationsTotal counts startup token verifications.
// Label:
//   - result: "ok", "rejected" (token refused), or "transient"
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Total number of token verification calls, by outcome.",
	},
	[]string{"result"},
)

// GuardDecisionsTotal counts route guard evaluations.
// Labels:
//   - guard: "access" or "role"
//   - outcome: "allow", "pending", or "deny"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by guard and outcome.",
	},
	[]string{"guard", "outcome"},
)

// BackendRequestDuration measures round-trip latency to the identity backend.
// Label:
//   - endpoint: "login" or "verify"
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of identity backend requests.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"endpoint"},
)
