// Package metrics defines and registers the custom Prometheus metrics of the
// catalog API. It is the single source of truth for metric names, labels and
// help strings.
//
// All collectors are registered with the default registry through promauto,
// so they are exposed by the /metrics handler without further wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ── Request gating ────────────────────────────────────────────────────────────

// RateLimitDecisionsTotal counts limiter checks.
// Labels:
//   - limiter: "general", "auth" or "product_write"
//   - result: "allowed" or "rejected"
var RateLimitDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_decisions_total",
		Help:      "Total number of rate limiter decisions, by limiter and result.",
	},
	[]string{"limiter", "result"},
)

// CORSDeniedTotal counts requests rejected because of their Origin header.
var CORSDeniedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cors_denied_total",
		Help:      "Total number of requests rejected by the CORS origin policy.",
	},
)

// AuthFailuresTotal counts rejected authentication attempts.
// Label:
//   - reason: "missing_token", "malformed_header", "invalid_token", "user_not_found" or "invalid_credentials"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed authentication attempts, by reason.",
	},
	[]string{"reason"},
)

// ── Storage ───────────────────────────────────────────────────────────────────

// StorageUnavailableTotal counts requests answered with 503 because storage
// was not ready.
// Label:
//   - route: the matched route path (e.g. "/products/:id", "/register")
var StorageUnavailableTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_unavailable_total",
		Help:      "Total number of requests rejected because storage was unavailable.",
	},
	[]string{"route"},
)

// ── Catalog ───────────────────────────────────────────────────────────────────

// ProductMutationsTotal counts successful product writes.
// Label:
//   - action: "create", "update" or "delete"
var ProductMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_mutations_total",
		Help:      "Total number of successful product mutations, by action.",
	},
	[]string{"action"},
)

// UsersRegisteredTotal counts accounts created through /register.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of registered users.",
	},
)
