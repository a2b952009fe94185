// Package metrics defines the custom Prometheus metrics of the bookstore API.
// It is the single source of truth for metric names, labels and help strings.
//
// All collectors are registered with the default registry at package init via
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookstore"

// ── Authentication ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "invalid"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts sign-up attempts that reached the service.
// Label:
//   - result: "success", "exists", "creation_failed" or "role_assignment_failed"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of registrations, by result.",
	},
	[]string{"result"},
)

// AdminPromotionsTotal counts calls to the seed-administrator bootstrap.
// Label:
//   - result: "success" or "forbidden"
var AdminPromotionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_admin_promotions_total",
		Help:      "Total number of admin bootstrap calls, by result.",
	},
	[]string{"result"},
)

// ThrottledTotal counts requests rejected by the login/sign-up throttle.
var ThrottledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_throttled_total",
		Help:      "Total number of requests rejected by the throttle, by route.",
	},
	[]string{"route"},
)

// ── Books ────────────────────────────────────────────────────────────────────

// BookOperationsTotal counts successful book writes.
// Label:
//   - op: "create", "update" or "delete"
var BookOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "book_operations_total",
		Help:      "Total number of successful book writes, by operation.",
	},
	[]string{"op"},
)

// ── Audit trail ──────────────────────────────────────────────────────────────

// AuditEventsTotal counts recorded audit events.
// Label:
//   - type: the event type, or "error" when persistence failed
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of authentication audit events processed.",
	},
	[]string{"type"},
)

// AuditEventsDroppedTotal counts events discarded because a worker queue was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped on a full worker queue.",
	},
)

// AuditQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)
