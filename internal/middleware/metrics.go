package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "alumlink_redis_errors_total",
		Help: "Total number of Redis command errors.",
	},
	[]string{"command"},
)

// LinkReviewDecisions counts hierarchy link request review outcomes.
var LinkReviewDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "alumlink_link_review_decisions_total",
		Help: "Total number of link request reviews by decision.",
	},
	[]string{"decision"},
)

// ReconcileUpdates counts users whose cached hierarchy was repaired by the
// reconciliation sweep.
var ReconcileUpdates = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "alumlink_reconcile_updates_total",
		Help: "Total number of user hierarchy cache repairs.",
	},
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(service string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(service)
}

// MetricsMiddleware returns the request instrumentation handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
