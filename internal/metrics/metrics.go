// Package metrics defines the Prometheus counters for the payment and
// intake flows, exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckoutSessionsCreated counts successfully created checkout sessions.
	CheckoutSessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Number of Stripe checkout sessions created.",
	})

	// WebhookEvents counts processed webhook deliveries by outcome.
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Number of webhook deliveries by result.",
	}, []string{"result"})

	// CustomOrderRequests counts accepted custom order submissions.
	CustomOrderRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "custom_order_requests_total",
		Help: "Number of accepted custom order requests.",
	})
)
