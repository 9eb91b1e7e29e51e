package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paymenthub",
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Webhook deliveries by event type and dispatch outcome",
		},
		[]string{"event_type", "outcome"},
	)

	WebhookVerifyFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paymenthub",
			Subsystem: "webhook",
			Name:      "verify_failures_total",
			Help:      "Webhook deliveries rejected before dispatch",
		},
		[]string{"reason"},
	)
)

func init() {
	Registry.MustRegister(WebhookEventsTotal, WebhookVerifyFailuresTotal)
}
