package metrics

import "github.com/prometheus/client_golang/prometheus"

// ProcessorRequestDuration measures calls to the external payment processor.
var ProcessorRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "paymenthub",
		Subsystem: "processor",
		Name:      "request_duration_seconds",
		Help:      "External processor API call latency in seconds",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
	},
	[]string{"operation", "outcome"},
)

func init() {
	Registry.MustRegister(ProcessorRequestDuration)
}
