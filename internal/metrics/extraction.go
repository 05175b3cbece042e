package metrics

import "github.com/prometheus/client_golang/prometheus"

// Attribute extraction (LLM) Prometheus metrics.
var (
	ExtractionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "retailsearch",
			Name:      "extraction_requests_total",
			Help:      "Total number of attribute extraction requests",
		},
		[]string{"provider", "model", "status"},
	)

	ExtractionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "retailsearch",
			Name:      "extraction_request_duration_seconds",
			Help:      "Attribute extraction request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"provider", "model"},
	)

	ExtractionRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "retailsearch",
			Name:      "extraction_retries_total",
			Help:      "Total attribute extraction retries after provider errors",
		},
		[]string{"provider", "model"},
	)

	// ExtractionFallbacksTotal counts queries that degraded to an
	// unfiltered search because extraction produced no usable output.
	ExtractionFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "retailsearch",
			Name:      "extraction_fallbacks_total",
			Help:      "Total searches degraded to no filter after extraction failure",
		},
		[]string{"reason"},
	)
)

var extractionMetricsRegistered bool

// RegisterExtractionMetrics registers Prometheus extraction metrics. Must be called once from main.
func RegisterExtractionMetrics() {
	if extractionMetricsRegistered {
		return
	}
	prometheus.MustRegister(ExtractionRequestsTotal)
	prometheus.MustRegister(ExtractionRequestDuration)
	prometheus.MustRegister(ExtractionRetriesTotal)
	prometheus.MustRegister(ExtractionFallbacksTotal)
	extractionMetricsRegistered = true
}
