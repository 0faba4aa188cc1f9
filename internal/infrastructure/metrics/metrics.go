package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every khata collector. Kept apart from the default registry so tests start clean.
var Registry = prometheus.NewRegistry()

var (
	// BackendRequests counts REST calls to the hosted backend.
	BackendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "khata",
			Name:      "backend_requests_total",
			Help:      "Total number of backend REST requests",
		},
		[]string{"table", "method", "status"},
	)

	// BackendRequestDuration records backend latency in seconds.
	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "khata",
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of backend REST requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"table", "method"},
	)

	// StorageOperations counts session storage operations by outcome.
	StorageOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "khata",
			Name:      "secure_storage_operations_total",
			Help:      "Total number of secure storage operations",
		},
		[]string{"op", "result"},
	)
)

func init() {
	Registry.MustRegister(BackendRequests, BackendRequestDuration, StorageOperations)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// StatusClass reduces an HTTP status to 2xx/4xx/5xx, or "error" for transport failures.
func StatusClass(code int) string {
	switch {
	case code <= 0:
		return "error"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
