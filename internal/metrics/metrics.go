// Package metrics provides Prometheus metrics for Chroma API requests.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chromago"

var (
	// RequestsTotal counts API requests by operation and HTTP status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total Chroma API requests by operation and HTTP status",
		},
		[]string{"operation", "status"},
	)

	// RequestDuration tracks API request latency by operation.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Chroma API request latency by operation",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// RecordRequest records one completed API request. A status of 0 means the
// request never received a response.
func RecordRequest(operation string, status int, seconds float64) {
	RequestsTotal.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(operation).Observe(seconds)
}
