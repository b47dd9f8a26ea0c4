package api

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "palette",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests, by method and status code.",
	}, []string{"method", "code"})

	httpRequestDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "palette",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds, by method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	colorsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "palette",
		Subsystem: "colors",
		Name:      "created_total",
		Help:      "Total colors created.",
	})

	colorsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "palette",
		Subsystem: "colors",
		Name:      "deleted_total",
		Help:      "Total colors deleted.",
	})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "palette",
		Subsystem: "ws",
		Name:      "connections_active",
		Help:      "Number of active WebSocket connections.",
	})
)

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

func observeRequest(method string, status int, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method).Observe(seconds)
}
