// Package metrics provides Prometheus instrumentation for the wardrobe
// service: transcode outcomes, catalog query and mutation counts, and
// HTTP request metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dolap"

// registry is a custom registry to avoid the default Go collectors.
var registry = prometheus.NewRegistry()

var (
	transcodesTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "imaging",
		Name:      "transcodes_total",
		Help:      "Image transcode attempts by result.",
	}, []string{"result"})

	queriesTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "queries_total",
		Help:      "Catalog store queries by result.",
	}, []string{"result"})

	staleResultsTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "stale_results_total",
		Help:      "Query responses dropped because a newer request superseded them.",
	})

	mutationsTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "mutations_total",
		Help:      "Item mutations by operation and result.",
	}, []string{"op", "result"})

	weatherLookupsTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "weather",
		Name:      "lookups_total",
		Help:      "Weather provider reads by result.",
	}, []string{"result"})

	httpRequestsTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method and status code.",
	}, []string{"method", "status"})

	httpRequestDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

// result converts an error into a metric label value.
func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Transcode records the outcome of an image transcode.
func Transcode(err error) { transcodesTotal.WithLabelValues(result(err)).Inc() }

// Query records the outcome of a catalog store query.
func Query(err error) { queriesTotal.WithLabelValues(result(err)).Inc() }

// StaleResult records a query response dropped as superseded.
func StaleResult() { staleResultsTotal.Inc() }

// Mutation records the outcome of an item add or delete.
func Mutation(op string, err error) { mutationsTotal.WithLabelValues(op, result(err)).Inc() }

// WeatherLookup records the outcome of a weather provider read.
func WeatherLookup(err error) { weatherLookupsTotal.WithLabelValues(result(err)).Inc() }

// HTTPRequest records a completed HTTP request.
func HTTPRequest(method string, status int, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method).Observe(seconds)
}

// Handler serves the metrics endpoint for the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
