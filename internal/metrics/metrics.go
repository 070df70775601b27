package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "movielist",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "movielist",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "movielist",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	lookupRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "movielist",
			Subsystem: "lookup",
			Name:      "requests_total",
			Help:      "Total number of calls to the movie lookup service, per attempt.",
		},
		[]string{"endpoint", "outcome"},
	)

	lookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "movielist",
			Subsystem: "lookup",
			Name:      "request_duration_seconds",
			Help:      "Duration of calls to the movie lookup service.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 11), // 10ms to ~10s
		},
		[]string{"endpoint"},
	)

	catalogSeeded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "movielist",
			Subsystem: "catalog",
			Name:      "seeded_rows",
			Help:      "Rows inserted into the catalog by the last seeding run.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		lookupRequests,
		lookupDuration,
		catalogSeeded,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InFlight tracks one request for the in-flight gauge; call the returned
// func when the request finishes.
func InFlight() func() {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// RecordHTTPRequest records one finished request.  route should be the
// registered pattern rather than the raw path to keep cardinality bounded.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	method = strings.ToUpper(method)
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordLookup records one attempt against the lookup service.
func RecordLookup(endpoint, outcome string, duration time.Duration) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	lookupRequests.WithLabelValues(endpoint, outcome).Inc()
	lookupDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// SetCatalogSeeded records how many rows the last seeding run wrote.
func SetCatalogSeeded(rows int) {
	catalogSeeded.Set(float64(rows))
}
