package obs

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP-wide metrics.
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Authentication flow metrics. Outcome is "success" or "failure".
var (
	authFlowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_flows_total",
			Help: "Authentication flow attempts by flow and outcome.",
		},
		[]string{"flow", "outcome"},
	)

	refreshRotationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_refresh_rotations_total",
		Help: "Successful refresh token rotations.",
	})
)

// Init registers all metrics in the default registry.
func Init() {
	prometheus.MustRegister(
		httpInFlight, httpRequestsTotal, httpRequestDuration,
		authFlowsTotal, refreshRotationsTotal,
	)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveAuthFlow records an authentication flow outcome.
func ObserveAuthFlow(flow string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	authFlowsTotal.WithLabelValues(flow, outcome).Inc()
}

// ObserveRefreshRotation counts a completed refresh token rotation.
func ObserveRefreshRotation() {
	refreshRotationsTotal.Inc()
}

// CanonicalPath collapses per-entity path segments so metric labels stay
// low-cardinality.
func CanonicalPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	parts := strings.Split(path, "/")
	if len(parts) < 4 || parts[1] != "v1" || parts[3] == "" {
		return path
	}
	switch parts[2] {
	case "users":
		// /v1/users/{id}[/details|/products|/product[/{assignedID}]]
		parts[3] = ":id"
		if len(parts) == 6 && parts[4] == "product" {
			parts[5] = ":id"
		}
	case "workouts":
		// /v1/workouts/{id}[/exercises[/{exerciseID}]]
		parts[3] = ":id"
		if len(parts) == 6 && parts[4] == "exercises" {
			parts[5] = ":id"
		}
	case "exercises", "products":
		// /v1/exercises/{id} and /v1/products/{id}; search keeps its name
		if parts[3] != "search" && len(parts) == 4 {
			parts[3] = ":id"
		}
	default:
		return path
	}
	if len(parts) > 6 {
		return path
	}
	return strings.Join(parts, "/")
}

// Instrument wraps a handler with RPS/latency/in-flight measurements.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: 200}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)

		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpInFlight.Dec()
	})
}

// statusWriter captures the response code for metrics labels.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
