// Package metrics defines the Prometheus collectors the server exports on
// /metrics.
//
// Each Metrics value owns its own registry, so tests can build as many
// servers as they like without duplicate-registration panics.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth method label values.
const (
	MethodSignup = "signup"
	MethodLogin  = "login"
	MethodBearer = "bearer"
)

type Metrics struct {
	registry *prometheus.Registry

	AuthSuccesses       *prometheus.CounterVec
	AuthFailures        *prometheus.CounterVec
	TokenGenerations    *prometheus.CounterVec
	FeedbackSubmissions prometheus.Counter
	requestDuration     *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		AuthSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_successes",
			Help: "Count of successful authentications",
		}, []string{"method"}),
		AuthFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_failures",
			Help: "Count of failed authentications",
		}, []string{"method"}),
		TokenGenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_token_generations",
			Help: "Count of auth tokens created",
		}, []string{"method"}),
		FeedbackSubmissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedback_submissions",
			Help: "Count of feedback documents stored",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.AuthSuccesses,
		m.AuthFailures,
		m.TokenGenerations,
		m.FeedbackSubmissions,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry backing this Metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WatchDB exports connection pool stats for db under the given name.
func (m *Metrics) WatchDB(db *sql.DB, name string) {
	m.registry.MustRegister(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument records request latency. The route label is chi's matched
// pattern, not the raw path, so cardinality stays bounded.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
