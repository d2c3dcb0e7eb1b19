package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the Prometheus metrics for the application: HTTP
// request counters plus the audit pipeline counters.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	materializerRuns    *prometheus.CounterVec
	factsConsumed       prometheus.Counter
	recordsWritten      prometheus.Counter
	materializerElapsed prometheus.Histogram
}

// NewMetrics initialises the registry and the base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "banksim_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "banksim_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "banksim_materializer_runs_total",
		Help: "Materializer runs by outcome.",
	}, []string{"outcome"})
	facts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "banksim_outbox_facts_consumed_total",
		Help: "Facts drained from the outbox and removed.",
	})
	records := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "banksim_audit_records_written_total",
		Help: "Audit log records appended by the materializer.",
	})
	elapsed := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "banksim_materializer_run_duration_seconds",
		Help:    "Duration of a single materializer run.",
		Buckets: prometheus.DefBuckets,
	})
	registry.MustRegister(requests, duration, runs, facts, records, elapsed)
	return &Metrics{
		registry:            registry,
		handler:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:       requests,
		requestDuration:     duration,
		materializerRuns:    runs,
		factsConsumed:       facts,
		recordsWritten:      records,
		materializerElapsed: elapsed,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveMaterializerRun records the outcome of a single materializer
// pass.
func (m *Metrics) ObserveMaterializerRun(outcome string, facts, records int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.materializerRuns.WithLabelValues(outcome).Inc()
	m.factsConsumed.Add(float64(facts))
	m.recordsWritten.Add(float64(records))
	m.materializerElapsed.Observe(elapsed.Seconds())
}

// Registerer exposes the registry for custom metric registration.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
