// Package metrics collects Prometheus metrics for renders, exports, persistence and the local HTTP API.
//
// Every method is safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cvbuilder"

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics owns a private registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	renderDuration   *prometheus.HistogramVec
	renderTotal      *prometheus.CounterVec
	pages            *prometheus.GaugeVec
	exportTotal      *prometheus.CounterVec
	persistTotal     *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
}

// New creates the collectors and registers them with Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "render",
				Name:      "duration_seconds",
				Help:      "Time spent rendering a CV with a template.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"template"},
		),
		renderTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "render",
				Name:      "total",
				Help:      "Renders by template and outcome.",
			},
			[]string{"template", "outcome"},
		),
		pages: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "render",
				Name:      "pages",
				Help:      "Page count of the latest preview per template.",
			},
			[]string{"template"},
		),
		exportTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "export",
				Name:      "total",
				Help:      "Exports by format and outcome.",
			},
			[]string{"format", "outcome"},
		),
		persistTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "writes_total",
				Help:      "Background persistence writes by key and outcome.",
			},
			[]string{"key", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Local API request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "in_flight_requests",
				Help:      "Requests currently being served.",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.renderDuration,
		m.renderTotal,
		m.pages,
		m.exportTotal,
		m.persistTotal,
		m.requestDuration,
		m.requestsInFlight,
	)
	return m
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRender records one render.
func (m *Metrics) ObserveRender(template string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(template).Observe(elapsed.Seconds())
	m.renderTotal.WithLabelValues(template, outcome(err)).Inc()
}

// SetPages records the page count of the latest preview.
func (m *Metrics) SetPages(template string, pages int) {
	if m == nil {
		return
	}
	m.pages.WithLabelValues(template).Set(float64(pages))
}

// ObserveExport records one export attempt.
func (m *Metrics) ObserveExport(format string, err error) {
	if m == nil {
		return
	}
	m.exportTotal.WithLabelValues(format, outcome(err)).Inc()
}

// ObservePersist records one background write.
func (m *Metrics) ObservePersist(key string, err error) {
	if m == nil {
		return
	}
	m.persistTotal.WithLabelValues(key, outcome(err)).Inc()
}

// Middleware records request latency. The route pattern is used as the path label.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		m.requestDuration.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Flush keeps server-sent events working through the middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
