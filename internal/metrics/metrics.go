package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the preview server. Each
// instance owns its registry so servers built in tests do not collide.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter
	Messages       *prometheus.CounterVec

	FieldChanges *prometheus.CounterVec
	Projections  prometheus.Counter
	Scrolls      prometheus.Counter
	Breakpoints  *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, including the Go runtime
// and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formpreview_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "formpreview_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "formpreview_sessions_active",
			Help: "Live preview sessions currently connected",
		}),
		SessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "formpreview_sessions_total",
			Help: "Live preview sessions opened",
		}),
		Messages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formpreview_ws_messages_total",
			Help: "Websocket messages by direction and type",
		}, []string{"direction", "type"}),
		FieldChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formpreview_field_changes_total",
			Help: "Field changes by field and outcome",
		}, []string{"variant", "field", "outcome"}),
		Projections: factory.NewCounter(prometheus.CounterOpts{
			Name: "formpreview_surface_projections_total",
			Help: "Documents projected into preview surfaces",
		}),
		Scrolls: factory.NewCounter(prometheus.CounterOpts{
			Name: "formpreview_scroll_requests_total",
			Help: "Scroll-into-view requests sent to surfaces",
		}),
		Breakpoints: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formpreview_breakpoint_changes_total",
			Help: "Container measurements by resulting breakpoint",
		}, []string{"breakpoint"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency. Paths are the route
// patterns so label cardinality stays bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// SessionOpened records a new live session.
func (m *Metrics) SessionOpened() {
	m.SessionsActive.Inc()
	m.SessionsTotal.Inc()
}

// SessionClosed records a finished live session.
func (m *Metrics) SessionClosed() {
	m.SessionsActive.Dec()
}

// Message counts a websocket message.
func (m *Metrics) Message(direction, kind string) {
	m.Messages.WithLabelValues(direction, kind).Inc()
}

// FieldChange counts a field change outcome: committed, rejected or ignored.
func (m *Metrics) FieldChange(variant, field, outcome string) {
	m.FieldChanges.WithLabelValues(variant, field, outcome).Inc()
}
