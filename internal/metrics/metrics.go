package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry         *prometheus.Registry
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	workspaceOps     *prometheus.CounterVec
	noteOps          *prometheus.CounterVec
	eventsPublished  *prometheus.CounterVec
	websocketClients prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		workspaceOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workspace_mutations_total",
				Help: "Workspace tree mutations by operation, item type and outcome",
			},
			[]string{"op", "type", "result"},
		),
		noteOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "note_operations_total",
				Help: "Note API operations by outcome",
			},
			[]string{"op", "result"},
		),
		eventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_published_total",
				Help: "Domain events published by type",
			},
			[]string{"type"},
		),
		websocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "websocket_clients",
			Help: "Currently connected websocket clients",
		}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.workspaceOps,
		m.noteOps,
		m.eventsPublished,
		m.websocketClients,
	)
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveWorkspaceOp(op, kind string, err error) {
	m.workspaceOps.WithLabelValues(op, kind, result(err)).Inc()
}

func (m *Metrics) ObserveNoteOp(op string, err error) {
	m.noteOps.WithLabelValues(op, result(err)).Inc()
}

func (m *Metrics) ObserveEvent(eventType string) {
	m.eventsPublished.WithLabelValues(eventType).Inc()
}

func (m *Metrics) ClientConnected()    { m.websocketClients.Inc() }
func (m *Metrics) ClientDisconnected() { m.websocketClients.Dec() }

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request counts and latency per route pattern.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		m.requestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
