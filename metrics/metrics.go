// Package metrics provides Prometheus instrumentation for the API.
//
// A Metrics value owns a private registry, so tests can build as many as they
// like without colliding on the global one. Wire it up once in routes:
//
//	r.Use(m.Middleware())
//	r.GET("/metrics", m.Handler())
//
// Services record lifecycle events through ObserveTransition and ObserveClaim.
// A nil *Metrics records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mocardapio"

// Claim outcomes.
const (
	ClaimWon      = "won"
	ClaimConflict = "conflict"
	ClaimRejected = "rejected"
)

type Metrics struct {
	Registry *prometheus.Registry

	RequestDuration  *prometheus.HistogramVec
	RequestTotal     *prometheus.CounterVec
	RequestInFlight  prometheus.Gauge
	OrderTransitions *prometheus.CounterVec
	OrdersCreated    prometheus.Counter
	Claims           *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		RequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		RequestInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		}),
		OrderTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_transitions_total",
				Help:      "Order status changes committed, by from/to status and actor role.",
			},
			[]string{"from", "to", "role"},
		),
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders placed.",
		}),
		Claims: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "order_claims_total",
				Help:      "Courier claim attempts by outcome.",
			},
			[]string{"outcome"}, // "won" | "conflict" | "rejected"
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestDuration,
		m.RequestTotal,
		m.RequestInFlight,
		m.OrderTransitions,
		m.OrdersCreated,
		m.Claims,
	)
	return m
}

// Middleware records duration, count and in-flight requests. The path label is
// the matched route template, which keeps cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.RequestInFlight.Inc()
		defer m.RequestInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// Handler exposes the registry on GET /metrics.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
	return gin.WrapH(h)
}

func (m *Metrics) ObserveCreated() {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
}

func (m *Metrics) ObserveTransition(from, to, role string) {
	if m == nil {
		return
	}
	m.OrderTransitions.WithLabelValues(from, to, role).Inc()
}

func (m *Metrics) ObserveClaim(outcome string) {
	if m == nil {
		return
	}
	m.Claims.WithLabelValues(outcome).Inc()
}
