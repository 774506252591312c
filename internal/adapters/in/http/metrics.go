package http

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"proofparcel/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private prometheus registry with the service collectors.
type Metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	transitions *prometheus.CounterVec
}

// NewMetrics registers the collectors. The escrow gauge reads the committed
// balance on every scrape.
func NewMetrics(balance queries.GetEscrowBalanceQueryHandler) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proofparcel_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proofparcel_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proofparcel_delivery_transitions_total",
				Help: "Total number of committed delivery state transitions",
			},
			[]string{"transition"},
		),
	}

	lockedBalance := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "proofparcel_escrow_locked_balance",
			Help: "Sum of escrow amounts still locked",
		},
		func() float64 {
			value, err := balance.Handle(context.Background(), queries.NewGetEscrowBalanceQuery())
			if err != nil {
				return math.NaN()
			}
			return float64(value)
		},
	)

	m.registry.MustRegister(m.requests, m.duration, m.transitions, lockedBalance)
	return m
}

// ObserveTransitions counts n committed transitions of the given name.
func (m *Metrics) ObserveTransitions(transition string, n int) {
	if n <= 0 {
		return
	}
	m.transitions.WithLabelValues(transition).Add(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records every request under its route template, so ids in
// paths do not explode label cardinality.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = toAPIError(err).Code
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.duration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
