// Package metrics provides Prometheus instrumentation for the transport
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics recorded per exchange.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ExchangesTotal   *prometheus.CounterVec
	TransportErrors  prometheus.Counter
	RetriesTotal     prometheus.Counter
	ExchangeDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates and registers the exchange metrics on a fresh registry
func New() *Metrics {
	m := &Metrics{
		ExchangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "venari_exchanges_total",
				Help: "HTTP exchanges executed, by method and final status code",
			},
			[]string{"method", "status"},
		),
		TransportErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "venari_transport_errors_total",
				Help: "Exchanges that exhausted retries without a response",
			},
		),
		RetriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "venari_retries_total",
				Help: "Retry attempts after transport-level failures",
			},
		),
		ExchangeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "venari_exchange_duration_seconds",
				Help:    "Wall clock time per exchange, including retries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(m.ExchangesTotal, m.TransportErrors, m.RetriesTotal, m.ExchangeDuration)
	return m
}

// ObserveExchange records one completed exchange
func (m *Metrics) ObserveExchange(method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.ExchangesTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.ExchangeDuration.WithLabelValues(method).Observe(duration.Seconds())
	if status == 0 {
		m.TransportErrors.Inc()
	}
}

// ObserveRetry records one retry attempt
func (m *Metrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// Handler returns an HTTP handler exposing the registered metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts a metrics endpoint on addr. It blocks, so callers run
// it in a goroutine.
func (m *Metrics) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return http.ListenAndServe(addr, mux)
}
