package web

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector exposes Prometheus counters for the serving surface.
// A nil collector is valid and records nothing, which keeps handlers
// usable in tests without touching the default registry.
type MetricsCollector struct {
	positionQueries *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	framesPublished prometheus.Counter
	streamClients   prometheus.Gauge
	queryErrors     prometheus.Counter
}

func NewMetricsCollector() *MetricsCollector {
	m := &MetricsCollector{
		positionQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orrery_position_queries_total",
				Help: "Position queries served, by call path",
			},
			[]string{"path"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orrery_position_query_duration_seconds",
				Help:    "Time spent computing one full position query",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"path"},
		),
		framesPublished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "orrery_frames_published_total",
				Help: "Frames published by the feed loop",
			},
		),
		streamClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "orrery_stream_clients",
				Help: "Currently connected websocket stream clients",
			},
		),
		queryErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "orrery_position_query_errors_total",
				Help: "Position queries that failed (solver invariant violations)",
			},
		),
	}

	prometheus.MustRegister(m.positionQueries)
	prometheus.MustRegister(m.queryDuration)
	prometheus.MustRegister(m.framesPublished)
	prometheus.MustRegister(m.streamClients)
	prometheus.MustRegister(m.queryErrors)

	return m
}

func (m *MetricsCollector) RecordQuery(path string, duration time.Duration) {
	if m == nil {
		return
	}
	m.positionQueries.WithLabelValues(path).Inc()
	m.queryDuration.WithLabelValues(path).Observe(duration.Seconds())
}

func (m *MetricsCollector) RecordQueryError() {
	if m == nil {
		return
	}
	m.queryErrors.Inc()
}

func (m *MetricsCollector) RecordFrame() {
	if m == nil {
		return
	}
	m.framesPublished.Inc()
}

func (m *MetricsCollector) StreamClientConnected() {
	if m == nil {
		return
	}
	m.streamClients.Inc()
}

func (m *MetricsCollector) StreamClientDisconnected() {
	if m == nil {
		return
	}
	m.streamClients.Dec()
}
