// Package metrics holds the Prometheus instruments of the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all instruments. Each instance registers on its own
// registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP API
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrors          *prometheus.CounterVec

	// Streaming
	ActiveConnections     prometheus.Gauge
	ChunksReceived        prometheus.Counter
	ChunkSize             prometheus.Histogram
	TranscriptionFailures prometheus.Counter
	TranscriptionDuration prometheus.Histogram
	BroadcastFailures     prometheus.Counter

	// Store
	StoreSaves        prometheus.Counter
	StoreSaveFailures prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "highlighter_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "highlighter_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		HTTPErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "highlighter_http_errors_total",
			Help: "Total number of HTTP errors",
		}, []string{"method", "endpoint", "error_type"}),

		ActiveConnections: f.NewGauge(prometheus.GaugeOpts{
			Name: "highlighter_ws_active_connections",
			Help: "Current number of open audio connections",
		}),
		ChunksReceived: f.NewCounter(prometheus.CounterOpts{
			Name: "highlighter_audio_chunks_received_total",
			Help: "Total number of binary audio chunks received",
		}),
		ChunkSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "highlighter_audio_chunk_size_bytes",
			Help:    "Size of received audio chunks in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 12), // 1KB to ~4MB
		}),
		TranscriptionFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "highlighter_transcription_failures_total",
			Help: "Total number of failed chunk transcriptions",
		}),
		TranscriptionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "highlighter_transcription_duration_seconds",
			Help:    "Duration of chunk transcriptions",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~1 minute
		}),
		BroadcastFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "highlighter_broadcast_failures_total",
			Help: "Total number of connections dropped during broadcast",
		}),

		StoreSaves: f.NewCounter(prometheus.CounterOpts{
			Name: "highlighter_store_saves_total",
			Help: "Total number of successful store saves",
		}),
		StoreSaveFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "highlighter_store_save_failures_total",
			Help: "Total number of failed store saves",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordHTTPError records an HTTP error
func (m *Metrics) RecordHTTPError(method, endpoint, errorType string) {
	m.HTTPErrors.WithLabelValues(method, endpoint, errorType).Inc()
}

// ConnectionOpened and ConnectionClosed track the active connection gauge.
func (m *Metrics) ConnectionOpened() { m.ActiveConnections.Inc() }
func (m *Metrics) ConnectionClosed() { m.ActiveConnections.Dec() }

// RecordChunk counts one received audio chunk.
func (m *Metrics) RecordChunk(sizeBytes int) {
	m.ChunksReceived.Inc()
	m.ChunkSize.Observe(float64(sizeBytes))
}

// RecordTranscription observes one transcription attempt.
func (m *Metrics) RecordTranscription(durationSeconds float64, failed bool) {
	m.TranscriptionDuration.Observe(durationSeconds)
	if failed {
		m.TranscriptionFailures.Inc()
	}
}

// RecordBroadcastFailures counts connections pruned after a broadcast.
func (m *Metrics) RecordBroadcastFailures(n int) {
	m.BroadcastFailures.Add(float64(n))
}

// RecordStoreSave counts a save outcome.
func (m *Metrics) RecordStoreSave(err error) {
	if err != nil {
		m.StoreSaveFailures.Inc()
		return
	}
	m.StoreSaves.Inc()
}
