package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	ingestTotal        *prometheus.CounterVec
	ingestChunks       *prometheus.HistogramVec
	ingestDuration     *prometheus.HistogramVec
	askModeTotal       *prometheus.CounterVec
	askRetrievalHits   *prometheus.CounterVec
	askNoContextTotal  *prometheus.CounterVec
	askRetrievedChunks *prometheus.HistogramVec
	askDuration        *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "documind",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "documind",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "documind",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	ingestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "documind",
			Subsystem: "ingest",
			Name:      "documents_total",
			Help:      "Total ingestion attempts by status.",
		},
		[]string{"service", "status"},
	)
	ingestChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "documind",
			Subsystem: "ingest",
			Name:      "chunks_per_document",
			Help:      "Distribution of chunk counts per ingested document.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
		},
		[]string{"service"},
	)
	ingestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "documind",
			Subsystem: "ingest",
			Name:      "duration_seconds",
			Help:      "Ingestion duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	askModeTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "documind",
			Subsystem: "ask",
			Name:      "mode_requests_total",
			Help:      "Total successful ask requests by retrieval mode.",
		},
		[]string{"service", "mode"},
	)
	askRetrievalHits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "documind",
			Subsystem: "ask",
			Name:      "retrieval_hit_total",
			Help:      "Total ask requests with at least one retrieved source.",
		},
		[]string{"service"},
	)
	askNoContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "documind",
			Subsystem: "ask",
			Name:      "no_context_total",
			Help:      "Total ask requests answered with the fixed not-found payload.",
		},
		[]string{"service"},
	)
	askRetrievedChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "documind",
			Subsystem: "ask",
			Name:      "retrieved_sources",
			Help:      "Distribution of source documents per successful ask request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	askDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "documind",
			Subsystem: "ask",
			Name:      "duration_seconds",
			Help:      "Ask execution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		ingestTotal,
		ingestChunks,
		ingestDuration,
		askModeTotal,
		askRetrievalHits,
		askNoContextTotal,
		askRetrievedChunks,
		askDuration,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		ingestTotal:        ingestTotal,
		ingestChunks:       ingestChunks,
		ingestDuration:     ingestDuration,
		askModeTotal:       askModeTotal,
		askRetrievalHits:   askRetrievalHits,
		askNoContextTotal:  askNoContextTotal,
		askRetrievedChunks: askRetrievedChunks,
		askDuration:        askDuration,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/documents/"):
		return "/documents/{document_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordIngest(service string, chunkCount int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ingestTotal.WithLabelValues(service, status).Inc()
	m.ingestDuration.WithLabelValues(service, status).Observe(duration.Seconds())
	if err == nil {
		m.ingestChunks.WithLabelValues(service).Observe(float64(chunkCount))
	}
}

func (m *HTTPServerMetrics) RecordAsk(service, mode string, sourceCount int, duration time.Duration) {
	if mode == "" {
		mode = "unknown"
	}
	m.askModeTotal.WithLabelValues(service, mode).Inc()
	m.askRetrievedChunks.WithLabelValues(service).Observe(float64(sourceCount))
	m.askDuration.WithLabelValues(service).Observe(duration.Seconds())

	if sourceCount > 0 {
		m.askRetrievalHits.WithLabelValues(service).Inc()
		return
	}
	m.askNoContextTotal.WithLabelValues(service).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
