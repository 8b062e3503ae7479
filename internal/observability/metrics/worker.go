package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	summarizeTotal    *prometheus.CounterVec
	summarizeDuration *prometheus.HistogramVec
	summarizeInFlight prometheus.Gauge
	queueLag          *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	summarizeTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "documind",
			Subsystem: "worker",
			Name:      "document_summarize_total",
			Help:      "Total summarized documents by status.",
		},
		[]string{"service", "status"},
	)
	summarizeDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "documind",
			Subsystem: "worker",
			Name:      "document_summarize_duration_seconds",
			Help:      "Document summarization duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	summarizeInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "documind",
			Subsystem: "worker",
			Name:      "document_summarize_in_flight",
			Help:      "Number of in-flight summarization tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "documind",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between document ingestion and summarization start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(summarizeTotal, summarizeDuration, summarizeInFlight, queueLag)

	return &WorkerMetrics{
		registry:          registry,
		summarizeTotal:    summarizeTotal,
		summarizeDuration: summarizeDuration,
		summarizeInFlight: summarizeInFlight,
		queueLag:          queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartSummarize() {
	m.summarizeInFlight.Inc()
}

func (m *WorkerMetrics) FinishSummarize(service string, duration time.Duration, err error) {
	m.summarizeInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.summarizeTotal.WithLabelValues(service, status).Inc()
	m.summarizeDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}
