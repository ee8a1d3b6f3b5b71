package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	jobTotal     *prometheus.CounterVec
	jobDuration  *prometheus.HistogramVec
	jobInFlight  prometheus.Gauge
	jobDocuments *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	jobTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appx",
			Subsystem: "worker",
			Name:      "extract_jobs_total",
			Help:      "Total processed extraction jobs by outcome.",
		},
		[]string{"service", "outcome"},
	)
	jobDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "appx",
			Subsystem: "worker",
			Name:      "extract_job_duration_seconds",
			Help:      "Extraction job duration in seconds by outcome.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"service", "outcome"},
	)
	jobInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "appx",
			Subsystem: "worker",
			Name:      "extract_jobs_in_flight",
			Help:      "Number of in-flight extraction jobs.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	jobDocuments := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appx",
			Subsystem: "worker",
			Name:      "documents_total",
			Help:      "Documents produced by extraction jobs.",
		},
		[]string{"service"},
	)

	registry.MustRegister(jobTotal, jobDuration, jobInFlight, jobDocuments)

	return &WorkerMetrics{
		registry:     registry,
		jobTotal:     jobTotal,
		jobDuration:  jobDuration,
		jobInFlight:  jobInFlight,
		jobDocuments: jobDocuments,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartJob() {
	m.jobInFlight.Inc()
}

func (m *WorkerMetrics) FinishJob(service string, documents int, duration time.Duration, err error) {
	m.jobInFlight.Dec()

	outcome := Outcome(documents, err)
	m.jobTotal.WithLabelValues(service, outcome).Inc()
	m.jobDuration.WithLabelValues(service, outcome).Observe(duration.Seconds())
	if documents > 0 {
		m.jobDocuments.WithLabelValues(service).Add(float64(documents))
	}
}
