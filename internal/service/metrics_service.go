package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the wizard API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	activeSessions  prometheus.Gauge
	submissions     *prometheus.CounterVec
	bulkRows        *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wizard_sessions_active",
		Help: "Number of live wizard sessions",
	})

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_submissions_total",
		Help: "Submission attempts by flow and outcome",
	}, []string{"flow", "outcome"})

	bulkRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_bulk_rows_total",
		Help: "Bulk rows by validation result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, activeSessions, submissions, bulkRows, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		activeSessions:  activeSessions,
		submissions:     submissions,
		bulkRows:        bulkRows,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one request observation.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// SetActiveSessions publishes the live session count.
func (s *MetricsService) SetActiveSessions(count int) {
	s.activeSessions.Set(float64(count))
}

// IncSubmission counts a submission attempt.
func (s *MetricsService) IncSubmission(flow, outcome string) {
	s.submissions.WithLabelValues(flow, outcome).Inc()
}

// AddBulkRows counts validated bulk rows by result.
func (s *MetricsService) AddBulkRows(result string, count int) {
	if count > 0 {
		s.bulkRows.WithLabelValues(result).Add(float64(count))
	}
}
