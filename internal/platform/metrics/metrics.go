package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics is
// safe to call so tests can skip registration.
type Metrics struct {
	SessionsInitiated prometheus.Counter
	GeofenceDenied    prometheus.Counter
	VideosSubmitted   prometheus.Counter
	Verifications     *prometheus.CounterVec
	ReportFailures    prometheus.Counter
	AnalysisDuration  prometheus.Histogram
	RequestLatency    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		SessionsInitiated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "verifai_sessions_initiated_total",
			Help: "Total number of inspection sessions created or reset",
		}),
		GeofenceDenied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "verifai_geofence_denied_total",
			Help: "Total number of initiate attempts rejected by the geofence",
		}),
		VideosSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "verifai_videos_submitted_total",
			Help: "Total number of videos accepted for analysis",
		}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verifai_verifications_completed_total",
			Help: "Total completed verifications by verdict status",
		}, []string{"status"}),
		ReportFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "verifai_report_failures_total",
			Help: "Total certificate renders that failed and were skipped",
		}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "verifai_analysis_duration_seconds",
			Help:    "Wall-clock duration of the analysis gateway call",
			Buckets: []float64{1, 5, 10, 20, 40, 60, 90, 120},
		}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verifai_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncSessionInitiated increments the initiated-sessions counter.
func (m *Metrics) IncSessionInitiated() {
	if m == nil {
		return
	}
	m.SessionsInitiated.Inc()
}

// IncGeofenceDenied increments the geofence-rejection counter.
func (m *Metrics) IncGeofenceDenied() {
	if m == nil {
		return
	}
	m.GeofenceDenied.Inc()
}

// IncVideoSubmitted increments the accepted-videos counter.
func (m *Metrics) IncVideoSubmitted() {
	if m == nil {
		return
	}
	m.VideosSubmitted.Inc()
}

// IncVerification records a completed verification with its verdict status.
func (m *Metrics) IncVerification(status string) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(status).Inc()
}

// IncReportFailure increments the skipped-certificate counter.
func (m *Metrics) IncReportFailure() {
	if m == nil {
		return
	}
	m.ReportFailures.Inc()
}

// ObserveAnalysis records the duration of one analysis gateway call.
func (m *Metrics) ObserveAnalysis(d time.Duration) {
	if m == nil {
		return
	}
	m.AnalysisDuration.Observe(d.Seconds())
}
