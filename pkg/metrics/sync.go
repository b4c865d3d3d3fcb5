package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records outcomes of best-effort bridge pushes and pulls.
type SyncMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_duration_seconds",
		Help:    "Duration of sync bridge calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_success",
		Help: "Successful sync bridge calls.",
	}, []string{"action"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_failure",
		Help: "Failed sync bridge calls.",
	}, []string{"action"})
	reg.MustRegister(duration, success, failure)
	return &SyncMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named bridge action.
func (s *SyncMetrics) ObserveDuration(action string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(action)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named action.
func (s *SyncMetrics) IncSuccess(action string) {
	if s == nil || s.success == nil {
		return
	}
	s.success.WithLabelValues(normalizeLabel(action)).Inc()
}

// IncFailure increments the failure counter for the named action.
func (s *SyncMetrics) IncFailure(action string) {
	if s == nil || s.failure == nil {
		return
	}
	s.failure.WithLabelValues(normalizeLabel(action)).Inc()
}

func normalizeLabel(action string) string {
	if action == "" {
		return "unknown"
	}
	return action
}
