// Package metrics exposes prometheus collectors for the scoring workflow.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every method becomes a no-op.
type Metrics struct {
	registry        *prometheus.Registry
	scoringRuns     *prometheus.CounterVec
	scoringDuration prometheus.Histogram
	completed       *prometheus.CounterVec
	conflicts       prometheus.Counter
	snapshotCache   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scoringRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindset",
			Name:      "scoring_runs_total",
			Help:      "Scoring engine invocations by outcome.",
		}, []string{"outcome"}),
		scoringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mindset",
			Name:      "scoring_duration_seconds",
			Help:      "Time spent in the scoring engine.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindset",
			Name:      "responses_completed_total",
			Help:      "Assessment responses finalized, by assessment name.",
		}, []string{"assessment"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mindset",
			Name:      "completion_conflicts_total",
			Help:      "Completion attempts rejected because the response was already complete.",
		}),
		snapshotCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindset",
			Name:      "assessment_snapshot_cache_total",
			Help:      "Assessment snapshot cache lookups by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.scoringRuns,
		m.scoringDuration,
		m.completed,
		m.conflicts,
		m.snapshotCache,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveScoring records one engine run.
func (m *Metrics) ObserveScoring(started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.scoringRuns.WithLabelValues(outcome).Inc()
	m.scoringDuration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) ResponseCompleted(assessment string) {
	if m == nil {
		return
	}
	m.completed.WithLabelValues(assessment).Inc()
}

func (m *Metrics) CompletionConflict() {
	if m == nil {
		return
	}
	m.conflicts.Inc()
}

func (m *Metrics) SnapshotCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.snapshotCache.WithLabelValues(result).Inc()
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
