// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job lifecycle, recorded by camunda.Instrument for every task type.
var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparex_worker_jobs_completed_total",
			Help: "Jobs completed, by task type",
		},
		[]string{"task_type"},
	)

	// WorkerJobsFailed splits failures into "failed" (Zeebe retries) and
	// "bpmn_error" (routed by the process model).
	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparex_worker_jobs_failed_total",
			Help: "Jobs failed or thrown as BPMN errors, by task type",
		},
		[]string{"task_type", "outcome"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "comparex_worker_job_duration_seconds",
			Help:    "Handler wall time per job",
			Buckets: []float64{.005, .025, .1, .25, .5, 1, 2.5, 5, 12, 20},
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "comparex_worker_jobs_active",
			Help: "Jobs currently inside a handler",
		},
		[]string{"task_type"},
	)
)

// Comparison domain
var (
	RankingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparex_rankings_total",
			Help: "Rankings computed, by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	RankedItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "comparex_ranked_items",
			Help:    "Number of items surviving filters per ranking",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)

	TieGroupSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "comparex_tie_group_size",
			Help:    "Size of the tie group for purpose rankings",
			Buckets: []float64{1, 2, 3, 4, 6, 10},
		},
	)

	ExplanationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparex_explanations_total",
			Help: "Explanations produced, by source (generated or a fallback reason)",
		},
		[]string{"source"},
	)

	CatalogCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparex_catalog_cache_lookups_total",
			Help: "Attribute cache lookups by result",
		},
		[]string{"result"},
	)

	ReportsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparex_reports_delivered_total",
			Help: "Report deliveries by channel and status",
		},
		[]string{"channel", "status"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "comparex_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	BreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparex_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// ObserveRanking records one ranking outcome.
func ObserveRanking(strategy, outcome string, ranked, tieGroup int) {
	RankingsTotal.WithLabelValues(strategy, outcome).Inc()
	RankedItems.Observe(float64(ranked))
	if tieGroup > 0 {
		TieGroupSize.Observe(float64(tieGroup))
	}
}
