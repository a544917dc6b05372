// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	MatchScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "match_score",
			Help:    "Distribution of computed match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"contract"},
	)

	CandidatesRanked = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ranking_candidates",
			Help:    "Number of candidate properties per ranking job",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"contract"},
	)

	MatchTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_transitions_total",
			Help: "Total number of match status transitions",
		},
		[]string{"from", "to"},
	)

	UrgencyLevels = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urgency_estimates_total",
			Help: "Total urgency estimates by resulting level",
		},
		[]string{"level"},
	)
)
