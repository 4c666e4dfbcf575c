package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors for the scan loop. Registered once on the
// default registry; the gateway exposes them under /metrics.
var (
	scansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "finsched",
		Name:      "scans_total",
		Help:      "Completed scan cycles, including scans that found no due tasks.",
	})

	scanFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "finsched",
		Name:      "scan_failures_total",
		Help:      "Scan cycles aborted by a task-store error.",
	})

	dueTasks = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "finsched",
		Name:      "due_tasks",
		Help:      "Due tasks found by the most recent scan.",
	})

	taskRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finsched",
		Name:      "task_runs_total",
		Help:      "Task execution attempts by outcome.",
	}, []string{"status"})

	scanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "finsched",
		Name:      "scan_duration_seconds",
		Help:      "Wall time of one scan cycle, task executions included.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)
