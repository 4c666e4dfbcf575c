package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RunPruner is the subset of the run-history store needed by cron jobs.
// Defined here to avoid a dependency on the store package.
type RunPruner interface {
	PruneRuns(ctx context.Context, cutoff time.Time) (int64, error)
}

// RunHistoryPruneJob deletes run-history rows older than Retention.
type RunHistoryPruneJob struct {
	Runs         RunPruner
	Retention    time.Duration
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "0 3 * * *"

	now func() time.Time
}

// Compile-time interface check.
var _ Job = (*RunHistoryPruneJob)(nil)

// Name implements Job.
func (j *RunHistoryPruneJob) Name() string {
	return "run_history_prune"
}

// Schedule implements Job. Defaults to a nightly run at 03:00.
func (j *RunHistoryPruneJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "0 3 * * *"
}

// Run deletes history rows that finished before now minus Retention.
func (j *RunHistoryPruneJob) Run(ctx context.Context) error {
	clock := j.now
	if clock == nil {
		clock = time.Now
	}
	cutoff := clock().UTC().Add(-j.Retention)

	pruned, err := j.Runs.PruneRuns(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("cron: prune run history: %w", err)
	}
	if pruned > 0 {
		j.Logger.Info("cron: pruned run history", "count", pruned, "cutoff", cutoff)
	}
	return nil
}
