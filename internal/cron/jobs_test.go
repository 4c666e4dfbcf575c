package cron

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

// testRunPruner implements RunPruner for job tests.
type testRunPruner struct {
	pruneCalls atomic.Int32
	pruneFunc  func(cutoff time.Time) (int64, error)
}

func (p *testRunPruner) PruneRuns(_ context.Context, cutoff time.Time) (int64, error) {
	p.pruneCalls.Add(1)
	if p.pruneFunc != nil {
		return p.pruneFunc(cutoff)
	}
	return 0, nil
}

func TestRunHistoryPruneJob_Name(t *testing.T) {
	t.Parallel()
	j := &RunHistoryPruneJob{Logger: slog.Default()}
	if j.Name() != "run_history_prune" {
		t.Errorf("name = %q, want %q", j.Name(), "run_history_prune")
	}
}

func TestRunHistoryPruneJob_Schedule(t *testing.T) {
	t.Parallel()

	j := &RunHistoryPruneJob{Logger: slog.Default()}
	if j.Schedule() != "0 3 * * *" {
		t.Errorf("schedule = %q, want %q", j.Schedule(), "0 3 * * *")
	}

	j.ScheduleExpr = "*/30 * * * *"
	if j.Schedule() != "*/30 * * * *" {
		t.Errorf("schedule = %q, want override", j.Schedule())
	}
}

func TestRunHistoryPruneJob_Run(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC)
	pruner := &testRunPruner{
		pruneFunc: func(cutoff time.Time) (int64, error) {
			want := now.Add(-30 * 24 * time.Hour)
			if !cutoff.Equal(want) {
				t.Errorf("cutoff = %v, want %v", cutoff, want)
			}
			return 5, nil
		},
	}

	j := &RunHistoryPruneJob{
		Runs:      pruner,
		Retention: 30 * 24 * time.Hour,
		Logger:    slog.Default(),
		now:       func() time.Time { return now },
	}

	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pruner.pruneCalls.Load() != 1 {
		t.Errorf("prune calls = %d, want 1", pruner.pruneCalls.Load())
	}
}

func TestRunHistoryPruneJob_RunError(t *testing.T) {
	t.Parallel()

	pruner := &testRunPruner{
		pruneFunc: func(time.Time) (int64, error) {
			return 0, errors.New("disk full")
		},
	}

	j := &RunHistoryPruneJob{
		Runs:      pruner,
		Retention: time.Hour,
		Logger:    slog.Default(),
	}

	if err := j.Run(context.Background()); err == nil {
		t.Fatal("expected error from failing pruner")
	}
}
